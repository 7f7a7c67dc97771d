package change

import (
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// Update carries full serializations of one or more changed objects. Each
// object is filtered per recipient at specialization time.
type Update struct {
	vis     See
	objects []game.Object
}

// NewUpdate records that the given objects changed.
func NewUpdate(vis See, objects ...game.Object) *Update {
	return &Update{vis: vis, objects: objects}
}

func (c *Update) Priority() int { return PriorityUpdate }

func (c *Update) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(p *game.Player) bool {
		for _, o := range c.objects {
			if visibleTo(p, o) {
				return true
			}
		}
		return false
	})
}

func (c *Update) Fragment(p *game.Player) *wire.Fragment {
	out := wire.New("Update")
	for _, o := range c.objects {
		if p != nil && !visibleTo(p, o) {
			continue
		}
		if f := o.ToFragment(p); f != nil {
			out.Append(f)
		}
	}
	if len(out.Children) == 0 {
		return nil
	}
	return out
}

func (c *Update) Consequences(*game.Player) []Change { return nil }

// Partial carries a narrow field update of one object. Unlike Update it is
// not perhaps-notifiable by default: a partial update must be explicitly
// targeted with Only, preventing accidental over-broadcast of a narrow
// field change.
type Partial struct {
	vis    See
	object game.Object
	fields []string
}

// NewPartial records that specific fields of object changed.
func NewPartial(vis See, object game.Object, fields ...string) *Partial {
	return &Partial{vis: vis, object: object, fields: fields}
}

func (c *Partial) Priority() int { return PriorityPartial }

func (c *Partial) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(*game.Player) bool { return false })
}

func (c *Partial) Fragment(p *game.Player) *wire.Fragment {
	f := c.object.ToPartialFragment(c.fields...)
	if f == nil {
		return nil
	}
	return wire.New("Update").Append(f)
}

func (c *Partial) Consequences(*game.Player) []Change { return nil }
