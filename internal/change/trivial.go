package change

import (
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// Trivial is a flat named signal with string attributes and no world-object
// payload. When ambiguous it defaults to visible.
type Trivial struct {
	vis      See
	name     string
	priority int
	attrs    []string
}

// NewTrivial records a named signal. kv lists alternating keys and values.
func NewTrivial(vis See, name string, priority int, kv ...string) *Trivial {
	return &Trivial{vis: vis, name: name, priority: priority, attrs: kv}
}

func (c *Trivial) Priority() int { return c.priority }

func (c *Trivial) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(*game.Player) bool { return true })
}

func (c *Trivial) Fragment(*game.Player) *wire.Fragment {
	return wire.New(c.name, c.attrs...)
}

func (c *Trivial) Consequences(*game.Player) []Change { return nil }

// Attribute attaches one key/value pair to the final payload instead of
// producing its own fragment. The change set diverts it onto whatever
// envelope it builds.
type Attribute struct {
	vis   See
	key   string
	value string
}

// NewAttribute records a diverted payload attribute.
func NewAttribute(vis See, key, value string) *Attribute {
	return &Attribute{vis: vis, key: key, value: value}
}

func (c *Attribute) Priority() int { return PriorityAttribute }

func (c *Attribute) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(*game.Player) bool { return true })
}

// Fragment always returns nil; the attribute is merged onto the final
// payload by ChangeSet.Build.
func (c *Attribute) Fragment(*game.Player) *wire.Fragment { return nil }

func (c *Attribute) Consequences(*game.Player) []Change { return nil }

// Divert returns the key/value pair to merge onto the final payload.
func (c *Attribute) Divert() (string, string) { return c.key, c.value }

// Encoder is anything that can render itself as a wire fragment; typed
// messages satisfy it.
type Encoder interface {
	ToFragment() *wire.Fragment
}

// Message wraps a pre-built typed message as a change record, letting
// server code push arbitrary protocol messages through the same priority
// and visibility machinery.
type Message struct {
	vis See
	msg Encoder
}

// NewMessage records a pre-built message for delivery.
func NewMessage(vis See, msg Encoder) *Message {
	return &Message{vis: vis, msg: msg}
}

func (c *Message) Priority() int { return PriorityMessage }

func (c *Message) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(*game.Player) bool { return true })
}

func (c *Message) Fragment(*game.Player) *wire.Fragment {
	return c.msg.ToFragment()
}

func (c *Message) Consequences(*game.Player) []Change { return nil }
