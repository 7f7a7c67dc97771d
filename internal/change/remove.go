package change

import (
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// Remove announces that objects left the game. The last object in the list
// is the root being removed; the rest are its owned contents (a sunk ship
// and its cargo). Contents are serialized only for the root's owner —
// another player's removed object discloses nothing beyond the root's own
// minimal removal notice.
type Remove struct {
	vis     See
	tile    *game.Tile
	objects []game.Object
}

// NewRemove records a removal at tile. The final element of objects must be
// the root object.
func NewRemove(vis See, tile *game.Tile, objects ...game.Object) *Remove {
	return &Remove{vis: vis, tile: tile, objects: objects}
}

func (c *Remove) Priority() int { return PriorityRemove }

func (c *Remove) root() game.Object {
	if len(c.objects) == 0 {
		return nil
	}
	return c.objects[len(c.objects)-1]
}

func (c *Remove) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(p *game.Player) bool {
		return p.CanSee(c.tile)
	})
}

func (c *Remove) Fragment(p *game.Player) *wire.Fragment {
	root := c.root()
	if root == nil {
		return nil
	}
	out := wire.New("Remove")
	if c.tile != nil {
		out.Set("divert", c.tile.ID())
	}
	ownsRoot := false
	if ow, ok := root.(game.Ownable); ok && p != nil {
		ownsRoot = p.Owns(ow)
	}
	if ownsRoot {
		for _, o := range c.objects {
			out.Append(wire.New(o.WireTag(), "id", o.ID()))
		}
	} else {
		out.Append(wire.New(root.WireTag(), "id", root.ID()))
	}
	return out
}

func (c *Remove) Consequences(*game.Player) []Change { return nil }
