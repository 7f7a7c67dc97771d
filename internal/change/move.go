package change

import (
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// Move animates a unit moving between two tiles. Visibility of the old and
// the new location is evaluated independently per recipient; a player who
// saw the unit before the move but cannot see it after gets a lazily
// synthesized removal so the unit vanishes from their view.
type Move struct {
	vis     See
	unit    *game.UnitSnapshot
	oldTile *game.Tile
	newTile *game.Tile
}

// NewMove records a unit move. When the unit is aboard a carrier the record
// rewrites to the carrier holding only this one unit, so other passengers'
// presence is not disclosed.
func NewMove(vis See, u *game.Unit, oldTile, newTile *game.Tile) *Move {
	var snap *game.UnitSnapshot
	if u.Carrier() != nil {
		snap = u.SnapshotAboard()
	} else {
		snap = u.Snapshot()
	}
	return &Move{vis: vis, unit: snap, oldTile: oldTile, newTile: newTile}
}

func (c *Move) Priority() int { return PriorityAnimation }

func (c *Move) seeOld(p *game.Player) bool { return p.CanSee(c.oldTile) }
func (c *Move) seeNew(p *game.Player) bool { return p.CanSee(c.newTile) }

func (c *Move) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(p *game.Player) bool {
		return c.seeOld(p) || c.seeNew(p)
	})
}

func (c *Move) Fragment(p *game.Player) *wire.Fragment {
	out := wire.New("AnimateMove", "unit", c.unit.ID())
	if c.oldTile != nil {
		out.Set("oldTile", c.oldTile.ID())
	}
	if c.newTile != nil {
		out.Set("newTile", c.newTile.ID())
	}
	// A recipient who could not see the old location has never been told
	// about this unit; attach the snapshot so the client can render it.
	if p != nil && p != c.unit.Owner() && !c.seeOld(p) {
		out.Append(c.unit.ToFragment(p))
	}
	return out
}

func (c *Move) Consequences(p *game.Player) []Change {
	if p == nil || p == c.unit.Owner() {
		return nil
	}
	if c.seeOld(p) && !c.seeNew(p) {
		// Moved out of p's sight: remove it from p's view only.
		return []Change{NewRemove(Only(p), c.oldTile, c.unit)}
	}
	return nil
}
