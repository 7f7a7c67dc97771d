package game

import "github.com/colonyforge/server/internal/wire"

// UnitState is the activity a unit is engaged in.
type UnitState string

const (
	StateActive    UnitState = "active"
	StateFortified UnitState = "fortified"
	StateSentry    UnitState = "sentry"
	StateInColony  UnitState = "inColony"
	StateSkipped   UnitState = "skipped"
)

// Unit is a mobile world object. Exactly one of tile, carrier or work
// location is set while the unit is alive; all three are nil once the unit
// has been disposed.
type Unit struct {
	FeatureContainer
	GoodsContainer
	id         string
	Type       *UnitType
	owner      *Player
	tile       *Tile
	carrier    *Unit
	work       *WorkLocation
	passengers []*Unit
	MovesLeft  int
	State      UnitState
}

func (u *Unit) ID() string      { return u.id }
func (u *Unit) WireTag() string { return "unit" }
func (u *Unit) Owner() *Player  { return u.owner }

// Location resolves the tile the unit effectively occupies: its own tile, the
// carrier's tile, or the work location's settlement tile. Returns nil when
// the chain is broken rather than panicking.
func (u *Unit) Location() *Tile {
	switch {
	case u == nil:
		return nil
	case u.tile != nil:
		return u.tile
	case u.carrier != nil:
		return u.carrier.Location()
	case u.work != nil:
		return u.work.Location()
	}
	return nil
}

// Carrier returns the ship or wagon the unit is aboard, or nil.
func (u *Unit) Carrier() *Unit { return u.carrier }

// WorkLocation returns the settlement work location the unit occupies, or nil.
func (u *Unit) WorkLocation() *WorkLocation { return u.work }

// InSettlement reports whether the unit is inside a settlement, either
// working or garrisoned on the settlement tile's interior.
func (u *Unit) InSettlement() bool {
	if u.work != nil {
		return true
	}
	return u.State == StateInColony
}

// Passengers returns units aboard this carrier. Callers must not modify it.
func (u *Unit) Passengers() []*Unit { return u.passengers }

// goodsPerHold is the amount of one goods type a single cargo slot carries.
const goodsPerHold = 100

// HoldsUsed returns the cargo slots occupied by passengers and goods. Each
// passenger takes one slot; goods take one slot per started hundred of each
// type.
func (u *Unit) HoldsUsed() int {
	used := len(u.passengers)
	for _, g := range u.Goods() {
		used += (g.Amount + goodsPerHold - 1) / goodsPerHold
	}
	return used
}

// CanAddGoods reports whether amount of t still fits in the hold.
func (u *Unit) CanAddGoods(t *GoodsType, amount int) bool {
	if u.Type.CargoHold == 0 || amount <= 0 {
		return false
	}
	used := len(u.passengers)
	for _, g := range u.Goods() {
		have := g.Amount
		if g.Type == t {
			have += amount
			amount = 0
		}
		used += (have + goodsPerHold - 1) / goodsPerHold
	}
	if amount > 0 {
		used += (amount + goodsPerHold - 1) / goodsPerHold
	}
	return used <= u.Type.CargoHold
}

// SetTile places the unit on a tile, detaching it from any carrier or work
// location first.
func (u *Unit) SetTile(t *Tile) {
	u.detach()
	u.tile = t
	if t != nil {
		t.addUnit(u)
	}
}

// Board puts the unit aboard carrier.
func (u *Unit) Board(carrier *Unit) {
	u.detach()
	u.carrier = carrier
	carrier.passengers = append(carrier.passengers, u)
}

// SetWorkLocation assigns the unit to a settlement work location.
func (u *Unit) SetWorkLocation(w *WorkLocation) {
	u.detach()
	u.work = w
	w.units = append(w.units, u)
	u.State = StateInColony
}

func (u *Unit) detach() {
	if u.tile != nil {
		u.tile.removeUnit(u)
		u.tile = nil
	}
	if u.carrier != nil {
		c := u.carrier
		for i, p := range c.passengers {
			if p == u {
				c.passengers = append(c.passengers[:i], c.passengers[i+1:]...)
				break
			}
		}
		u.carrier = nil
	}
	if u.work != nil {
		w := u.work
		for i, p := range w.units {
			if p == u {
				w.units = append(w.units[:i], w.units[i+1:]...)
				break
			}
		}
		u.work = nil
	}
}

// Dispose detaches the unit from the world graph. The state flag model
// applies to players only; units really are destroyed.
func (u *Unit) Dispose() {
	u.detach()
}

func (u *Unit) ToFragment(viewer *Player) *wire.Fragment {
	out := wire.New(u.WireTag(), "id", u.id, "type", u.Type.Id)
	if u.owner != nil {
		out.Set("owner", u.owner.ID())
	}
	out.Set("state", string(u.State))
	if loc := u.Location(); loc != nil {
		out.Set("location", loc.ID())
	}
	// Cargo, passengers and remaining movement are private to the owner.
	if viewer == nil || viewer == u.owner {
		out.SetInt("movesLeft", u.MovesLeft)
		for _, g := range u.Goods() {
			out.Append(g.ToFragment(viewer))
		}
		for _, p := range u.passengers {
			out.Append(p.ToFragment(viewer))
		}
	}
	return out
}

func (u *Unit) ToPartialFragment(fields ...string) *wire.Fragment {
	out := wire.New(u.WireTag(), "id", u.id).SetBool("partial", true)
	for _, field := range fields {
		switch field {
		case "movesLeft":
			out.SetInt("movesLeft", u.MovesLeft)
		case "state":
			out.Set("state", string(u.State))
		case "location":
			if loc := u.Location(); loc != nil {
				out.Set("location", loc.ID())
			}
		}
	}
	return out
}

// UnitSnapshot is an immutable copy of a unit taken when a change record is
// constructed. By the time the record is specialized per player the live
// unit may have moved, died or been captured, so animation payloads must
// not reference it. Activity and cargo are cleared at copy time so the
// animation discloses nothing beyond the unit's public face.
type UnitSnapshot struct {
	id           string
	Type         *UnitType
	owner        *Player
	tile         *Tile
	InSettlement bool
	passenger    *UnitSnapshot
}

// Snapshot copies the unit's public state. The settlement containment flag
// is captured now because the settlement may no longer exist when visibility
// is finally evaluated.
func (u *Unit) Snapshot() *UnitSnapshot {
	return &UnitSnapshot{
		id:           u.id,
		Type:         u.Type,
		owner:        u.owner,
		tile:         u.Location(),
		InSettlement: u.InSettlement(),
	}
}

// SnapshotAboard copies the unit's carrier as if it carried only this one
// unit, so a move animation does not disclose other passengers.
func (u *Unit) SnapshotAboard() *UnitSnapshot {
	c := u.carrier.Snapshot()
	c.passenger = u.Snapshot()
	return c
}

func (s *UnitSnapshot) ID() string      { return s.id }
func (s *UnitSnapshot) WireTag() string { return "unit" }
func (s *UnitSnapshot) Owner() *Player  { return s.owner }
func (s *UnitSnapshot) Location() *Tile { return s.tile }

func (s *UnitSnapshot) ToFragment(viewer *Player) *wire.Fragment {
	out := wire.New(s.WireTag(), "id", s.id, "type", s.Type.Id)
	if s.owner != nil {
		out.Set("owner", s.owner.ID())
	}
	out.Set("state", string(StateActive))
	if s.tile != nil {
		out.Set("location", s.tile.ID())
	}
	if s.passenger != nil {
		out.Append(s.passenger.ToFragment(viewer))
	}
	return out
}

func (s *UnitSnapshot) ToPartialFragment(fields ...string) *wire.Fragment {
	return wire.New(s.WireTag(), "id", s.id).SetBool("partial", true)
}
