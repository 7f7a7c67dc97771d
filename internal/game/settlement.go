package game

import "github.com/colonyforge/server/internal/wire"

// Settlement is a colony or native village occupying one tile.
type Settlement struct {
	FeatureContainer
	GoodsContainer
	id    string
	Name  string
	owner *Player
	tile  *Tile
	works []*WorkLocation
}

func (s *Settlement) ID() string      { return s.id }
func (s *Settlement) WireTag() string { return "settlement" }
func (s *Settlement) Owner() *Player  { return s.owner }
func (s *Settlement) Location() *Tile { return s.tile }
func (s *Settlement) Tile() *Tile     { return s.tile }

// WorkLocations returns the settlement's interior work places.
func (s *Settlement) WorkLocations() []*WorkLocation { return s.works }

// AddWorkLocation creates a work location for the given building type.
func (s *Settlement) AddWorkLocation(g *Game, bt *BuildingType) *WorkLocation {
	w := &WorkLocation{id: g.NextID("workLocation"), Type: bt, settlement: s}
	s.works = append(s.works, w)
	g.register(w)
	return w
}

// ToFragment serializes the settlement. Interior structure (work locations,
// their units, the warehouse) is shown only to the owner; everyone else gets
// the public face: name, owner, position.
func (s *Settlement) ToFragment(viewer *Player) *wire.Fragment {
	out := wire.New(s.WireTag(), "id", s.id, "name", s.Name)
	if s.owner != nil {
		out.Set("owner", s.owner.ID())
	}
	if s.tile != nil {
		out.Set("tile", s.tile.ID())
	}
	if viewer == nil || viewer == s.owner {
		for _, w := range s.works {
			out.Append(w.interiorFragment(viewer))
		}
		for _, g := range s.Goods() {
			out.Append(g.ToFragment(viewer))
		}
	}
	return out
}

func (s *Settlement) ToPartialFragment(fields ...string) *wire.Fragment {
	out := wire.New(s.WireTag(), "id", s.id).SetBool("partial", true)
	for _, field := range fields {
		if field == "name" {
			out.Set("name", s.Name)
		}
	}
	return out
}

// WorkLocation is an interior work place of a settlement. It reports its
// parent settlement's tile but is never independently visible or serialized
// on its own: colony internals must not leak through object references.
type WorkLocation struct {
	id         string
	Type       *BuildingType
	settlement *Settlement
	units      []*Unit
}

func (w *WorkLocation) ID() string      { return w.id }
func (w *WorkLocation) WireTag() string { return "workLocation" }
func (w *WorkLocation) Owner() *Player {
	if w.settlement == nil {
		return nil
	}
	return w.settlement.owner
}

// Location reports the parent settlement's tile.
func (w *WorkLocation) Location() *Tile {
	if w.settlement == nil {
		return nil
	}
	return w.settlement.tile
}

// Settlement returns the parent settlement.
func (w *WorkLocation) Settlement() *Settlement { return w.settlement }

// Units returns the workers inside. Callers must not modify it.
func (w *WorkLocation) Units() []*Unit { return w.units }

// ToFragment always returns nil: a work location is never serialized
// independently. It only appears inside its settlement's owner view.
func (w *WorkLocation) ToFragment(viewer *Player) *wire.Fragment { return nil }

func (w *WorkLocation) ToPartialFragment(fields ...string) *wire.Fragment { return nil }

func (w *WorkLocation) interiorFragment(viewer *Player) *wire.Fragment {
	out := wire.New(w.WireTag(), "id", w.id, "type", w.Type.Id)
	for _, u := range w.units {
		out.Append(u.ToFragment(viewer))
	}
	return out
}
