package game

import "github.com/colonyforge/server/internal/wire"

// Tile is one map square. Tiles are created once at map build and never
// destroyed; ownership and contents change in place.
type Tile struct {
	FeatureContainer
	id         string
	X, Y       int
	Type       string // terrain type id
	owner      *Player
	settlement *Settlement
	units      []*Unit
}

func (t *Tile) ID() string      { return t.id }
func (t *Tile) WireTag() string { return "tile" }

func (t *Tile) Owner() *Player     { return t.owner }
func (t *Tile) Location() *Tile    { return t }
func (t *Tile) SetOwner(p *Player) { t.owner = p }

func (t *Tile) Settlement() *Settlement { return t.settlement }

// Units returns the units standing on the tile, excluding any inside the
// settlement. Callers must not modify the slice.
func (t *Tile) Units() []*Unit { return t.units }

// FirstUnit returns an arbitrary unit on the tile, or nil.
func (t *Tile) FirstUnit() *Unit {
	if len(t.units) == 0 {
		return nil
	}
	return t.units[0]
}

func (t *Tile) addUnit(u *Unit) {
	t.units = append(t.units, u)
}

func (t *Tile) removeUnit(u *Unit) {
	for i, have := range t.units {
		if have == u {
			t.units = append(t.units[:i], t.units[i+1:]...)
			return
		}
	}
}

// ToFragment serializes the tile as viewer may see it: position and terrain
// always, owner when known, the settlement only when the viewer can see the
// tile at all (the settlement itself filters its internals by ownership).
func (t *Tile) ToFragment(viewer *Player) *wire.Fragment {
	out := wire.New(t.WireTag(), "id", t.id)
	out.SetInt("x", t.X)
	out.SetInt("y", t.Y)
	if t.Type != "" {
		out.Set("type", t.Type)
	}
	if t.owner != nil {
		out.Set("owner", t.owner.ID())
	}
	if t.settlement != nil && (viewer == nil || viewer.CanSee(t)) {
		out.Append(t.settlement.ToFragment(viewer))
	}
	return out
}

func (t *Tile) ToPartialFragment(fields ...string) *wire.Fragment {
	out := wire.New(t.WireTag(), "id", t.id).SetBool("partial", true)
	for _, field := range fields {
		switch field {
		case "owner":
			if t.owner != nil {
				out.Set("owner", t.owner.ID())
			} else {
				out.Set("owner", "")
			}
		case "type":
			out.Set("type", t.Type)
		}
	}
	return out
}

// WorldMap is the tile grid. Movement uses eight headings; adjacency is
// Chebyshev distance one.
type WorldMap struct {
	Width, Height int
	tiles         []*Tile
}

// Direction deltas indexed by heading (0-7), clockwise from north.
var headingDX = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var headingDY = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}

// Tile returns the tile at (x, y), or nil when out of bounds.
func (m *WorldMap) Tile(x, y int) *Tile {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return nil
	}
	return m.tiles[y*m.Width+x]
}

// Step returns the tile one step from t in heading (0-7, clockwise from
// north), or nil when off the map.
func (m *WorldMap) Step(t *Tile, heading int) *Tile {
	if t == nil || heading < 0 || heading > 7 {
		return nil
	}
	return m.Tile(t.X+headingDX[heading], t.Y+headingDY[heading])
}

// Adjacent reports whether a and b are distinct neighbouring tiles.
func (m *WorldMap) Adjacent(a, b *Tile) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1
}

// Neighbours returns the up-to-eight tiles around t.
func (m *WorldMap) Neighbours(t *Tile) []*Tile {
	out := make([]*Tile, 0, 8)
	for h := 0; h < 8; h++ {
		if n := m.Tile(t.X+headingDX[h], t.Y+headingDY[h]); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// SurroundingTiles returns all tiles within Chebyshev distance radius of t,
// excluding t itself.
func (m *WorldMap) SurroundingTiles(t *Tile, radius int) []*Tile {
	var out []*Tile
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if n := m.Tile(t.X+dx, t.Y+dy); n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}
