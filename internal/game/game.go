package game

import "strconv"

// Game is the root of the authoritative world graph. All mutation happens
// under the server's world lock; Game itself carries no locking.
type Game struct {
	Spec *Specification
	Map  *WorldMap

	objects map[string]Object
	players []*Player

	Turn    int
	current int // index into players of the player whose turn it is
	nextID  int
}

// NewGame builds an empty game with default rule tables.
func NewGame() *Game {
	return &Game{
		Spec:    NewSpecification(),
		objects: make(map[string]Object),
		Turn:    1,
	}
}

// NextID mints a fresh stable object identifier.
func (g *Game) NextID(kind string) string {
	g.nextID++
	return kind + ":" + strconv.Itoa(g.nextID)
}

func (g *Game) register(o Object) {
	g.objects[o.ID()] = o
}

// Unregister drops a disposed object from the lookup table.
func (g *Game) Unregister(o Object) {
	delete(g.objects, o.ID())
}

// GetObject resolves an object by identifier, or nil when unknown.
func (g *Game) GetObject(id string) Object {
	return g.objects[id]
}

// Players returns all players in join order.
func (g *Game) Players() []*Player { return g.players }

// LivePlayers returns all players not flagged dead.
func (g *Game) LivePlayers() []*Player {
	out := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if !p.dead {
			out = append(out, p)
		}
	}
	return out
}

// CurrentPlayer returns the player whose turn it is, or nil before setup.
func (g *Game) CurrentPlayer() *Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[g.current%len(g.players)]
}

// AdvanceTurn moves play to the next live player. Returns the new current
// player and whether a new turn began.
func (g *Game) AdvanceTurn() (*Player, bool) {
	if len(g.players) == 0 {
		return nil, false
	}
	newTurn := false
	for i := 0; i < len(g.players); i++ {
		g.current++
		if g.current >= len(g.players) {
			g.current = 0
			g.Turn++
			newTurn = true
		}
		if !g.players[g.current].dead {
			break
		}
	}
	// Movement points refresh when a player's turn begins.
	for _, u := range g.players[g.current].units {
		u.MovesLeft = u.Type.Movement
	}
	return g.players[g.current], newTurn
}

// BuildMap creates a width x height grid of plains tiles.
func (g *Game) BuildMap(width, height int) *WorldMap {
	m := &WorldMap{Width: width, Height: height}
	m.tiles = make([]*Tile, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := &Tile{id: g.NextID("tile"), X: x, Y: y, Type: "model.tile.plains"}
			m.tiles[y*width+x] = t
			g.register(t)
		}
	}
	g.Map = m
	return m
}

// AddPlayer creates and registers a player.
func (g *Game) AddPlayer(name, nation string) *Player {
	p := &Player{
		id:          g.NextID("player"),
		Name:        name,
		Nation:      nation,
		game:        g,
		visionDirty: true,
	}
	g.players = append(g.players, p)
	g.register(p)
	return p
}

// AddUnit creates a unit of the given type for owner on tile.
func (g *Game) AddUnit(owner *Player, ut *UnitType, t *Tile) *Unit {
	u := &Unit{
		id:        g.NextID("unit"),
		Type:      ut,
		owner:     owner,
		MovesLeft: ut.Movement,
		State:     StateActive,
	}
	u.SetTile(t)
	owner.units = append(owner.units, u)
	owner.InvalidateVision()
	g.register(u)
	return u
}

// RemoveUnit disposes a unit and drops it from its owner and the registry.
func (g *Game) RemoveUnit(u *Unit) {
	u.Dispose()
	if o := u.owner; o != nil {
		for i, have := range o.units {
			if have == u {
				o.units = append(o.units[:i], o.units[i+1:]...)
				break
			}
		}
		o.InvalidateVision()
	}
	g.Unregister(u)
}

// AddSettlement founds a settlement for owner on tile.
func (g *Game) AddSettlement(owner *Player, name string, t *Tile) *Settlement {
	s := &Settlement{
		id:    g.NextID("settlement"),
		Name:  name,
		owner: owner,
		tile:  t,
	}
	t.settlement = s
	t.owner = owner
	owner.settlements = append(owner.settlements, s)
	owner.InvalidateVision()
	g.register(s)
	return s
}
