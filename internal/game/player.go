package game

import "github.com/colonyforge/server/internal/wire"

// Conn is the live connection surface the game layer needs. The dispatch
// layer supplies the real implementation; AI players have none.
type Conn interface {
	Send(f *wire.Fragment) error
}

// Player is one participant, human or AI. Players are created at game setup
// or at runtime and destroyed only at game teardown; death is a state flag.
type Player struct {
	FeatureContainer
	id     string
	Name   string
	Nation string
	Admin  bool
	AI     bool
	Native bool // true for native nations, false for European
	dead   bool
	Gold   int

	conn        Conn
	game        *Game
	units       []*Unit
	settlements []*Settlement
	stances     map[string]Stance

	// visionDirty guards the lazily recomputed visible-tile cache.
	vision      map[*Tile]struct{}
	visionDirty bool
	// extraVision lists tiles revealed by effects other than unit or
	// settlement presence (scouting reports, map gifts).
	extraVision []*Tile
}

func (p *Player) ID() string      { return p.id }
func (p *Player) WireTag() string { return "player" }
func (p *Player) Owner() *Player  { return p }

// Connection returns the live connection, or nil.
func (p *Player) Connection() Conn { return p.conn }

// SetConnection attaches or detaches the live connection.
func (p *Player) SetConnection(c Conn) { p.conn = c }

// Dead reports whether the player has been eliminated.
func (p *Player) Dead() bool { return p.dead }

// SetDead flags the player as eliminated. The object itself survives until
// game teardown.
func (p *Player) SetDead() { p.dead = true }

// Units returns the player's units. Callers must not modify the slice.
func (p *Player) Units() []*Unit { return p.units }

// Settlements returns the player's settlements.
func (p *Player) Settlements() []*Settlement { return p.settlements }

// Stance returns the diplomatic stance toward other.
func (p *Player) Stance(other *Player) Stance {
	if p.stances == nil {
		return StanceUncontacted
	}
	return p.stances[other.ID()]
}

// SetStance records the diplomatic stance toward other.
func (p *Player) SetStance(other *Player, s Stance) {
	if p.stances == nil {
		p.stances = make(map[string]Stance)
	}
	p.stances[other.ID()] = s
}

// AtWarWith reports whether p is at war with other.
func (p *Player) AtWarWith(other *Player) bool {
	return p.Stance(other) == StanceWar
}

// Owns reports whether p owns the object. Ownership implies visibility.
func (p *Player) Owns(o Ownable) bool {
	if o == nil {
		return false
	}
	return o.Owner() == p
}

// CanSee reports whether the tile is within the player's currently observed
// tile set. Never panics; a nil tile is simply not visible.
func (p *Player) CanSee(t *Tile) bool {
	if t == nil {
		return false
	}
	if p.visionDirty || p.vision == nil {
		p.recomputeVision()
	}
	_, ok := p.vision[t]
	return ok
}

// CanSeeUnit applies the unit visibility rules in priority order: ownership
// first, then settlement containment, then plain tile visibility. The combat
// animation exception to containment lives in the attack change, not here.
func (p *Player) CanSeeUnit(u *Unit) bool {
	if u == nil {
		return false
	}
	if u.Owner() == p {
		return true
	}
	if u.InSettlement() {
		// Interior units are the settlement owner's secret.
		return false
	}
	if u.Carrier() != nil && u.Carrier().Owner() != p {
		// Passengers are disclosed only through their carrier's owner.
		return false
	}
	return p.CanSee(u.Location())
}

// InvalidateVision marks the visible-tile cache stale. Called whenever one
// of the player's units or settlements moves, appears or disappears.
func (p *Player) InvalidateVision() { p.visionDirty = true }

// lineOfSight is the Chebyshev radius a unit or settlement observes.
const lineOfSight = 1
const settlementSight = 2

func (p *Player) recomputeVision() {
	p.vision = make(map[*Tile]struct{})
	p.visionDirty = false
	if p.game == nil || p.game.Map == nil {
		return
	}
	see := func(t *Tile, radius int) {
		if t == nil {
			return
		}
		p.vision[t] = struct{}{}
		for _, n := range p.game.Map.SurroundingTiles(t, radius) {
			p.vision[n] = struct{}{}
		}
	}
	for _, u := range p.units {
		see(u.Location(), lineOfSight)
	}
	for _, s := range p.settlements {
		see(s.Tile(), settlementSight)
	}
	for _, t := range p.extraVision {
		see(t, 0)
	}
}

// RevealTile adds a tile to the player's observed set independent of unit
// presence.
func (p *Player) RevealTile(t *Tile) {
	if t == nil {
		return
	}
	p.extraVision = append(p.extraVision, t)
	p.visionDirty = true
}

func (p *Player) ToFragment(viewer *Player) *wire.Fragment {
	out := wire.New(p.WireTag(), "id", p.id, "name", p.Name)
	if p.Nation != "" {
		out.Set("nation", p.Nation)
	}
	out.SetBool("admin", p.Admin)
	out.SetBool("ai", p.AI)
	out.SetBool("dead", p.dead)
	if viewer == nil || viewer == p {
		out.SetInt("gold", p.Gold)
	}
	return out
}

func (p *Player) ToPartialFragment(fields ...string) *wire.Fragment {
	out := wire.New(p.WireTag(), "id", p.id).SetBool("partial", true)
	for _, field := range fields {
		switch field {
		case "gold":
			out.SetInt("gold", p.Gold)
		case "dead":
			out.SetBool("dead", p.dead)
		}
	}
	return out
}
