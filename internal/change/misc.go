package change

import (
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// StanceChange announces a new diplomatic stance between two players.
// War-like transitions are broadcast to all; peaceful adjustments default
// to the pair involved.
type StanceChange struct {
	vis    See
	first  *game.Player
	second *game.Player
	stance game.Stance
}

// NewStance records a stance transition.
func NewStance(vis See, first, second *game.Player, stance game.Stance) *StanceChange {
	return &StanceChange{vis: vis, first: first, second: second, stance: stance}
}

func (c *StanceChange) Priority() int { return PriorityStance }

func (c *StanceChange) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(p *game.Player) bool {
		return p == c.first || p == c.second
	})
}

func (c *StanceChange) Fragment(*game.Player) *wire.Fragment {
	return wire.New("SetStance",
		"stance", c.stance.String(),
		"first", c.first.ID(),
		"second", c.second.ID())
}

func (c *StanceChange) Consequences(*game.Player) []Change { return nil }

// FeatureChange announces a feature attached to or detached from a parent
// object. Like partial updates it is hidden unless explicitly targeted.
type FeatureChange struct {
	vis     See
	parent  game.Object
	feature *game.Feature
	add     bool
}

// NewFeature records a feature attachment (add=true) or detachment.
func NewFeature(vis See, parent game.Object, feature *game.Feature, add bool) *FeatureChange {
	return &FeatureChange{vis: vis, parent: parent, feature: feature, add: add}
}

func (c *FeatureChange) Priority() int { return PriorityFeature }

func (c *FeatureChange) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(*game.Player) bool { return false })
}

func (c *FeatureChange) Fragment(*game.Player) *wire.Fragment {
	return wire.New("FeatureChange", "id", c.parent.ID()).
		SetBool("add", c.add).
		Append(c.feature.ToFragment())
}

func (c *FeatureChange) Consequences(*game.Player) []Change { return nil }

// PlayerJoin announces a player joining the game. Joining is global
// knowledge: the record is notifiable to everyone regardless of its
// visibility specifier.
type PlayerJoin struct {
	player *game.Player
}

// NewPlayerJoin records a player joining.
func NewPlayerJoin(p *game.Player) *PlayerJoin {
	return &PlayerJoin{player: p}
}

func (c *PlayerJoin) Priority() int { return PriorityUpdate }

func (c *PlayerJoin) IsNotifiable(*game.Player) bool { return true }

func (c *PlayerJoin) Fragment(p *game.Player) *wire.Fragment {
	return wire.New("AddPlayer").Append(c.player.ToFragment(p))
}

func (c *PlayerJoin) Consequences(*game.Player) []Change { return nil }

// Spy reveals a settlement's full contents to exactly one player: the one
// case where an object is serialized with its owner's eyes for a different
// recipient.
type Spy struct {
	vis        See
	settlement *game.Settlement
}

// NewSpy records a successful spy mission against settlement, visible only
// to the player named by vis.
func NewSpy(vis See, settlement *game.Settlement) *Spy {
	return &Spy{vis: vis, settlement: settlement}
}

func (c *Spy) Priority() int { return PrioritySpy }

func (c *Spy) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(*game.Player) bool { return false })
}

func (c *Spy) Fragment(*game.Player) *wire.Fragment {
	out := wire.New("SpyResult")
	if t := c.settlement.Tile(); t != nil {
		out.Set("tile", t.ID())
	}
	// Owner's view on purpose: the spy sees everything.
	return out.Append(c.settlement.ToFragment(nil))
}

func (c *Spy) Consequences(*game.Player) []Change { return nil }
