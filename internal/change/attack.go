package change

import (
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// Attack animates one combat interaction. Both combatants are defensively
// copied at construction time: by specialization time the real units may
// have moved, died or been captured, and a settlement that concealed the
// defender may since have fallen.
type Attack struct {
	vis      See
	attacker *game.UnitSnapshot
	defender *game.UnitSnapshot
	success  bool
}

// NewAttack records a combat animation between attacker and defender.
func NewAttack(vis See, attacker, defender *game.Unit, success bool) *Attack {
	return &Attack{
		vis:      vis,
		attacker: attacker.Snapshot(),
		defender: defender.Snapshot(),
		success:  success,
	}
}

func (c *Attack) Priority() int { return PriorityAnimation }

// canSeeCombatant ignores settlement containment: combat visibility is an
// explicit exception so the animation plays even though the participant
// would otherwise be hidden inside its settlement.
func (c *Attack) canSeeCombatant(p *game.Player, s *game.UnitSnapshot) bool {
	if s.Owner() == p {
		return true
	}
	return p.CanSee(s.Location())
}

func (c *Attack) IsNotifiable(p *game.Player) bool {
	return notifiable(c.vis, p, func(p *game.Player) bool {
		if c.attacker.Owner() == p || c.defender.Owner() == p {
			return true
		}
		return c.canSeeCombatant(p, c.attacker) && c.canSeeCombatant(p, c.defender)
	})
}

func (c *Attack) Fragment(p *game.Player) *wire.Fragment {
	out := wire.New("AnimateAttack",
		"attacker", c.attacker.ID(),
		"defender", c.defender.ID())
	out.SetBool("success", c.success)
	// Attach snapshots for combatants the recipient does not own, so the
	// client can render units it has never been told about.
	if p == nil || p != c.attacker.Owner() {
		out.Append(c.attacker.ToFragment(p))
	}
	if p == nil || p != c.defender.Owner() {
		out.Append(c.defender.ToFragment(p))
	}
	return out
}

func (c *Attack) Consequences(*game.Player) []Change { return nil }
