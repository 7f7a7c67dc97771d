// Package change implements the state-synchronization core: immutable
// records describing world mutations, visibility specifiers deciding which
// players learn of them, and the change set that priority-sorts, filters and
// collapses records into one wire payload per destination player.
package change

import (
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// Fixed priorities per change variant. Lower sorts first. Removals always
// sort last so clients still hold object references while applying the
// preceding updates.
const (
	PriorityAnimation = 0
	PriorityAttribute = 1
	PriorityStance    = 5
	PriorityUpdate    = 10
	PriorityPartial   = 15
	PriorityFeature   = 20
	PrioritySpy       = 25
	PriorityTrivial   = 30
	PriorityMessage   = 40
	PriorityRemove    = 100
)

// Change is one atomic, immutable description of a world mutation. Once a
// change is placed in a ChangeSet it is never mutated; corrections are made
// by removing and re-adding.
type Change interface {
	// Priority is fixed per variant and orders records within a set.
	Priority() int
	// IsNotifiable applies the visibility specifier for p, deferring
	// ambiguous verdicts to the variant's own rule.
	IsNotifiable(p *game.Player) bool
	// Fragment produces the player-specific payload. A nil result means
	// nothing is sent, though consequences may still apply.
	Fragment(p *game.Player) *wire.Fragment
	// Consequences returns follow-up changes generated for this recipient
	// during specialization. Most variants have none.
	Consequences(p *game.Player) []Change
}

// notifiable resolves a specifier verdict against a variant's perhaps hook.
func notifiable(vis See, p *game.Player, perhaps func(*game.Player) bool) bool {
	switch vis.Check(p) {
	case VerdictYes:
		return true
	case VerdictNo:
		return false
	default:
		return perhaps(p)
	}
}

// visibleTo decides whether one world object is independently visible to p:
// ownership first, containment carve-outs next, tile visibility last.
func visibleTo(p *game.Player, o game.Object) bool {
	switch v := o.(type) {
	case *game.WorkLocation:
		// Never independently visible; interior structure must not leak.
		return false
	case *game.Unit:
		return p.CanSeeUnit(v)
	case *game.UnitSnapshot:
		if v.Owner() == p {
			return true
		}
		if v.InSettlement {
			return false
		}
		return p.CanSee(v.Location())
	case *game.Player:
		// Player objects carry only public attributes for other viewers.
		return true
	}
	if ow, ok := o.(game.Ownable); ok && p.Owns(ow) {
		return true
	}
	if loc, ok := o.(game.Located); ok {
		return p.CanSee(loc.Location())
	}
	return false
}
