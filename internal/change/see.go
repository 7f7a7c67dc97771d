package change

import "github.com/colonyforge/server/internal/game"

// Verdict is the outcome of applying a visibility specifier to one player.
type Verdict int

const (
	// VerdictMaybe defers to the change variant's own perhaps-notifiable hook.
	VerdictMaybe Verdict = iota
	VerdictYes
	VerdictNo
)

// See is the visibility specifier of a change record: which players may be
// told about it. Per-player overrides beat the base rule.
type See struct {
	kind    int
	only    *game.Player
	always  *game.Player
	never   *game.Player
	perhaps *game.Player
}

const (
	seeAll = iota
	seePerhaps
	seeOnly
)

// All makes the change visible to every player.
func All() See { return See{kind: seeAll} }

// Perhaps makes visibility per-player: the server decides for each player
// via the change variant's perhaps-notifiable hook.
func Perhaps() See { return See{kind: seePerhaps} }

// Only makes the change visible to exactly the named player.
func Only(p *game.Player) See { return See{kind: seeOnly, only: p} }

// Always adds an override making the change unconditionally visible to p.
func (s See) Always(p *game.Player) See { s.always = p; return s }

// Except adds an override hiding the change from p unconditionally.
func (s See) Except(p *game.Player) See { s.never = p; return s }

// Maybe adds an override deferring to the perhaps hook for p.
func (s See) Maybe(p *game.Player) See { s.perhaps = p; return s }

// Check applies the specifier for one player.
func (s See) Check(p *game.Player) Verdict {
	switch {
	case s.always != nil && s.always == p:
		return VerdictYes
	case s.never != nil && s.never == p:
		return VerdictNo
	case s.perhaps != nil && s.perhaps == p:
		return VerdictMaybe
	}
	switch s.kind {
	case seeAll:
		return VerdictYes
	case seeOnly:
		if s.only == p {
			return VerdictYes
		}
		return VerdictNo
	default:
		return VerdictMaybe
	}
}
