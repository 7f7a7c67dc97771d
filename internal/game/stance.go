package game

// Stance is the diplomatic posture of one player toward another.
type Stance int

const (
	StanceUncontacted Stance = iota
	StanceAlliance
	StancePeace
	StanceCeaseFire
	StanceWar
)

var stanceNames = [...]string{
	StanceUncontacted: "uncontacted",
	StanceAlliance:    "alliance",
	StancePeace:       "peace",
	StanceCeaseFire:   "ceaseFire",
	StanceWar:         "war",
}

func (s Stance) String() string {
	if s < 0 || int(s) >= len(stanceNames) {
		return "unknown"
	}
	return stanceNames[s]
}

// ParseStance maps a wire stance name back to its value.
func ParseStance(name string) (Stance, bool) {
	for i, n := range stanceNames {
		if n == name {
			return Stance(i), true
		}
	}
	return StanceUncontacted, false
}

// Incite reports whether a stance transition is war-like and therefore
// global knowledge; peaceful adjustments stay between the two players.
func (s Stance) Incite() bool {
	return s == StanceWar || s == StanceCeaseFire
}
