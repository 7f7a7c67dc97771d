package game

import "github.com/colonyforge/server/internal/wire"

// Object is any identifiable entity in the shared authoritative game graph.
// Objects are mutated in place by game-rule code running on the server; the
// sync core only observes and serializes them.
type Object interface {
	// ID returns the globally unique stable identifier.
	ID() string
	// WireTag returns the element tag used on the wire for this object kind.
	WireTag() string
	// ToFragment serializes the object filtered for what viewer may see.
	// A nil viewer means full (server/owner) view.
	ToFragment(viewer *Player) *wire.Fragment
	// ToPartialFragment serialises only the named fields, unfiltered.
	// Callers must target the result explicitly; see change.NewPartial.
	ToPartialFragment(fields ...string) *wire.Fragment
}

// Ownable is an object owned by exactly zero or one player.
type Ownable interface {
	Object
	Owner() *Player
}

// Located is an object with a position on the map. Location returns the
// tile the object effectively occupies, or nil when unresolvable — never
// panics.
type Located interface {
	Object
	Location() *Tile
}
