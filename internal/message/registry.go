// Package message maps wire type tags to typed protocol messages: parsing,
// serialization, and validate+execute dispatch against authoritative state.
package message

import (
	"errors"
	"fmt"
	"sort"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// ErrUnknownTag marks a wire tag missing from the registry: a protocol
// fault, distinguishable from a game-rule validation failure.
var ErrUnknownTag = errors.New("unknown message tag")

// Message is one typed protocol message, short-lived: parsed from one wire
// request or constructed to push one event.
type Message interface {
	Tag() string
	// FromFragment parses the wire form. An error is a structural protocol
	// fault, never a game-rule violation.
	FromFragment(f *wire.Fragment) error
	ToFragment() *wire.Fragment
}

// Handler is implemented by client-to-server messages. Handle validates
// the request against authoritative game rules and only then executes,
// returning the resulting change set — which may be a client-error change
// set. Messages that are purely server-to-client informational do not
// implement Handler.
type Handler interface {
	Message
	Handle(c Controller, p *game.Player) (*change.ChangeSet, error)
}

// Controller is the authoritative mutator surface handlers execute against.
// Every method validates first and signals rule violations by returning a
// client-error change set rather than an error; errors are reserved for
// truly exceptional conditions.
type Controller interface {
	Game() *game.Game
	ClaimLand(p *game.Player, t *game.Tile, claimant *game.Unit, price int) *change.ChangeSet
	LoadGoods(p *game.Player, gt *game.GoodsType, amount int, carrier *game.Unit) *change.ChangeSet
	UnloadGoods(p *game.Player, gt *game.GoodsType, amount int, carrier *game.Unit) *change.ChangeSet
	MoveUnit(p *game.Player, u *game.Unit, direction int) *change.ChangeSet
	AttackUnit(p *game.Player, u *game.Unit, direction int) *change.ChangeSet
	BuildColony(p *game.Player, name string, u *game.Unit) *change.ChangeSet
	ChangeState(p *game.Player, u *game.Unit, state game.UnitState) *change.ChangeSet
	Embark(p *game.Player, u, carrier *game.Unit) *change.ChangeSet
	Disembark(p *game.Player, u *game.Unit) *change.ChangeSet
	DisbandUnit(p *game.Player, u *game.Unit) *change.ChangeSet
	SpySettlement(p *game.Player, u *game.Unit, s *game.Settlement) *change.ChangeSet
	SetStance(p *game.Player, other *game.Player, s game.Stance) *change.ChangeSet
	EndTurn(p *game.Player) *change.ChangeSet
	Chat(p *game.Player, text string, private bool) *change.ChangeSet
	Logout(p *game.Player) *change.ChangeSet
}

// Constructor builds an empty message ready for FromFragment.
type Constructor func() Message

// Registry is the closed, hand-maintained table from wire tag to message
// constructor. Unknown tags fail loudly.
type Registry struct {
	table map[string]Constructor
}

// NewRegistry returns a registry with the full message table installed.
func NewRegistry() *Registry {
	r := &Registry{table: make(map[string]Constructor)}
	registerAll(r)
	return r
}

// Register adds one tag. Registering a duplicate tag panics: the table is
// hand-maintained and a collision is a programming error.
func (r *Registry) Register(tag string, ctor Constructor) {
	if _, dup := r.table[tag]; dup {
		panic(fmt.Sprintf("message: duplicate tag %q", tag))
	}
	r.table[tag] = ctor
}

// Lookup instantiates an empty message for tag.
func (r *Registry) Lookup(tag string) (Message, error) {
	ctor, ok := r.table[tag]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", tag, ErrUnknownTag)
	}
	return ctor(), nil
}

// Parse resolves the fragment's tag and parses it into a typed message.
// Both failure modes are structural protocol faults.
func (r *Registry) Parse(f *wire.Fragment) (Message, error) {
	m, err := r.Lookup(f.Tag)
	if err != nil {
		return nil, err
	}
	if err := m.FromFragment(f); err != nil {
		return nil, fmt.Errorf("parse %q: %w", f.Tag, err)
	}
	return m, nil
}

// Tags returns all registered tags, sorted.
func (r *Registry) Tags() []string {
	out := make([]string, 0, len(r.table))
	for tag := range r.table {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
