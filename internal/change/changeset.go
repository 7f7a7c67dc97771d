package change

import (
	"sort"

	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// ChangeSet is the ordered collection of change records produced by one
// server action. It is recipient-agnostic until Build is invoked, then
// discarded after fan-out; a change set is never persisted.
type ChangeSet struct {
	changes []Change
}

// New returns an empty change set.
func New(changes ...Change) *ChangeSet {
	return &ChangeSet{changes: changes}
}

// Add appends change records. Records already added are never mutated.
func (cs *ChangeSet) Add(changes ...Change) *ChangeSet {
	cs.changes = append(cs.changes, changes...)
	return cs
}

// AddAll merges another change set's records into this one.
func (cs *ChangeSet) AddAll(other *ChangeSet) *ChangeSet {
	if other != nil {
		cs.changes = append(cs.changes, other.changes...)
	}
	return cs
}

// Empty reports whether the set holds no records.
func (cs *ChangeSet) Empty() bool { return cs == nil || len(cs.changes) == 0 }

// Size returns the record count.
func (cs *ChangeSet) Size() int {
	if cs == nil {
		return 0
	}
	return len(cs.changes)
}

// Build specializes the change set for one destination player: stable
// priority sort, visibility filter, lazy consequence expansion, same-shape
// collapse, and envelope selection. Returns nil when the player is to be
// told nothing. Build only reads shared state and the immutable records, so
// concurrent Build calls for different recipients are safe once the set is
// finalized.
func (cs *ChangeSet) Build(p *game.Player) *wire.Fragment {
	if cs == nil {
		return nil
	}
	work := make([]Change, len(cs.changes))
	copy(work, cs.changes)
	sortChanges(work)

	var fragments []*wire.Fragment
	var diverted []wire.Attr
	for len(work) > 0 {
		c := work[0]
		work = work[1:]
		if !c.IsNotifiable(p) {
			continue
		}
		if a, ok := c.(*Attribute); ok {
			// Not independently convertible: merged onto the final payload.
			k, v := a.Divert()
			diverted = append(diverted, wire.Attr{Key: k, Value: v})
		} else if f := c.Fragment(p); f != nil {
			fragments = append(fragments, f)
		}
		// Consequences join the working list and are subject to the same
		// priority sort and visibility test as first-class records.
		if extra := c.Consequences(p); len(extra) > 0 {
			work = append(work, extra...)
			sortChanges(work)
		}
	}

	fragments = collapse(fragments)

	switch len(fragments) {
	case 0:
		if len(diverted) == 0 {
			return nil
		}
		// Synthesize an empty update to carry the diverted attributes.
		out := wire.New("Update")
		applyAttrs(out, diverted)
		return out
	case 1:
		applyAttrs(fragments[0], diverted)
		return fragments[0]
	default:
		out := wire.New("Multiple").Append(fragments...)
		applyAttrs(out, diverted)
		return out
	}
}

// sortChanges orders by ascending priority, ties broken by insertion order.
func sortChanges(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Priority() < changes[j].Priority()
	})
}

// collapse merges adjacent same-shape fragments (same tag, identical
// attribute set) into one fragment with merged children. A payload-size
// optimization only: distinct-shaped fragments keep their order.
func collapse(fragments []*wire.Fragment) []*wire.Fragment {
	if len(fragments) < 2 {
		return fragments
	}
	out := fragments[:1]
	for _, f := range fragments[1:] {
		last := out[len(out)-1]
		if last.SameShape(f) {
			last.Append(f.Children...)
			continue
		}
		out = append(out, f)
	}
	return out
}

func applyAttrs(f *wire.Fragment, attrs []wire.Attr) {
	for _, a := range attrs {
		f.Set(a.Key, a.Value)
	}
}

// ClientError builds a change set carrying a structured error scoped to the
// requesting player only. The template key names a client-side message
// template; internal identifiers never cross the wire.
func ClientError(p *game.Player, template string) *ChangeSet {
	return New(NewTrivial(Only(p), "Error", PriorityTrivial, "template", template))
}
