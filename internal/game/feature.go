package game

import "github.com/colonyforge/server/internal/wire"

// Feature is one ability or modifier attached to a world object. Source
// records what granted the feature; Scope optionally restricts it to one
// object type.
type Feature struct {
	Id     string
	Source string
	Scope  string // object type id the feature applies to; "" = unrestricted
	Value  string // modifier magnitude; "" for plain abilities
}

func (f *Feature) WireTag() string { return "feature" }

func (f *Feature) ToFragment() *wire.Fragment {
	out := wire.New(f.WireTag(), "id", f.Id)
	if f.Source != "" {
		out.Set("source", f.Source)
	}
	if f.Scope != "" {
		out.Set("scope", f.Scope)
	}
	if f.Value != "" {
		out.Set("value", f.Value)
	}
	return out
}

// FeatureContainer holds the feature attachments of one world object.
type FeatureContainer struct {
	features []*Feature
}

// Add attaches a feature. Duplicate ids from the same source are ignored.
func (fc *FeatureContainer) Add(f *Feature) {
	for _, have := range fc.features {
		if have.Id == f.Id && have.Source == f.Source {
			return
		}
	}
	fc.features = append(fc.features, f)
}

// Remove detaches a feature by id and source. Returns whether one was found.
func (fc *FeatureContainer) Remove(id, source string) bool {
	for i, have := range fc.features {
		if have.Id == id && have.Source == source {
			fc.features = append(fc.features[:i], fc.features[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether a feature with the id is attached.
func (fc *FeatureContainer) Has(id string) bool {
	for _, f := range fc.features {
		if f.Id == id {
			return true
		}
	}
	return false
}

// Features returns the attachment list. Callers must not modify it.
func (fc *FeatureContainer) Features() []*Feature { return fc.features }
