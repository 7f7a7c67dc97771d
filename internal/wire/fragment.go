package wire

import (
	"strconv"
)

// Fragment is the unit of the network protocol: an element tag, a flat
// string-keyed attribute list, and ordered child fragments. Attributes keep
// insertion order so that encoding a fragment twice yields identical bytes.
type Fragment struct {
	Tag      string
	attrs    []Attr
	Children []*Fragment
}

// Attr is one key/value attribute pair.
type Attr struct {
	Key   string
	Value string
}

// New builds a fragment with the given tag and alternating key/value pairs.
func New(tag string, kv ...string) *Fragment {
	f := &Fragment{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Set(kv[i], kv[i+1])
	}
	return f
}

// Set adds or replaces an attribute. Replacing keeps the original position.
func (f *Fragment) Set(key, value string) *Fragment {
	for i := range f.attrs {
		if f.attrs[i].Key == key {
			f.attrs[i].Value = value
			return f
		}
	}
	f.attrs = append(f.attrs, Attr{Key: key, Value: value})
	return f
}

// SetInt sets an integer attribute.
func (f *Fragment) SetInt(key string, value int) *Fragment {
	return f.Set(key, strconv.Itoa(value))
}

// SetBool sets a boolean attribute.
func (f *Fragment) SetBool(key string, value bool) *Fragment {
	return f.Set(key, strconv.FormatBool(value))
}

// Get returns the attribute value, or "" when absent.
func (f *Fragment) Get(key string) string {
	v, _ := f.Lookup(key)
	return v
}

// Lookup returns the attribute value and whether it is present.
func (f *Fragment) Lookup(key string) (string, bool) {
	for _, a := range f.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Has reports whether the attribute is present.
func (f *Fragment) Has(key string) bool {
	_, ok := f.Lookup(key)
	return ok
}

// GetInt returns an integer attribute, or def when absent or malformed.
func (f *Fragment) GetInt(key string, def int) int {
	v, ok := f.Lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetBool returns a boolean attribute, or def when absent or malformed.
func (f *Fragment) GetBool(key string, def bool) bool {
	v, ok := f.Lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Attrs returns the attribute list in insertion order.
// Callers must not modify the returned slice.
func (f *Fragment) Attrs() []Attr {
	return f.attrs
}

// Append adds child fragments and returns f for chaining.
func (f *Fragment) Append(children ...*Fragment) *Fragment {
	f.Children = append(f.Children, children...)
	return f
}

// Child returns the first child with the given tag, or nil.
func (f *Fragment) Child(tag string) *Fragment {
	for _, c := range f.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// SameShape reports whether two fragments share a tag and an identical
// attribute set (keys and values, order included). Fragments of the same
// shape may be collapsed into one by merging their children.
func (f *Fragment) SameShape(o *Fragment) bool {
	if f.Tag != o.Tag || len(f.attrs) != len(o.attrs) {
		return false
	}
	for i := range f.attrs {
		if f.attrs[i] != o.attrs[i] {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the fragment.
func (f *Fragment) Copy() *Fragment {
	c := &Fragment{Tag: f.Tag}
	c.attrs = append(c.attrs, f.attrs...)
	for _, ch := range f.Children {
		c.Children = append(c.Children, ch.Copy())
	}
	return c
}
