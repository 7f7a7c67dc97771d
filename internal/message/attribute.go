package message

import (
	"fmt"

	"github.com/colonyforge/server/internal/wire"
)

// AttributeMessage is the generic attribute-only message: a tag, a flat set
// of string attributes, optionally an array-encoded list. Most of the
// protocol's tags need nothing more; messages with structured payloads or
// server-side handlers embed it and add their own behaviour.
type AttributeMessage struct {
	tag      string
	required []string
	attrs    []wire.Attr
	array    []string
}

// NewAttributeMessage builds an attribute message with alternating
// key/value pairs.
func NewAttributeMessage(tag string, kv ...string) *AttributeMessage {
	m := &AttributeMessage{tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		m.SetAttr(kv[i], kv[i+1])
	}
	return m
}

// attributeCtor returns a constructor for a tag whose wire form must carry
// the required attributes.
func attributeCtor(tag string, required ...string) Constructor {
	return func() Message {
		return &AttributeMessage{tag: tag, required: required}
	}
}

func (m *AttributeMessage) Tag() string { return m.tag }

// SetAttr sets one attribute, replacing any previous value.
func (m *AttributeMessage) SetAttr(key, value string) *AttributeMessage {
	for i := range m.attrs {
		if m.attrs[i].Key == key {
			m.attrs[i].Value = value
			return m
		}
	}
	m.attrs = append(m.attrs, wire.Attr{Key: key, Value: value})
	return m
}

// Attr returns one attribute value, or "".
func (m *AttributeMessage) Attr(key string) string {
	for _, a := range m.attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// SetArray stores the message's array-encoded list.
func (m *AttributeMessage) SetArray(values []string) *AttributeMessage {
	m.array = values
	return m
}

// Array returns the array-encoded list, or nil.
func (m *AttributeMessage) Array() []string { return m.array }

func (m *AttributeMessage) FromFragment(f *wire.Fragment) error {
	if f.Tag != m.tag {
		return fmt.Errorf("tag mismatch: got %q, want %q", f.Tag, m.tag)
	}
	m.attrs = nil
	m.array = f.GetArray()
	arrayKeys := make(map[string]bool)
	if m.array != nil {
		arrayKeys["arraySize"] = true
		for i := range m.array {
			arrayKeys[fmt.Sprintf("x%d", i)] = true
		}
	}
	for _, a := range f.Attrs() {
		if !arrayKeys[a.Key] {
			m.attrs = append(m.attrs, a)
		}
	}
	for _, key := range m.required {
		if m.Attr(key) == "" && !f.Has(key) {
			return fmt.Errorf("missing required attribute %q", key)
		}
	}
	return nil
}

func (m *AttributeMessage) ToFragment() *wire.Fragment {
	f := wire.New(m.tag)
	for _, a := range m.attrs {
		f.Set(a.Key, a.Value)
	}
	if m.array != nil {
		f.SetArray(m.array)
	}
	return f
}
