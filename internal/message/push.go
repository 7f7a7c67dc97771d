package message

import (
	"fmt"

	"github.com/colonyforge/server/internal/wire"
)

const (
	TagError            = "Error"
	TagUpdate           = "Update"
	TagRemove           = "Remove"
	TagMultiple         = "Multiple"
	TagAnimateMove      = "AnimateMove"
	TagAnimateAttack    = "AnimateAttack"
	TagAddPlayer        = "AddPlayer"
	TagFeatureChange    = "FeatureChange"
	TagSpyResult        = "SpyResult"
	TagSetCurrentPlayer = "SetCurrentPlayer"
	TagNewTurn          = "NewTurn"
	TagSetDead          = "SetDead"
	TagGameEnded        = "GameEnded"
	TagDiplomacy        = "Diplomacy"
)

// Error carries a structured failure to the client: a message-template key
// the client UI renders. Never a stack trace or internal identifier.
type Error struct {
	Template string
	// Message optionally carries a human-readable fallback.
	Message string
}

func (m *Error) Tag() string { return TagError }

func (m *Error) FromFragment(f *wire.Fragment) error {
	m.Template = f.Get("template")
	m.Message = f.Get("message")
	if m.Template == "" && m.Message == "" {
		return fmt.Errorf("error: missing template")
	}
	return nil
}

func (m *Error) ToFragment() *wire.Fragment {
	out := wire.New(TagError)
	if m.Template != "" {
		out.Set("template", m.Template)
	}
	if m.Message != "" {
		out.Set("message", m.Message)
	}
	return out
}

// FragmentMessage retains the whole fragment for tags whose payload is a
// serialized object tree rather than flat attributes. The server only ever
// produces these; retaining the tree keeps them round-trippable.
type FragmentMessage struct {
	tag  string
	frag *wire.Fragment
}

// NewFragmentMessage wraps a prebuilt fragment.
func NewFragmentMessage(f *wire.Fragment) *FragmentMessage {
	return &FragmentMessage{tag: f.Tag, frag: f}
}

func fragmentCtor(tag string) Constructor {
	return func() Message { return &FragmentMessage{tag: tag} }
}

func (m *FragmentMessage) Tag() string { return m.tag }

func (m *FragmentMessage) FromFragment(f *wire.Fragment) error {
	if f.Tag != m.tag {
		return fmt.Errorf("tag mismatch: got %q, want %q", f.Tag, m.tag)
	}
	m.frag = f.Copy()
	return nil
}

func (m *FragmentMessage) ToFragment() *wire.Fragment {
	if m.frag == nil {
		return wire.New(m.tag)
	}
	return m.frag.Copy()
}
