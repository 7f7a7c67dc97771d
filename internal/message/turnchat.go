package message

import (
	"fmt"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

const (
	TagEndTurn   = "EndTurn"
	TagChat      = "Chat"
	TagSetStance = "SetStance"
	TagLogout    = "Logout"
)

// EndTurn asks the server to end the requesting player's turn.
type EndTurn struct{}

func (m *EndTurn) Tag() string { return TagEndTurn }

func (m *EndTurn) FromFragment(f *wire.Fragment) error { return nil }

func (m *EndTurn) ToFragment() *wire.Fragment { return wire.New(TagEndTurn) }

func (m *EndTurn) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	return c.EndTurn(p), nil
}

// Chat relays a chat line. Both directions use the same shape: the server
// stamps the sender before rebroadcasting.
type Chat struct {
	SenderID string
	Text     string
	Private  bool
}

func (m *Chat) Tag() string { return TagChat }

func (m *Chat) FromFragment(f *wire.Fragment) error {
	m.SenderID = f.Get("sender")
	m.Text = f.Get("message")
	if m.Text == "" {
		return fmt.Errorf("chat: missing message")
	}
	m.Private = f.GetBool("private", false)
	return nil
}

func (m *Chat) ToFragment() *wire.Fragment {
	out := wire.New(TagChat)
	if m.SenderID != "" {
		out.Set("sender", m.SenderID)
	}
	out.Set("message", m.Text)
	out.SetBool("private", m.Private)
	return out
}

func (m *Chat) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	return c.Chat(p, m.Text, m.Private), nil
}

// SetStance asks the server to change the requesting player's stance
// toward another player (declare war, make peace). Outbound, the same tag
// announces the result; only the inbound direction carries a handler.
type SetStance struct {
	Stance   string
	FirstID  string
	SecondID string
}

func (m *SetStance) Tag() string { return TagSetStance }

func (m *SetStance) FromFragment(f *wire.Fragment) error {
	m.Stance = f.Get("stance")
	m.FirstID = f.Get("first")
	m.SecondID = f.Get("second")
	if m.Stance == "" || m.SecondID == "" {
		return fmt.Errorf("setStance: missing stance or second")
	}
	return nil
}

func (m *SetStance) ToFragment() *wire.Fragment {
	out := wire.New(TagSetStance, "stance", m.Stance)
	if m.FirstID != "" {
		out.Set("first", m.FirstID)
	}
	out.Set("second", m.SecondID)
	return out
}

func (m *SetStance) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	stance, ok := game.ParseStance(m.Stance)
	if !ok {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	other, _ := c.Game().GetObject(m.SecondID).(*game.Player)
	if other == nil || other == p {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.SetStance(p, other, stance), nil
}

// Logout announces the requesting player leaving the game.
type Logout struct {
	PlayerID string
}

func (m *Logout) Tag() string { return TagLogout }

func (m *Logout) FromFragment(f *wire.Fragment) error {
	m.PlayerID = f.Get("player")
	return nil
}

func (m *Logout) ToFragment() *wire.Fragment {
	out := wire.New(TagLogout)
	if m.PlayerID != "" {
		out.Set("player", m.PlayerID)
	}
	return out
}

func (m *Logout) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	return c.Logout(p), nil
}
