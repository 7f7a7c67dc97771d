package message

import (
	"fmt"
	"strconv"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

const (
	TagMove          = "Move"
	TagAttack        = "Attack"
	TagBuildColony   = "BuildColony"
	TagChangeState   = "ChangeState"
	TagEmbark        = "Embark"
	TagDisembark     = "Disembark"
	TagDisbandUnit   = "DisbandUnit"
	TagSpySettlement = "SpySettlement"
)

// Move asks the server to move a unit one step in a heading (0-7,
// clockwise from north).
type Move struct {
	UnitID    string
	Direction int
}

func (m *Move) Tag() string { return TagMove }

func (m *Move) FromFragment(f *wire.Fragment) error {
	m.UnitID = f.Get("unit")
	if m.UnitID == "" {
		return fmt.Errorf("move: missing unit")
	}
	m.Direction = f.GetInt("direction", -1)
	if m.Direction < 0 || m.Direction > 7 {
		return fmt.Errorf("move: bad direction %d", m.Direction)
	}
	return nil
}

func (m *Move) ToFragment() *wire.Fragment {
	return wire.New(TagMove, "unit", m.UnitID, "direction", strconv.Itoa(m.Direction))
}

func (m *Move) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	u, _ := c.Game().GetObject(m.UnitID).(*game.Unit)
	if u == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.MoveUnit(p, u, m.Direction), nil
}

// Attack asks the server to resolve combat against whatever occupies the
// tile one step away in a heading.
type Attack struct {
	UnitID    string
	Direction int
}

func (m *Attack) Tag() string { return TagAttack }

func (m *Attack) FromFragment(f *wire.Fragment) error {
	m.UnitID = f.Get("unit")
	if m.UnitID == "" {
		return fmt.Errorf("attack: missing unit")
	}
	m.Direction = f.GetInt("direction", -1)
	if m.Direction < 0 || m.Direction > 7 {
		return fmt.Errorf("attack: bad direction %d", m.Direction)
	}
	return nil
}

func (m *Attack) ToFragment() *wire.Fragment {
	return wire.New(TagAttack, "unit", m.UnitID, "direction", strconv.Itoa(m.Direction))
}

func (m *Attack) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	u, _ := c.Game().GetObject(m.UnitID).(*game.Unit)
	if u == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.AttackUnit(p, u, m.Direction), nil
}

// BuildColony asks the server to found a colony with the given unit on its
// current tile.
type BuildColony struct {
	Name   string
	UnitID string
}

func (m *BuildColony) Tag() string { return TagBuildColony }

func (m *BuildColony) FromFragment(f *wire.Fragment) error {
	m.Name = f.Get("name")
	m.UnitID = f.Get("unit")
	if m.Name == "" || m.UnitID == "" {
		return fmt.Errorf("buildColony: missing name or unit")
	}
	return nil
}

func (m *BuildColony) ToFragment() *wire.Fragment {
	return wire.New(TagBuildColony, "name", m.Name, "unit", m.UnitID)
}

func (m *BuildColony) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	u, _ := c.Game().GetObject(m.UnitID).(*game.Unit)
	if u == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.BuildColony(p, m.Name, u), nil
}

// ChangeState asks the server to change a unit's activity state.
type ChangeState struct {
	UnitID string
	State  game.UnitState
}

func (m *ChangeState) Tag() string { return TagChangeState }

func (m *ChangeState) FromFragment(f *wire.Fragment) error {
	m.UnitID = f.Get("unit")
	m.State = game.UnitState(f.Get("state"))
	if m.UnitID == "" || m.State == "" {
		return fmt.Errorf("changeState: missing unit or state")
	}
	return nil
}

func (m *ChangeState) ToFragment() *wire.Fragment {
	return wire.New(TagChangeState, "unit", m.UnitID, "state", string(m.State))
}

func (m *ChangeState) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	u, _ := c.Game().GetObject(m.UnitID).(*game.Unit)
	if u == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.ChangeState(p, u, m.State), nil
}

// Embark asks the server to put a unit aboard a carrier on the same or an
// adjacent tile.
type Embark struct {
	UnitID    string
	CarrierID string
}

func (m *Embark) Tag() string { return TagEmbark }

func (m *Embark) FromFragment(f *wire.Fragment) error {
	m.UnitID = f.Get("unit")
	m.CarrierID = f.Get("carrier")
	if m.UnitID == "" || m.CarrierID == "" {
		return fmt.Errorf("embark: missing unit or carrier")
	}
	return nil
}

func (m *Embark) ToFragment() *wire.Fragment {
	return wire.New(TagEmbark, "unit", m.UnitID, "carrier", m.CarrierID)
}

func (m *Embark) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	g := c.Game()
	u, _ := g.GetObject(m.UnitID).(*game.Unit)
	carrier, _ := g.GetObject(m.CarrierID).(*game.Unit)
	if u == nil || carrier == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.Embark(p, u, carrier), nil
}

// Disembark asks the server to land a unit from its carrier onto the
// carrier's tile.
type Disembark struct {
	UnitID string
}

func (m *Disembark) Tag() string { return TagDisembark }

func (m *Disembark) FromFragment(f *wire.Fragment) error {
	m.UnitID = f.Get("unit")
	if m.UnitID == "" {
		return fmt.Errorf("disembark: missing unit")
	}
	return nil
}

func (m *Disembark) ToFragment() *wire.Fragment {
	return wire.New(TagDisembark, "unit", m.UnitID)
}

func (m *Disembark) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	u, _ := c.Game().GetObject(m.UnitID).(*game.Unit)
	if u == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.Disembark(p, u), nil
}

// DisbandUnit asks the server to dispose of one of the player's own units.
type DisbandUnit struct {
	UnitID string
}

func (m *DisbandUnit) Tag() string { return TagDisbandUnit }

func (m *DisbandUnit) FromFragment(f *wire.Fragment) error {
	m.UnitID = f.Get("unit")
	if m.UnitID == "" {
		return fmt.Errorf("disbandUnit: missing unit")
	}
	return nil
}

func (m *DisbandUnit) ToFragment() *wire.Fragment {
	return wire.New(TagDisbandUnit, "unit", m.UnitID)
}

func (m *DisbandUnit) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	u, _ := c.Game().GetObject(m.UnitID).(*game.Unit)
	if u == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.DisbandUnit(p, u), nil
}

// SpySettlement asks the server to reveal a foreign settlement's contents
// to the requesting player using an adjacent scout.
type SpySettlement struct {
	UnitID       string
	SettlementID string
}

func (m *SpySettlement) Tag() string { return TagSpySettlement }

func (m *SpySettlement) FromFragment(f *wire.Fragment) error {
	m.UnitID = f.Get("unit")
	m.SettlementID = f.Get("settlement")
	if m.UnitID == "" || m.SettlementID == "" {
		return fmt.Errorf("spySettlement: missing unit or settlement")
	}
	return nil
}

func (m *SpySettlement) ToFragment() *wire.Fragment {
	return wire.New(TagSpySettlement, "unit", m.UnitID, "settlement", m.SettlementID)
}

func (m *SpySettlement) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	g := c.Game()
	u, _ := g.GetObject(m.UnitID).(*game.Unit)
	s, _ := g.GetObject(m.SettlementID).(*game.Settlement)
	if u == nil || s == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.SpySettlement(p, u, s), nil
}
