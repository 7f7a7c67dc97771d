package message

import (
	"fmt"
	"strconv"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

const (
	TagLoadGoods   = "LoadGoods"
	TagUnloadGoods = "UnloadGoods"
)

// goodsTransfer is the shared shape of load and unload requests.
type goodsTransfer struct {
	TypeID    string
	Amount    int
	CarrierID string
}

func (m *goodsTransfer) fromFragment(tag string, f *wire.Fragment) error {
	m.TypeID = f.Get("type")
	m.CarrierID = f.Get("carrier")
	if m.TypeID == "" || m.CarrierID == "" {
		return fmt.Errorf("%s: missing type or carrier", tag)
	}
	m.Amount = f.GetInt("amount", -1)
	if m.Amount < 0 {
		return fmt.Errorf("%s: missing or negative amount", tag)
	}
	return nil
}

func (m *goodsTransfer) toFragment(tag string) *wire.Fragment {
	return wire.New(tag,
		"type", m.TypeID,
		"amount", strconv.Itoa(m.Amount),
		"carrier", m.CarrierID)
}

func (m *goodsTransfer) resolve(c Controller, p *game.Player) (*game.GoodsType, *game.Unit, *change.ChangeSet) {
	g := c.Game()
	gt := g.Spec.GetGoodsType(m.TypeID)
	carrier, _ := g.GetObject(m.CarrierID).(*game.Unit)
	if gt == nil || carrier == nil {
		return nil, nil, change.ClientError(p, TemplateBadRequest)
	}
	return gt, carrier, nil
}

// LoadGoods asks the server to load goods onto a carrier from the
// settlement it is at.
type LoadGoods struct{ goodsTransfer }

func (m *LoadGoods) Tag() string                         { return TagLoadGoods }
func (m *LoadGoods) FromFragment(f *wire.Fragment) error { return m.fromFragment(TagLoadGoods, f) }
func (m *LoadGoods) ToFragment() *wire.Fragment          { return m.toFragment(TagLoadGoods) }

func (m *LoadGoods) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	gt, carrier, errCS := m.resolve(c, p)
	if errCS != nil {
		return errCS, nil
	}
	return c.LoadGoods(p, gt, m.Amount, carrier), nil
}

// UnloadGoods asks the server to unload goods from a carrier into the
// settlement it is at, or overboard.
type UnloadGoods struct{ goodsTransfer }

func (m *UnloadGoods) Tag() string                         { return TagUnloadGoods }
func (m *UnloadGoods) FromFragment(f *wire.Fragment) error { return m.fromFragment(TagUnloadGoods, f) }
func (m *UnloadGoods) ToFragment() *wire.Fragment          { return m.toFragment(TagUnloadGoods) }

func (m *UnloadGoods) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	gt, carrier, errCS := m.resolve(c, p)
	if errCS != nil {
		return errCS, nil
	}
	return c.UnloadGoods(p, gt, m.Amount, carrier), nil
}
