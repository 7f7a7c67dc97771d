package game

import (
	"sort"

	"github.com/colonyforge/server/internal/wire"
)

// Goods is a quantity of one goods type sitting in a container (a carrier's
// hold or a settlement warehouse). Goods objects are identified for removal
// notices but are owned through their container.
type Goods struct {
	id     string
	Type   *GoodsType
	Amount int
	owner  *Player
}

func (g *Goods) ID() string      { return g.id }
func (g *Goods) WireTag() string { return "goods" }
func (g *Goods) Owner() *Player  { return g.owner }

func (g *Goods) ToFragment(viewer *Player) *wire.Fragment {
	out := wire.New(g.WireTag(), "id", g.id, "type", g.Type.Id)
	out.SetInt("amount", g.Amount)
	return out
}

func (g *Goods) ToPartialFragment(fields ...string) *wire.Fragment {
	out := wire.New(g.WireTag(), "id", g.id).SetBool("partial", true)
	for _, field := range fields {
		if field == "amount" {
			out.SetInt("amount", g.Amount)
		}
	}
	return out
}

// GoodsContainer holds goods quantities keyed by type.
type GoodsContainer struct {
	goods map[string]*Goods
}

func (c *GoodsContainer) ensure() {
	if c.goods == nil {
		c.goods = make(map[string]*Goods)
	}
}

// Count returns the stored amount of the given type.
func (c *GoodsContainer) Count(t *GoodsType) int {
	if c.goods == nil || t == nil {
		return 0
	}
	if g := c.goods[t.Id]; g != nil {
		return g.Amount
	}
	return 0
}

// AddGoods stores amount of type t, merging with any existing quantity.
func (c *GoodsContainer) AddGoods(g *Game, owner *Player, t *GoodsType, amount int) {
	if amount <= 0 {
		return
	}
	c.ensure()
	if have := c.goods[t.Id]; have != nil {
		have.Amount += amount
		return
	}
	c.goods[t.Id] = &Goods{id: g.NextID("goods"), Type: t, Amount: amount, owner: owner}
}

// RemoveGoods takes amount of type t out of the container. Returns false
// when less than amount is present; the container is then unchanged.
func (c *GoodsContainer) RemoveGoods(t *GoodsType, amount int) bool {
	if c.goods == nil {
		return false
	}
	have := c.goods[t.Id]
	if have == nil || have.Amount < amount {
		return false
	}
	have.Amount -= amount
	if have.Amount == 0 {
		delete(c.goods, t.Id)
	}
	return true
}

// Goods returns the stored goods in type-id order for deterministic
// serialization.
func (c *GoodsContainer) Goods() []*Goods {
	if c.goods == nil {
		return nil
	}
	out := make([]*Goods, 0, len(c.goods))
	for _, g := range c.goods {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type.Id < out[j].Type.Id })
	return out
}
