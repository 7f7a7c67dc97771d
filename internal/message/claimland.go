package message

import (
	"fmt"
	"strconv"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// ClaimLand asks the server to claim ownership of a tile for the player,
// using a unit or settlement as the claimant and optionally paying the
// current owner.
type ClaimLand struct {
	TileID     string
	ClaimantID string
	Price      int
}

const TagClaimLand = "ClaimLand"

func (m *ClaimLand) Tag() string { return TagClaimLand }

func (m *ClaimLand) FromFragment(f *wire.Fragment) error {
	m.TileID = f.Get("tile")
	m.ClaimantID = f.Get("claimant")
	if m.TileID == "" || m.ClaimantID == "" {
		return fmt.Errorf("claimLand: missing tile or claimant")
	}
	m.Price = f.GetInt("price", 0)
	return nil
}

func (m *ClaimLand) ToFragment() *wire.Fragment {
	return wire.New(TagClaimLand,
		"tile", m.TileID,
		"claimant", m.ClaimantID,
		"price", strconv.Itoa(m.Price))
}

func (m *ClaimLand) Handle(c Controller, p *game.Player) (*change.ChangeSet, error) {
	g := c.Game()
	tile, _ := g.GetObject(m.TileID).(*game.Tile)
	claimant, _ := g.GetObject(m.ClaimantID).(*game.Unit)
	if tile == nil || claimant == nil {
		return change.ClientError(p, TemplateBadRequest), nil
	}
	return c.ClaimLand(p, tile, claimant, m.Price), nil
}
