package server

import (
	"math/rand"
	"strconv"

	"go.uber.org/zap"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/message"
)

// Controller executes validated game actions against the authoritative
// world graph. Every method checks game rules first and only then mutates;
// rule violations come back as client-error change sets, never as errors.
// All methods run under the server's world lock.
type Controller struct {
	game *game.Game
	log  *zap.Logger
	rng  *rand.Rand
}

func NewController(g *game.Game, log *zap.Logger, seed int64) *Controller {
	return &Controller{
		game: g,
		log:  log,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (c *Controller) Game() *game.Game { return c.game }

// requireTurn rejects game-mutating requests out of turn. Returns nil when
// the request may proceed.
func (c *Controller) requireTurn(p *game.Player) *change.ChangeSet {
	if c.game.CurrentPlayer() != p {
		return change.ClientError(p, message.TemplateNotYourTurn)
	}
	return nil
}

func (c *Controller) ClaimLand(p *game.Player, t *game.Tile, claimant *game.Unit, price int) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if claimant.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	loc := claimant.Location()
	if loc != t && !c.game.Map.Adjacent(loc, t) {
		return change.ClientError(p, message.TemplateNotAdjacent)
	}
	owner := t.Owner()
	switch {
	case owner == nil || owner == p:
		// Unowned land is free to claim.
	case owner.Native:
		if price > 0 {
			if p.Gold < price {
				return change.ClientError(p, message.TemplateInsufficientFunds)
			}
			p.Gold -= price
			owner.Gold += price
		}
		// Price zero takes the land without payment; the diplomatic cost
		// is the natives' business, not the sync core's.
	default:
		// European owners will not sell land.
		return change.ClientError(p, message.TemplateEuropeansWillNotSell)
	}
	t.SetOwner(p)
	cs := change.New(change.NewUpdate(change.Perhaps(), t))
	if owner != nil && owner != p && price > 0 {
		cs.Add(change.NewPartial(change.Only(p), p, "gold"))
		cs.Add(change.NewPartial(change.Only(owner), owner, "gold"))
	}
	return cs
}

func (c *Controller) LoadGoods(p *game.Player, gt *game.GoodsType, amount int, carrier *game.Unit) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if carrier.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	if !carrier.CanAddGoods(gt, amount) {
		return change.ClientError(p, message.TemplateCargoFull)
	}
	loc := carrier.Location()
	if loc == nil || loc.Settlement() == nil || loc.Settlement().Owner() != p {
		return change.ClientError(p, message.TemplateBadRequest)
	}
	s := loc.Settlement()
	if s.Count(gt) < amount {
		return change.ClientError(p, message.TemplateInsufficientGoods)
	}
	s.RemoveGoods(gt, amount)
	carrier.AddGoods(c.game, p, gt, amount)
	return change.New(change.NewUpdate(change.Only(p), carrier, s))
}

func (c *Controller) UnloadGoods(p *game.Player, gt *game.GoodsType, amount int, carrier *game.Unit) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if carrier.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	if carrier.Count(gt) < amount {
		return change.ClientError(p, message.TemplateInsufficientGoods)
	}
	carrier.RemoveGoods(gt, amount)
	cs := change.New()
	loc := carrier.Location()
	if loc != nil && loc.Settlement() != nil && loc.Settlement().Owner() == p {
		s := loc.Settlement()
		s.AddGoods(c.game, p, gt, amount)
		cs.Add(change.NewUpdate(change.Only(p), carrier, s))
	} else {
		// No friendly settlement here: the goods go overboard.
		cs.Add(change.NewUpdate(change.Only(p), carrier))
	}
	return cs
}

func (c *Controller) MoveUnit(p *game.Player, u *game.Unit, direction int) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	if u.MovesLeft <= 0 {
		return change.ClientError(p, message.TemplateNoMoves)
	}
	oldTile := u.Location()
	newTile := c.game.Map.Step(oldTile, direction)
	if newTile == nil {
		return change.ClientError(p, message.TemplateMoveBlocked)
	}
	if s := newTile.Settlement(); s != nil && s.Owner() != p {
		return change.ClientError(p, message.TemplateMoveBlocked)
	}
	for _, other := range newTile.Units() {
		if other.Owner() != p {
			// Entering an enemy-held tile is an attack, not a move.
			return change.ClientError(p, message.TemplateMoveBlocked)
		}
	}

	// The move record snapshots the unit before mutation.
	cs := change.New(change.NewMove(change.Perhaps().Except(p), u, oldTile, newTile))
	u.SetTile(newTile)
	u.MovesLeft--
	p.InvalidateVision()
	cs.Add(change.NewUpdate(change.Only(p), u, newTile))
	cs.Add(change.NewUpdate(change.Perhaps().Except(p), u))
	return cs
}

func (c *Controller) AttackUnit(p *game.Player, u *game.Unit, direction int) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	if u.MovesLeft <= 0 {
		return change.ClientError(p, message.TemplateNoMoves)
	}
	target := c.game.Map.Step(u.Location(), direction)
	if target == nil {
		return change.ClientError(p, message.TemplateBadRequest)
	}
	defender := target.FirstUnit()
	if defender == nil && target.Settlement() != nil {
		defender = firstGarrison(target.Settlement())
	}
	if defender == nil || defender.Owner() == p {
		return change.ClientError(p, message.TemplateBadRequest)
	}
	if !p.AtWarWith(defender.Owner()) {
		return change.ClientError(p, message.TemplateNotAtWar)
	}

	success := c.rng.Intn(2) == 0
	// Combatants are copied now; by fan-out time the loser is gone.
	cs := change.New(change.NewAttack(change.Perhaps(), u, defender, success))
	u.MovesLeft = 0
	loser := defender
	if !success {
		loser = u
	}
	loserTile := loser.Location()
	loserOwner := loser.Owner()
	removed := removalList(loser)
	c.game.RemoveUnit(loser)
	// The loser's owner is told unconditionally; losing the unit may have
	// cost them their last sight of the tile.
	cs.Add(change.NewRemove(change.Perhaps().Always(loserOwner), loserTile, removed...))
	cs.Add(change.NewUpdate(change.Only(p), u))
	return cs
}

// removalList orders a unit's owned contents before the unit itself: the
// remove record requires the root object last.
func removalList(u *game.Unit) []game.Object {
	var out []game.Object
	for _, passenger := range u.Passengers() {
		out = append(out, passenger)
	}
	for _, g := range u.Goods() {
		out = append(out, g)
	}
	return append(out, u)
}

func firstGarrison(s *game.Settlement) *game.Unit {
	for _, w := range s.WorkLocations() {
		if units := w.Units(); len(units) > 0 {
			return units[0]
		}
	}
	return nil
}

func (c *Controller) BuildColony(p *game.Player, name string, u *game.Unit) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	t := u.Location()
	if t == nil || u.Carrier() != nil {
		return change.ClientError(p, message.TemplateBadRequest)
	}
	if t.Settlement() != nil || (t.Owner() != nil && t.Owner() != p) {
		return change.ClientError(p, message.TemplateTileOccupied)
	}
	s := c.game.AddSettlement(p, name, t)
	w := s.AddWorkLocation(c.game, c.game.Spec.GetBuildingType("model.building.townHall"))
	u.SetWorkLocation(w)
	p.InvalidateVision()

	cs := change.New(change.NewUpdate(change.Perhaps(), t))
	// The founding unit disappears into the colony for everyone else.
	cs.Add(change.NewRemove(change.Perhaps().Except(p), t, u))
	cs.Add(change.NewUpdate(change.Only(p), s))
	return cs
}

func (c *Controller) ChangeState(p *game.Player, u *game.Unit, state game.UnitState) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	switch state {
	case game.StateActive, game.StateFortified, game.StateSentry, game.StateSkipped:
	default:
		return change.ClientError(p, message.TemplateBadRequest)
	}
	u.State = state
	return change.New(change.NewPartial(change.Only(p), u, "state"))
}

func (c *Controller) Embark(p *game.Player, u, carrier *game.Unit) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p || carrier.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	if carrier.HoldsUsed() >= carrier.Type.CargoHold {
		return change.ClientError(p, message.TemplateCargoFull)
	}
	from := u.Location()
	dest := carrier.Location()
	if from != dest && !c.game.Map.Adjacent(from, dest) {
		return change.ClientError(p, message.TemplateNotAdjacent)
	}
	// Boarding hides the unit from everyone but its owner.
	cs := change.New(change.NewRemove(change.Perhaps().Except(p), from, u))
	u.Board(carrier)
	p.InvalidateVision()
	cs.Add(change.NewUpdate(change.Only(p), carrier))
	return cs
}

func (c *Controller) Disembark(p *game.Player, u *game.Unit) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	carrier := u.Carrier()
	if carrier == nil {
		return change.ClientError(p, message.TemplateBadRequest)
	}
	u.SetTile(carrier.Location())
	p.InvalidateVision()
	cs := change.New(change.NewUpdate(change.Only(p), u, carrier))
	cs.Add(change.NewUpdate(change.Perhaps().Except(p), u))
	return cs
}

func (c *Controller) DisbandUnit(p *game.Player, u *game.Unit) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	t := u.Location()
	removed := removalList(u)
	c.game.RemoveUnit(u)
	return change.New(change.NewRemove(change.Perhaps().Always(p), t, removed...))
}

func (c *Controller) SpySettlement(p *game.Player, u *game.Unit, s *game.Settlement) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	if u.Owner() != p {
		return change.ClientError(p, message.TemplateNotOwner)
	}
	if s.Owner() == p {
		return change.ClientError(p, message.TemplateBadRequest)
	}
	if !c.game.Map.Adjacent(u.Location(), s.Tile()) {
		return change.ClientError(p, message.TemplateNotAdjacent)
	}
	u.MovesLeft = 0
	cs := change.New(change.NewSpy(change.Only(p), s))
	cs.Add(change.NewPartial(change.Only(p), u, "movesLeft"))
	return cs
}

func (c *Controller) SetStance(p *game.Player, other *game.Player, s game.Stance) *change.ChangeSet {
	p.SetStance(other, s)
	other.SetStance(p, s)
	vis := change.Perhaps()
	if s.Incite() {
		// War declarations are global knowledge.
		vis = change.All()
	}
	return change.New(change.NewStance(vis, p, other, s))
}

func (c *Controller) EndTurn(p *game.Player) *change.ChangeSet {
	if cs := c.requireTurn(p); cs != nil {
		return cs
	}
	next, newTurn := c.game.AdvanceTurn()
	cs := change.New()
	if newTurn {
		cs.Add(change.NewTrivial(change.All(), message.TagNewTurn,
			change.PriorityTrivial, "turn", strconv.Itoa(c.game.Turn)))
	}
	cs.Add(change.NewTrivial(change.All(), message.TagSetCurrentPlayer,
		change.PriorityTrivial, "player", next.ID()))
	return cs
}

func (c *Controller) Chat(p *game.Player, text string, private bool) *change.ChangeSet {
	msg := &message.Chat{SenderID: p.ID(), Text: text, Private: private}
	return change.New(change.NewMessage(change.All(), msg))
}

func (c *Controller) Logout(p *game.Player) *change.ChangeSet {
	p.SetConnection(nil)
	return change.New(change.NewTrivial(change.All(), message.TagLogout,
		change.PriorityTrivial, "player", p.ID()))
}
