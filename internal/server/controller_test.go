package server

import (
	"testing"

	"go.uber.org/zap"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/message"
	"github.com/colonyforge/server/internal/wire"
)

func newTestController(t *testing.T) (*Controller, *game.Player, *game.Player) {
	t.Helper()
	g := game.NewGame()
	g.BuildMap(16, 16)
	a := g.AddPlayer("Alice", "model.nation.dutch")
	b := g.AddPlayer("Bob", "model.nation.french")
	return NewController(g, zap.NewNop(), 1), a, b
}

// errorTemplate extracts the error template a change set delivers to p, or
// "" when the set carries no error for p.
func errorTemplate(cs *change.ChangeSet, p *game.Player) string {
	f := cs.Build(p)
	if f == nil {
		return ""
	}
	if f.Tag == "Error" {
		return f.Get("template")
	}
	for _, c := range f.Children {
		if c.Tag == "Error" {
			return c.Get("template")
		}
	}
	return ""
}

func TestClaimLandUnowned(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))
	g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 7))
	target := g.Map.Tile(5, 6)

	cs := c.ClaimLand(a, target, u, 0)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("unowned land should be claimable, got error %q", tmpl)
	}
	if target.Owner() != a {
		t.Fatal("tile ownership not transferred")
	}
	if f := cs.Build(b); f == nil {
		t.Fatal("observers of the tile should be told of the ownership change")
	}
}

func TestClaimLandEuropeanOwnerRefuses(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))
	target := g.Map.Tile(5, 6)
	target.SetOwner(b)

	cs := c.ClaimLand(a, target, u, 1000)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateEuropeansWillNotSell {
		t.Fatalf("expected %q, got %q", message.TemplateEuropeansWillNotSell, tmpl)
	}
	if target.Owner() != b {
		t.Fatal("refused claim must not change ownership")
	}
	// The rejection is the requester's business only.
	if f := cs.Build(b); f != nil {
		t.Fatalf("error must not leak to other players: %s", wire.Encode(f))
	}
}

func TestClaimLandNativePayment(t *testing.T) {
	c, a, _ := newTestController(t)
	g := c.Game()
	native := g.AddPlayer("Tupi", "model.nation.tupi")
	native.Native = true
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))
	target := g.Map.Tile(5, 6)
	target.SetOwner(native)

	a.Gold = 50
	cs := c.ClaimLand(a, target, u, 100)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateInsufficientFunds {
		t.Fatalf("expected %q, got %q", message.TemplateInsufficientFunds, tmpl)
	}

	a.Gold = 150
	cs = c.ClaimLand(a, target, u, 100)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("paid claim should succeed, got error %q", tmpl)
	}
	if a.Gold != 50 || native.Gold != 100 {
		t.Fatalf("payment not transferred: buyer %d, seller %d", a.Gold, native.Gold)
	}
	if target.Owner() != a {
		t.Fatal("tile ownership not transferred")
	}
}

func TestWrongTurnRejected(t *testing.T) {
	c, _, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))

	cs := c.MoveUnit(b, u, 2)
	if tmpl := errorTemplate(cs, b); tmpl != message.TemplateNotYourTurn {
		t.Fatalf("expected %q, got %q", message.TemplateNotYourTurn, tmpl)
	}
	if u.Location() != g.Map.Tile(5, 5) {
		t.Fatal("out-of-turn request must not mutate")
	}
}

func TestMoveUnit(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))

	// Heading 2 is due east.
	cs := c.MoveUnit(a, u, 2)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("move should succeed, got error %q", tmpl)
	}
	if u.Location() != g.Map.Tile(6, 5) {
		t.Fatalf("unit at %v, want (6,5)", u.Location())
	}
	if u.MovesLeft != u.Type.Movement-1 {
		t.Fatalf("movement not spent: %d", u.MovesLeft)
	}

	u.MovesLeft = 0
	cs = c.MoveUnit(a, u, 2)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateNoMoves {
		t.Fatalf("expected %q, got %q", message.TemplateNoMoves, tmpl)
	}

	// Enemy-held destination blocks movement.
	u.MovesLeft = 3
	g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(7, 5))
	cs = c.MoveUnit(a, u, 2)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateMoveBlocked {
		t.Fatalf("expected %q, got %q", message.TemplateMoveBlocked, tmpl)
	}

	// Off-map movement is blocked, not wrapped.
	edge := g.AddUnit(a, g.Spec.GetUnitType("model.unit.scout"), g.Map.Tile(0, 0))
	cs = c.MoveUnit(a, edge, 0)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateMoveBlocked {
		t.Fatalf("expected %q, got %q", message.TemplateMoveBlocked, tmpl)
	}
}

func TestAttackRequiresWar(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.veteranSoldier"), g.Map.Tile(5, 5))
	g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(6, 5))

	cs := c.AttackUnit(a, u, 2)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateNotAtWar {
		t.Fatalf("expected %q, got %q", message.TemplateNotAtWar, tmpl)
	}
}

func TestAttackRemovesLoser(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.veteranSoldier"), g.Map.Tile(5, 5))
	d := g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(6, 5))
	c.SetStance(a, b, game.StanceWar)

	cs := c.AttackUnit(a, u, 2)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("attack should resolve, got error %q", tmpl)
	}
	if u.MovesLeft != 0 {
		t.Fatal("attacking must consume all movement")
	}
	attackerGone := g.GetObject(u.ID()) == nil
	defenderGone := g.GetObject(d.ID()) == nil
	if attackerGone == defenderGone {
		t.Fatalf("exactly one combatant must be removed: attacker gone %v, defender gone %v",
			attackerGone, defenderGone)
	}
	// Both owners are told about the combat and the removal.
	for _, p := range []*game.Player{a, b} {
		f := cs.Build(p)
		if f == nil || f.Tag != "Multiple" {
			t.Fatalf("%s should get animation plus removal, got %v", p.Name, f)
		}
		if f.Children[0].Tag != "AnimateAttack" {
			t.Fatalf("animation must precede the removal: %s", wire.Encode(f))
		}
		if f.Children[len(f.Children)-1].Tag != "Remove" {
			t.Fatalf("removal must come last: %s", wire.Encode(f))
		}
	}
}

func TestBuildColony(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))

	cs := c.BuildColony(a, "New Amsterdam", u)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("founding should succeed, got error %q", tmpl)
	}
	s := g.Map.Tile(5, 5).Settlement()
	if s == nil || s.Name != "New Amsterdam" {
		t.Fatal("settlement not founded")
	}
	if u.WorkLocation() == nil {
		t.Fatal("founder should be working inside the colony")
	}

	// The founding tile is now occupied for everyone.
	other := g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(8, 8))
	c.EndTurn(a)
	cs = c.BuildColony(b, "Quebec", other)
	if tmpl := errorTemplate(cs, b); tmpl != "" {
		t.Fatalf("founding on a free tile should succeed, got %q", tmpl)
	}
	third := g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))
	cs = c.BuildColony(b, "Montreal", third)
	if tmpl := errorTemplate(cs, b); tmpl != message.TemplateTileOccupied {
		t.Fatalf("expected %q, got %q", message.TemplateTileOccupied, tmpl)
	}
}

func TestGoodsLifecycle(t *testing.T) {
	c, a, _ := newTestController(t)
	g := c.Game()
	lumber := g.Spec.GetGoodsType("model.goods.lumber")
	tile := g.Map.Tile(5, 5)
	s := g.AddSettlement(a, "New Amsterdam", tile)
	s.AddGoods(g, a, lumber, 100)
	ship := g.AddUnit(a, g.Spec.GetUnitType("model.unit.caravel"), tile)

	cs := c.LoadGoods(a, lumber, 30, ship)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("load should succeed, got error %q", tmpl)
	}
	if ship.Count(lumber) != 30 || s.Count(lumber) != 70 {
		t.Fatalf("goods not moved: ship %d, settlement %d", ship.Count(lumber), s.Count(lumber))
	}

	// Unloading more than the hold carries fails without mutating.
	cs = c.UnloadGoods(a, lumber, 50, ship)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateInsufficientGoods {
		t.Fatalf("expected %q, got %q", message.TemplateInsufficientGoods, tmpl)
	}
	if ship.Count(lumber) != 30 || s.Count(lumber) != 70 {
		t.Fatal("failed unload must not mutate")
	}

	cs = c.UnloadGoods(a, lumber, 30, ship)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("unload should succeed, got error %q", tmpl)
	}
	if ship.Count(lumber) != 0 || s.Count(lumber) != 100 {
		t.Fatalf("goods not returned: ship %d, settlement %d", ship.Count(lumber), s.Count(lumber))
	}
}

func TestLoadGoodsRespectsHoldCapacity(t *testing.T) {
	c, a, _ := newTestController(t)
	g := c.Game()
	lumber := g.Spec.GetGoodsType("model.goods.lumber")
	ore := g.Spec.GetGoodsType("model.goods.ore")
	tile := g.Map.Tile(5, 5)
	s := g.AddSettlement(a, "New Amsterdam", tile)
	s.AddGoods(g, a, lumber, 500)
	s.AddGoods(g, a, ore, 300)
	ship := g.AddUnit(a, g.Spec.GetUnitType("model.unit.caravel"), tile)

	// A two-hold ship carries at most 200 of goods in total.
	cs := c.LoadGoods(a, lumber, 250, ship)
	if tmpl := errorTemplate(cs, a); tmpl != message.TemplateCargoFull {
		t.Fatalf("expected %q, got %q", message.TemplateCargoFull, tmpl)
	}
	if ship.Count(lumber) != 0 || s.Count(lumber) != 500 {
		t.Fatal("rejected load must not mutate")
	}

	if tmpl := errorTemplate(c.LoadGoods(a, lumber, 150, ship), a); tmpl != "" {
		t.Fatalf("150 lumber fits two holds, got error %q", tmpl)
	}
	// 150 lumber already occupies both holds, so a second type is refused.
	if tmpl := errorTemplate(c.LoadGoods(a, ore, 10, ship), a); tmpl != message.TemplateCargoFull {
		t.Fatalf("expected %q, got %q", message.TemplateCargoFull, tmpl)
	}
	// Topping the started hold up to a full hundred is still allowed.
	if tmpl := errorTemplate(c.LoadGoods(a, lumber, 50, ship), a); tmpl != "" {
		t.Fatalf("topping up the second hold failed: %q", tmpl)
	}

	// Passengers occupy holds too.
	ship2 := g.AddUnit(a, g.Spec.GetUnitType("model.unit.caravel"), tile)
	colonist := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), tile)
	if tmpl := errorTemplate(c.Embark(a, colonist, ship2), a); tmpl != "" {
		t.Fatalf("embark failed: %q", tmpl)
	}
	if tmpl := errorTemplate(c.LoadGoods(a, ore, 150, ship2), a); tmpl != message.TemplateCargoFull {
		t.Fatalf("expected %q with a passenger aboard, got %q", message.TemplateCargoFull, tmpl)
	}
	if tmpl := errorTemplate(c.LoadGoods(a, ore, 100, ship2), a); tmpl != "" {
		t.Fatalf("one hold of ore fits beside the passenger, got %q", tmpl)
	}
}

func TestEmbarkDisembark(t *testing.T) {
	c, a, _ := newTestController(t)
	g := c.Game()
	tile := g.Map.Tile(5, 5)
	ship := g.AddUnit(a, g.Spec.GetUnitType("model.unit.caravel"), tile)
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 6))

	cs := c.Embark(a, u, ship)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("embark should succeed, got error %q", tmpl)
	}
	if u.Carrier() != ship {
		t.Fatal("unit not aboard")
	}

	// The hold is finite.
	u2 := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), tile)
	u3 := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), tile)
	if tmpl := errorTemplate(c.Embark(a, u2, ship), a); tmpl != "" {
		t.Fatalf("second passenger fits, got error %q", tmpl)
	}
	if tmpl := errorTemplate(c.Embark(a, u3, ship), a); tmpl != message.TemplateCargoFull {
		t.Fatalf("expected %q, got %q", message.TemplateCargoFull, tmpl)
	}

	cs = c.Disembark(a, u)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("disembark should succeed, got error %q", tmpl)
	}
	if u.Carrier() != nil || u.Location() != tile {
		t.Fatal("unit not landed on the carrier's tile")
	}
}

func TestEndTurnRotation(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	ua := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))
	ua.MovesLeft = 0

	cs := c.EndTurn(a)
	if g.CurrentPlayer() != b {
		t.Fatal("turn did not pass to the next player")
	}
	f := cs.Build(b)
	if f == nil || f.Tag != "SetCurrentPlayer" || f.Get("player") != b.ID() {
		t.Fatalf("expected SetCurrentPlayer for %s, got %s", b.ID(), wire.Encode(f))
	}

	// Wrapping back to the first player starts a new turn and refreshes
	// movement.
	cs = c.EndTurn(b)
	if g.CurrentPlayer() != a || g.Turn != 2 {
		t.Fatalf("turn should wrap: current %v, turn %d", g.CurrentPlayer().Name, g.Turn)
	}
	f = cs.Build(a)
	if f == nil || f.Tag != "Multiple" || f.Children[0].Tag != "NewTurn" {
		t.Fatalf("expected NewTurn announcement, got %s", wire.Encode(f))
	}
	if ua.MovesLeft != ua.Type.Movement {
		t.Fatal("movement points should refresh on turn start")
	}

	// Out-of-turn EndTurn is rejected.
	if tmpl := errorTemplate(c.EndTurn(b), b); tmpl != message.TemplateNotYourTurn {
		t.Fatalf("expected %q, got %q", message.TemplateNotYourTurn, tmpl)
	}
}

func TestSpySettlement(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	scout := g.AddUnit(a, g.Spec.GetUnitType("model.unit.scout"), g.Map.Tile(5, 5))
	s := g.AddSettlement(b, "Quebec", g.Map.Tile(6, 5))
	w := s.AddWorkLocation(g, g.Spec.GetBuildingType("model.building.townHall"))
	g.AddUnit(b, g.Spec.GetUnitType("model.unit.veteranSoldier"), g.Map.Tile(6, 5)).SetWorkLocation(w)

	cs := c.SpySettlement(a, scout, s)
	if tmpl := errorTemplate(cs, a); tmpl != "" {
		t.Fatalf("spying should succeed, got error %q", tmpl)
	}
	f := cs.Build(a)
	if f == nil || f.Tag != "Multiple" {
		t.Fatalf("spy should get reveal plus moves update, got %v", f)
	}
	reveal := f.Child("SpyResult")
	if reveal == nil {
		t.Fatalf("expected SpyResult: %s", wire.Encode(f))
	}
	if reveal.Children[0].Child("workLocation") == nil {
		t.Fatalf("spy reveal must include interior: %s", wire.Encode(f))
	}
	if scout.MovesLeft != 0 {
		t.Fatal("spying must consume the scout's movement")
	}
	// The victim learns nothing.
	if f := cs.Build(b); f != nil {
		t.Fatalf("settlement owner must not be notified: %s", wire.Encode(f))
	}

	// Distance check.
	far := g.AddUnit(a, g.Spec.GetUnitType("model.unit.scout"), g.Map.Tile(1, 1))
	if tmpl := errorTemplate(c.SpySettlement(a, far, s), a); tmpl != message.TemplateNotAdjacent {
		t.Fatalf("expected %q, got %q", message.TemplateNotAdjacent, tmpl)
	}
}

func TestDisbandUnit(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	u := g.AddUnit(a, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(5, 5))

	if tmpl := errorTemplate(c.DisbandUnit(a, u), a); tmpl != "" {
		t.Fatalf("disband should succeed, got error %q", tmpl)
	}
	if g.GetObject(u.ID()) != nil {
		t.Fatal("disbanded unit still registered")
	}

	// Only the owner may disband.
	ub := g.AddUnit(b, g.Spec.GetUnitType("model.unit.freeColonist"), g.Map.Tile(6, 6))
	if tmpl := errorTemplate(c.DisbandUnit(a, ub), a); tmpl != message.TemplateNotOwner {
		t.Fatalf("expected %q, got %q", message.TemplateNotOwner, tmpl)
	}
}

func TestSetStanceBroadcastScope(t *testing.T) {
	c, a, b := newTestController(t)
	g := c.Game()
	third := g.AddPlayer("Carol", "model.nation.spanish")

	// War is global knowledge.
	cs := c.SetStance(a, b, game.StanceWar)
	if f := cs.Build(third); f == nil || f.Tag != "SetStance" {
		t.Fatalf("war declaration should reach bystanders, got %v", f)
	}
	if a.Stance(b) != game.StanceWar || b.Stance(a) != game.StanceWar {
		t.Fatal("stance must be stored symmetrically")
	}

	// Peace is the pair's business.
	cs = c.SetStance(a, b, game.StancePeace)
	if f := cs.Build(third); f != nil {
		t.Fatalf("peace should not reach bystanders: %s", wire.Encode(f))
	}
	if f := cs.Build(b); f == nil {
		t.Fatal("the other party must be told")
	}
}
