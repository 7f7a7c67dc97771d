package server

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/colonyforge/server/internal/config"
	"github.com/colonyforge/server/internal/message"
	"github.com/colonyforge/server/internal/wire"
)

// askConn builds a connection with no socket behind it. Ask only touches
// the outbound queue and the pending-reply table, so tests read the
// question off the queue and feed replies straight into route.
func askConn() *Connection {
	return &Connection{
		ID:      uuid.New(),
		log:     zap.NewNop(),
		out:     make(chan []byte, 8),
		closed:  make(chan struct{}),
		pending: make(map[int]chan *wire.Fragment),
	}
}

func nextFrame(t *testing.T, c *Connection) *wire.Fragment {
	t.Helper()
	select {
	case data := <-c.out:
		f, err := wire.Decode(data)
		if err != nil {
			t.Fatalf("decode queued frame: %v", err)
		}
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
	}
	return nil
}

func TestAskTimesOutWithoutReply(t *testing.T) {
	c := askConn()
	_, err := c.Ask(wire.New(message.TagDiplomacy, "otherPlayer", "player:2"), 20*time.Millisecond)
	if !errors.Is(err, ErrAskTimeout) {
		t.Fatalf("expected ErrAskTimeout, got %v", err)
	}
	q := nextFrame(t, c)
	if q.Tag != tagQuestion {
		t.Fatalf("expected %s envelope, got %s", tagQuestion, q.Tag)
	}
	if q.Get(replyIDKey) == "" {
		t.Fatal("question carries no reply id")
	}
	if len(q.Children) != 1 || q.Children[0].Tag != message.TagDiplomacy {
		t.Fatalf("question must carry the payload, got %v", q.Children)
	}
}

func TestAskDeliversMatchingReply(t *testing.T) {
	c := askConn()
	type result struct {
		f   *wire.Fragment
		err error
	}
	done := make(chan result, 1)
	go func() {
		f, err := c.Ask(wire.New(message.TagDiplomacy), time.Second)
		done <- result{f, err}
	}()
	q := nextFrame(t, c)
	c.route(wire.New(tagReply, replyIDKey, q.Get(replyIDKey)).
		Append(wire.New(message.TagDiplomacy, "agree", "true")))
	r := <-done
	if r.err != nil {
		t.Fatalf("ask failed: %v", r.err)
	}
	if r.f == nil || r.f.Tag != message.TagDiplomacy || r.f.Get("agree") != "true" {
		t.Fatalf("wrong reply: %v", r.f)
	}
}

func TestLateReplyIsDiscarded(t *testing.T) {
	c := askConn()
	if _, err := c.Ask(wire.New(message.TagDiplomacy), 10*time.Millisecond); !errors.Is(err, ErrAskTimeout) {
		t.Fatalf("expected ErrAskTimeout, got %v", err)
	}
	stale := nextFrame(t, c).Get(replyIDKey)

	done := make(chan *wire.Fragment, 1)
	go func() {
		f, _ := c.Ask(wire.New(message.TagDiplomacy), time.Second)
		done <- f
	}()
	fresh := nextFrame(t, c).Get(replyIDKey)
	if fresh == stale {
		t.Fatal("reply ids must not repeat")
	}

	// The answer to the torn-down ask arrives now. It must be dropped,
	// not delivered to the ask in flight.
	c.route(wire.New(tagReply, replyIDKey, stale).Append(wire.New(message.TagError)))
	select {
	case f := <-done:
		t.Fatalf("stale reply delivered: %v", f)
	case <-time.After(50 * time.Millisecond):
	}

	c.route(wire.New(tagReply, replyIDKey, fresh).
		Append(wire.New(message.TagDiplomacy, "agree", "false")))
	f := <-done
	if f == nil || f.Get("agree") != "false" {
		t.Fatalf("wrong reply: %v", f)
	}
}

func TestConcurrentAsksSerialize(t *testing.T) {
	c := askConn()
	type result struct {
		tag string
		err error
	}
	done := make(chan result, 2)
	ask := func(payload *wire.Fragment) {
		f, err := c.Ask(payload, time.Second)
		tag := ""
		if f != nil {
			tag = f.Tag
		}
		done <- result{tag, err}
	}

	go ask(wire.New(message.TagDiplomacy))
	first := nextFrame(t, c)
	go ask(wire.New("NativeTrade"))

	// The second ask must wait for the first to resolve.
	select {
	case <-c.out:
		t.Fatal("second question sent while first outstanding")
	case <-time.After(50 * time.Millisecond):
	}

	c.route(wire.New(tagReply, replyIDKey, first.Get(replyIDKey)).
		Append(wire.New("DiplomacyResult")))
	if r := <-done; r.err != nil || r.tag != "DiplomacyResult" {
		t.Fatalf("first ask: tag %q err %v", r.tag, r.err)
	}

	second := nextFrame(t, c)
	if second.Get(replyIDKey) == first.Get(replyIDKey) {
		t.Fatal("reply ids must not repeat")
	}
	c.route(wire.New(tagReply, replyIDKey, second.Get(replyIDKey)).
		Append(wire.New("TradeResult")))
	if r := <-done; r.err != nil || r.tag != "TradeResult" {
		t.Fatalf("second ask: tag %q err %v", r.tag, r.err)
	}
}

func TestAskFailsOnClosedConnection(t *testing.T) {
	c := askConn()
	close(c.closed)
	if _, err := c.Ask(wire.New(message.TagDiplomacy), time.Second); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}

func newRelayFixture(t *testing.T) (*Server, *Connection, *Connection) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Game.MapWidth, cfg.Game.MapHeight = 8, 8
	cfg.Network.AskTimeout = 50 * time.Millisecond
	s := New(cfg, zap.NewNop(), nil)
	ca, cb := askConn(), askConn()
	ca.srv, cb.srv = s, s
	ca.player = s.game.AddPlayer("Alice", "model.nation.dutch")
	cb.player = s.game.AddPlayer("Bob", "model.nation.french")
	s.sessions.Add(ca)
	s.sessions.Add(cb)
	return s, ca, cb
}

func TestDiplomacyRelayRoundTrip(t *testing.T) {
	s, ca, cb := newRelayFixture(t)
	proposal := wire.New(message.TagDiplomacy, "otherPlayer", cb.player.ID()).
		Append(wire.New("offer", "gold", "100"))
	done := make(chan *wire.Fragment, 1)
	go func() { done <- s.handle(ca, proposal) }()

	q := nextFrame(t, cb)
	if q.Tag != tagQuestion || len(q.Children) != 1 || q.Children[0].Tag != message.TagDiplomacy {
		t.Fatalf("forwarded frame = %v", q)
	}
	// The recipient sees the proposer's id on the other side.
	if got := q.Children[0].Get("otherPlayer"); got != ca.player.ID() {
		t.Fatalf("otherPlayer = %q, want %q", got, ca.player.ID())
	}
	if q.Children[0].Child("offer") == nil {
		t.Fatal("proposal body lost in relay")
	}

	cb.route(wire.New(tagReply, replyIDKey, q.Get(replyIDKey)).
		Append(wire.New(message.TagDiplomacy, "agree", "true")))
	reply := <-done
	if reply == nil || reply.Tag != message.TagDiplomacy || reply.Get("agree") != "true" {
		t.Fatalf("relay returned %v", reply)
	}
}

func TestDiplomacyRelayTimesOut(t *testing.T) {
	s, ca, cb := newRelayFixture(t)
	reply := s.handle(ca, wire.New(message.TagDiplomacy, "otherPlayer", cb.player.ID()))
	if reply == nil || reply.Tag != message.TagError || reply.Get("template") != message.TemplateNoResponse {
		t.Fatalf("expected no-response rejection, got %v", reply)
	}
}

func TestDiplomacyRelayRejectsBadParty(t *testing.T) {
	s, ca, _ := newRelayFixture(t)
	for _, other := range []string{"", "player:99", ca.player.ID()} {
		reply := s.handle(ca, wire.New(message.TagDiplomacy, "otherPlayer", other))
		if reply == nil || reply.Get("template") != message.TemplateBadRequest {
			t.Fatalf("otherPlayer %q: expected bad-request rejection, got %v", other, reply)
		}
	}
}
