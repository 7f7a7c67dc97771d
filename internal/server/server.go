package server

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/colonyforge/server/internal/change"
	"github.com/colonyforge/server/internal/config"
	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/message"
	"github.com/colonyforge/server/internal/wire"
)

// Server owns the authoritative game, the message registry and all live
// connections. Game-mutating request handling is serialized under mu, the
// single world-state lock; change-set fan-out runs concurrently after the
// lock is released.
type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	game     *game.Game
	ctrl     *Controller
	registry *message.Registry
	sessions *SessionStore

	// mu is the world-state lock. The world graph is not safe for
	// concurrent mutation; every handler runs to completion holding it.
	mu sync.Mutex

	upgrader websocket.Upgrader
}

// New builds a server around a game. A nil game gets a fresh one with the
// configured map and rule tables.
func New(cfg *config.Config, log *zap.Logger, g *game.Game) *Server {
	if g == nil {
		g = game.NewGame()
		if path := cfg.Game.RulesPath; path != "" {
			spec, err := game.LoadSpecification(path)
			if err != nil {
				log.Warn("falling back to built-in rules", zap.Error(err))
			} else {
				g.Spec = spec
			}
		}
		g.BuildMap(cfg.Game.MapWidth, cfg.Game.MapHeight)
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		game:     g,
		ctrl:     NewController(g, log, time.Now().UnixNano()),
		registry: message.NewRegistry(),
		sessions: NewSessionStore(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Game returns the authoritative game. Callers mutating it must hold the
// world lock via WithLock.
func (s *Server) Game() *game.Game { return s.game }

// WithLock runs fn under the world-state lock.
func (s *Server) WithLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// ListenAndServe serves websocket connections until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	srv := &http.Server{Addr: s.cfg.Network.BindAddress, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("listening", zap.String("addr", s.cfg.Network.BindAddress))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	c := newConnection(s, ws)
	go c.writeLoop()

	if err := s.login(c); err != nil {
		s.log.Warn("login failed", zap.Error(err))
		c.Close()
		return
	}
	s.sessions.Add(c)
	c.readLoop()
}

// login performs the connection handshake: the first frame must be a Login
// fragment naming the player.
func (s *Server) login(c *Connection) error {
	if s.cfg.Network.ReadTimeout > 0 {
		_ = c.ws.SetReadDeadline(time.Now().Add(s.cfg.Network.ReadTimeout))
	}
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return err
	}
	f, err := wire.Decode(data)
	if err != nil {
		return err
	}
	if f.Tag != "Login" || f.Get("userName") == "" {
		return errors.New("first frame must be Login with userName")
	}
	name := f.Get("userName")
	nation := f.Get("nation")

	var joined *change.ChangeSet
	s.mu.Lock()
	p := s.findPlayer(name)
	if p == nil {
		p = s.game.AddPlayer(name, nation)
		if len(s.game.Players()) == 1 {
			p.Admin = true
		}
		joined = change.New(change.NewPlayerJoin(p))
	}
	p.SetConnection(c)
	c.player = p
	result := s.loginResult(p)
	s.mu.Unlock()

	c.log.Info("player logged in", zap.String("player", p.Name))
	if err := c.Send(result); err != nil {
		return err
	}
	if joined != nil {
		s.Broadcast(joined, c)
	}
	return nil
}

func (s *Server) findPlayer(name string) *game.Player {
	for _, p := range s.game.Players() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// loginResult builds the handshake reply: the player's identity plus the
// public roster and turn state. Caller holds the world lock.
func (s *Server) loginResult(p *game.Player) *wire.Fragment {
	out := wire.New("LoginResult", "player", p.ID())
	out.SetInt("turn", s.game.Turn)
	if cur := s.game.CurrentPlayer(); cur != nil {
		out.Set("currentPlayer", cur.ID())
	}
	for _, other := range s.game.Players() {
		out.Append(other.ToFragment(p))
	}
	return out
}

// handle dispatches one inbound fragment: registry lookup, parse, validate
// and execute under the world lock, then fan the resulting change set out.
// The return value is the requesting player's own specialized payload (the
// reply for synchronous asks), nil when there is nothing to tell them.
func (s *Server) handle(c *Connection, f *wire.Fragment) (reply *wire.Fragment) {
	defer func() {
		if r := recover(); r != nil {
			// Internal failure: full detail stays server-side, the client
			// sees only the generic template.
			s.log.Error("panic in handler",
				zap.String("tag", f.Tag),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			reply = (&message.Error{Template: message.TemplateInternalError}).ToFragment()
		}
	}()

	if f.Tag == message.TagDiplomacy {
		// Diplomacy is not dispatched to a handler: the proposal is
		// relayed to the addressed player and their answer returned.
		return s.relayDiplomacy(c, f)
	}

	msg, err := s.registry.Parse(f)
	if err != nil {
		// Protocol fault, not a game error: logged server-side, generic
		// rejection to the sender.
		s.log.Warn("protocol fault", zap.String("tag", f.Tag), zap.Error(err))
		return (&message.Error{Template: message.TemplateCouldNotHandle}).ToFragment()
	}
	handler, ok := msg.(message.Handler)
	if !ok {
		s.log.Warn("client sent server-only message", zap.String("tag", f.Tag))
		return (&message.Error{Template: message.TemplateCouldNotHandle}).ToFragment()
	}
	if c.player == nil {
		s.log.Warn("request before login", zap.String("tag", f.Tag))
		return (&message.Error{Template: message.TemplateCouldNotHandle}).ToFragment()
	}

	s.mu.Lock()
	cs, err := handler.Handle(s.ctrl, c.player)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("handler failed", zap.String("tag", f.Tag), zap.Error(err))
		return (&message.Error{Template: message.TemplateInternalError}).ToFragment()
	}
	if cs == nil {
		return nil
	}
	s.Broadcast(cs, c)
	s.mu.Lock()
	reply = cs.Build(c.player)
	s.mu.Unlock()
	return reply
}

// relayDiplomacy forwards a diplomacy proposal to the addressed player and
// blocks until their answer arrives or the configured ask timeout elapses.
// The world lock is not held while waiting; only the proposer's read loop
// is. A late answer after the timeout is discarded by reply routing.
func (s *Server) relayDiplomacy(c *Connection, f *wire.Fragment) *wire.Fragment {
	if c.player == nil {
		s.log.Warn("request before login", zap.String("tag", f.Tag))
		return (&message.Error{Template: message.TemplateCouldNotHandle}).ToFragment()
	}
	s.mu.Lock()
	other, _ := s.game.GetObject(f.Get("otherPlayer")).(*game.Player)
	s.mu.Unlock()
	if other == nil || other == c.player {
		return (&message.Error{Template: message.TemplateBadRequest}).ToFragment()
	}
	oc := s.sessions.ByPlayer(other)
	if oc == nil {
		return (&message.Error{Template: message.TemplateNoResponse}).ToFragment()
	}
	// The recipient sees the proposer on the other side of the table.
	forward := f.Copy()
	forward.Set("otherPlayer", c.player.ID())
	reply, err := oc.Ask(forward, s.cfg.AskTimeout())
	if err != nil || reply == nil {
		s.log.Info("diplomacy went unanswered",
			zap.String("from", c.player.Name),
			zap.String("to", other.Name),
			zap.Error(err))
		return (&message.Error{Template: message.TemplateNoResponse}).ToFragment()
	}
	return reply
}

// Broadcast specializes a finalized change set once per connected player
// and sends the payloads, skipping except. Builds read shared state only,
// but player vision caches may lazily recompute, so each Build runs under
// the world lock; the sends themselves fan out concurrently.
func (s *Server) Broadcast(cs *change.ChangeSet, except *Connection) {
	if cs.Empty() {
		return
	}
	type delivery struct {
		conn *Connection
		frag *wire.Fragment
	}
	var deliveries []delivery
	s.mu.Lock()
	for _, c := range s.sessions.Snapshot() {
		if c == except || c.player == nil {
			continue
		}
		if f := cs.Build(c.player); f != nil {
			deliveries = append(deliveries, delivery{c, f})
		}
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, d := range deliveries {
		wg.Add(1)
		go func(d delivery) {
			defer wg.Done()
			if err := d.conn.Send(d.frag); err != nil {
				s.log.Debug("broadcast send failed", zap.Error(err))
			}
		}(d)
	}
	wg.Wait()
}

// disconnect tears down a lost connection: the session is removed, the
// player detached, and a logout change broadcast so other clients drop the
// player from their rosters. The server keeps serving everyone else.
func (s *Server) disconnect(c *Connection) {
	c.Close()
	s.sessions.Remove(c.ID)
	if c.player == nil {
		return
	}
	s.mu.Lock()
	cs := s.ctrl.Logout(c.player)
	s.mu.Unlock()
	s.log.Info("player disconnected", zap.String("player", c.player.Name))
	s.Broadcast(cs, c)
}
