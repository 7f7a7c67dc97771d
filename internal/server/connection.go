package server

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/colonyforge/server/internal/game"
	"github.com/colonyforge/server/internal/wire"
)

// Envelope tags for synchronous ask/reply correlation. Everything else on
// the wire is a bare typed message.
const (
	tagQuestion = "Question"
	tagReply    = "Reply"
	replyIDKey  = "networkReplyId"
)

// ErrAskTimeout is the communication failure returned when a synchronous
// ask gets no reply in time. It is not a protocol error: the in-flight
// handler's eventual result is discarded.
var ErrAskTimeout = errors.New("ask: timed out waiting for reply")

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one client socket: a read loop dispatching requests, a
// buffered write loop, and reply-id correlation for synchronous asks.
type Connection struct {
	ID     uuid.UUID
	player *game.Player

	srv *Server
	ws  *websocket.Conn
	log *zap.Logger

	out       chan []byte
	closeOnce sync.Once
	closed    chan struct{}

	// askMu serializes asks: one outstanding synchronous request per
	// connection.
	askMu   sync.Mutex
	mu      sync.Mutex
	pending map[int]chan *wire.Fragment
	nextID  int
}

func newConnection(srv *Server, ws *websocket.Conn) *Connection {
	id := uuid.New()
	return &Connection{
		ID:      id,
		srv:     srv,
		ws:      ws,
		log:     srv.log.With(zap.String("conn", id.String())),
		out:     make(chan []byte, srv.cfg.Network.OutQueueSize),
		closed:  make(chan struct{}),
		pending: make(map[int]chan *wire.Fragment),
	}
}

// Player returns the player bound to this connection, nil before login.
func (c *Connection) Player() *game.Player { return c.player }

// Send queues one fragment for asynchronous delivery.
func (c *Connection) Send(f *wire.Fragment) error {
	if f == nil {
		return nil
	}
	data := wire.Encode(f)
	select {
	case c.out <- data:
		return nil
	case <-c.closed:
		return ErrConnectionClosed
	}
}

// Ask sends a fragment and blocks until the matching reply arrives or the
// timeout elapses. A zero timeout waits forever. Only one ask may be
// outstanding per connection at a time.
func (c *Connection) Ask(f *wire.Fragment, timeout time.Duration) (*wire.Fragment, error) {
	c.askMu.Lock()
	defer c.askMu.Unlock()

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan *wire.Fragment, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	q := wire.New(tagQuestion, replyIDKey, strconv.Itoa(id)).Append(f)
	if err := c.Send(q); err != nil {
		return nil, err
	}

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case reply := <-ch:
		return reply, nil
	case <-timer:
		return nil, ErrAskTimeout
	case <-c.closed:
		return nil, ErrConnectionClosed
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	for {
		select {
		case data := <-c.out:
			if c.srv.cfg.Network.WriteTimeout > 0 {
				_ = c.ws.SetWriteDeadline(time.Now().Add(c.srv.cfg.Network.WriteTimeout))
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn("write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *Connection) readLoop() {
	defer c.srv.disconnect(c)
	for {
		if c.srv.cfg.Network.ReadTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.srv.cfg.Network.ReadTimeout))
		}
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				c.log.Info("connection lost", zap.Error(err))
			}
			return
		}
		f, err := wire.Decode(data)
		if err != nil {
			// Malformed fragment: protocol fault, never silently ignored.
			c.log.Warn("malformed fragment", zap.Error(err))
			continue
		}
		c.route(f)
	}
}

func (c *Connection) route(f *wire.Fragment) {
	switch f.Tag {
	case tagReply:
		id, err := strconv.Atoi(f.Get(replyIDKey))
		if err != nil {
			c.log.Warn("reply without valid id")
			return
		}
		var inner *wire.Fragment
		if len(f.Children) > 0 {
			inner = f.Children[0]
		}
		c.mu.Lock()
		ch := c.pending[id]
		c.mu.Unlock()
		if ch == nil {
			// Late reply after timeout: the interaction is torn down,
			// discard rather than apply.
			c.log.Debug("discarding late reply", zap.Int("id", id))
			return
		}
		ch <- inner
	case tagQuestion:
		if len(f.Children) == 0 {
			c.log.Warn("question without payload")
			return
		}
		id := f.Get(replyIDKey)
		reply := c.srv.handle(c, f.Children[0])
		envelope := wire.New(tagReply, replyIDKey, id)
		if reply != nil {
			envelope.Append(reply)
		}
		if err := c.Send(envelope); err != nil {
			c.log.Warn("reply send failed", zap.Error(err))
		}
	default:
		if reply := c.srv.handle(c, f); reply != nil {
			if err := c.Send(reply); err != nil {
				c.log.Warn("push send failed", zap.Error(err))
			}
		}
	}
}

func (c *Connection) String() string {
	name := "?"
	if c.player != nil {
		name = c.player.Name
	}
	return fmt.Sprintf("conn[%s %s]", c.ID, name)
}
