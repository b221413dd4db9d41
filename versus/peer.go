// Package versus is the networked versus boundary: two sessions exchange full
// board snapshots and opponent-targeted effects over a WebSocket.
package versus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/plus3/blockfall/effect"
	"github.com/plus3/blockfall/game"
)

var (
	// ErrClosed is returned by sends on a closed peer.
	ErrClosed = errors.New("versus: peer closed")
	// ErrQueueFull is returned when the outbound queue cannot take a message.
	ErrQueueFull = errors.New("versus: outbound queue full")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	handshakeWait  = 5 * time.Second
	maxMessageSize = 1 << 16
	outboundQueue  = 32
)

// Peer is one end of an established match.
type Peer struct {
	conn   *websocket.Conn
	match  uuid.UUID
	local  effect.PlayerID
	logger *log.Logger

	out       chan []byte
	quit      chan struct{}
	closeOnce sync.Once
	bound     atomic.Bool

	mu  sync.Mutex
	err error
}

func newPeer(conn *websocket.Conn, match uuid.UUID, local effect.PlayerID, logger *log.Logger) *Peer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p := &Peer{
		conn:   conn,
		match:  match,
		local:  local,
		logger: logger,
		out:    make(chan []byte, outboundQueue),
		quit:   make(chan struct{}),
	}
	go p.writePump()
	return p
}

// Match is the id both sides agreed on.
func (p *Peer) Match() uuid.UUID { return p.match }

// Local is the player number this side controls.
func (p *Peer) Local() effect.PlayerID { return p.local }

// Done is closed once the peer is closed.
func (p *Peer) Done() <-chan struct{} { return p.quit }

// Err returns the error that ended the connection, if any.
func (p *Peer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close shuts the connection down. It is safe to call more than once.
func (p *Peer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.quit)
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = p.conn.Close()
	})
	return err
}

func (p *Peer) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.Close()
}

func (p *Peer) SendSnapshot(cells string) error {
	return p.send(MsgSnapshot, Snapshot{Cells: cells})
}

func (p *Peer) SendEffect(kind effect.Kind) error {
	return p.send(MsgEffect, Effect{Kind: kind.String()})
}

func (p *Peer) SendOver(loser effect.PlayerID) error {
	return p.send(MsgOver, Over{Loser: uint8(loser)})
}

func (p *Peer) send(t string, payload any) error {
	data, err := Encode(t, payload)
	if err != nil {
		return err
	}
	select {
	case <-p.quit:
		return ErrClosed
	default:
	}
	select {
	case p.out <- data:
		return nil
	case <-p.quit:
		return ErrClosed
	default:
		p.logger.Printf("[versus] dropped %s message: queue full", t)
		return ErrQueueFull
	}
}

func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case data := <-p.out:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				p.fail(fmt.Errorf("write: %w", err))
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.fail(fmt.Errorf("ping: %w", err))
				return
			}
		}
	}
}

// Bind connects the peer to a networked session: opponent-targeted effects
// are forwarded, received messages are posted onto the session goroutine and
// a SyncSystem streaming snapshots every interval is registered. A peer can
// be bound once.
func (p *Peer) Bind(s *game.Session, interval time.Duration) (*SyncSystem, error) {
	if s.Mode() != game.NetVersus {
		return nil, fmt.Errorf("versus: cannot bind a %s session", s.Mode())
	}
	if !p.bound.CompareAndSwap(false, true) {
		return nil, errors.New("versus: peer already bound")
	}

	s.SetForwarder(func(kind effect.Kind, target effect.PlayerID) bool {
		return p.SendEffect(kind) == nil
	})
	sys := &SyncSystem{Peer: p, Interval: interval}
	s.Register(sys)

	go p.readPump(s)
	return sys, nil
}

// Listener returns base with game-over reporting added: when the local
// player loses, the opponent is told.
func (p *Peer) Listener(base game.Listener) game.Listener {
	prev := base.OnGameOver
	base.OnGameOver = func(loser effect.PlayerID) {
		if loser == p.local {
			if err := p.SendOver(loser); err != nil {
				p.logger.Printf("[versus] game over not sent: %v", err)
			}
		}
		if prev != nil {
			prev(loser)
		}
	}
	return base
}

func (p *Peer) readPump(s *game.Session) {
	defer p.Close()

	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.quit:
			default:
				p.logger.Printf("[versus] read: %v", err)
				p.fail(fmt.Errorf("read: %w", err))
				s.Post(s.OpponentLost)
			}
			return
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
		p.dispatch(s, msg)
	}
}

func (p *Peer) dispatch(s *game.Session, msg []byte) {
	env, err := DecodeEnvelope(msg)
	if err != nil {
		p.logger.Printf("[versus] bad envelope: %v", err)
		return
	}

	switch env.T {
	case MsgSnapshot:
		snap, err := DecodePayload[Snapshot](env)
		if err != nil {
			p.logger.Printf("[versus] bad snapshot: %v", err)
			return
		}
		s.Post(func() { _ = s.ApplySnapshot(snap.Cells) })
	case MsgEffect:
		fx, err := DecodePayload[Effect](env)
		if err != nil {
			p.logger.Printf("[versus] bad effect: %v", err)
			return
		}
		kind, ok := effect.ParseKind(fx.Kind)
		if !ok {
			p.logger.Printf("[versus] unknown effect %q", fx.Kind)
			return
		}
		s.Post(func() { s.ApplyRemoteEffect(kind) })
	case MsgOver:
		s.Post(s.OpponentLost)
	default:
		p.logger.Printf("[versus] ignoring %q message", env.T)
	}
}

// Host accepts a single opponent for one match.
type Host struct {
	upgrader websocket.Upgrader
	match    uuid.UUID
	logger   *log.Logger
	taken    atomic.Bool
	peers    chan *Peer
}

// NewHost creates a host for a fresh match id.
func NewHost(logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Host{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		match:  uuid.New(),
		logger: logger,
		peers:  make(chan *Peer, 1),
	}
}

func (h *Host) Match() uuid.UUID { return h.match }

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.taken.Load() {
		http.Error(w, "match is full", http.StatusConflict)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Println("[versus] upgrade:", err)
		return
	}
	if !h.taken.CompareAndSwap(false, true) {
		conn.Close()
		return
	}

	if err := h.handshake(conn); err != nil {
		h.logger.Printf("[versus] handshake with %s failed: %v", r.RemoteAddr, err)
		conn.Close()
		h.taken.Store(false)
		return
	}
	h.logger.Printf("[versus] %s joined match %s", r.RemoteAddr, h.match)
	h.peers <- newPeer(conn, h.match, effect.Player1, h.logger)
}

func (h *Host) handshake(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(handshakeWait))
	hello, err := Encode(MsgHello, Hello{Match: h.match.String(), Player: uint8(effect.Player2), Version: ProtocolVersion})
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return err
	}

	reply, err := readHello(conn)
	if err != nil {
		return err
	}
	if reply.Match != h.match.String() {
		return fmt.Errorf("match mismatch: %s", reply.Match)
	}
	return nil
}

// Accept waits for the opponent to join.
func (h *Host) Accept(ctx context.Context) (*Peer, error) {
	select {
	case p := <-h.peers:
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dial joins the match hosted at url.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Peer, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	hello, err := readHello(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	match, err := uuid.Parse(hello.Match)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("bad match id: %w", err)
	}

	reply, err := Encode(MsgHello, Hello{Match: hello.Match, Player: hello.Player, Version: ProtocolVersion})
	if err != nil {
		conn.Close()
		return nil, err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(handshakeWait))
	if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
		conn.Close()
		return nil, err
	}
	return newPeer(conn, match, effect.PlayerID(hello.Player), logger), nil
}

func readHello(conn *websocket.Conn) (Hello, error) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	defer conn.SetReadDeadline(time.Time{})

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return Hello{}, fmt.Errorf("read hello: %w", err)
	}
	env, err := DecodeEnvelope(msg)
	if err != nil {
		return Hello{}, err
	}
	if env.T != MsgHello {
		return Hello{}, fmt.Errorf("expected hello, got %q", env.T)
	}
	hello, err := DecodePayload[Hello](env)
	if err != nil {
		return Hello{}, err
	}
	if hello.Version != ProtocolVersion {
		return Hello{}, fmt.Errorf("protocol version %d, want %d", hello.Version, ProtocolVersion)
	}
	if hello.Player != uint8(effect.Player1) && hello.Player != uint8(effect.Player2) {
		return Hello{}, fmt.Errorf("bad player %d", hello.Player)
	}
	return hello, nil
}
