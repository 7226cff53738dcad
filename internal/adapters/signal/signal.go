package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Dragon57t/GAME-ART/internal/app"
	"github.com/Dragon57t/GAME-ART/internal/app/orch"
	"github.com/Dragon57t/GAME-ART/internal/core"
	"github.com/Dragon57t/GAME-ART/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Envelope is the typed message wrapper used in both directions.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type handlerFunc func(conn domain.ConnID, c *WsSignalConn, payload json.RawMessage)

type Options struct {
	ReadLimit   int64
	PingPeriod  time.Duration
	MatchRate   int
	MatchWindow time.Duration
}

type SignalWSController struct {
	Orch *orch.Orchestrator
	Auth app.Authenticator

	opts     Options
	limiter  *ConnRateLimiter
	handlers map[string]handlerFunc
}

func NewSignalWSController(o *orch.Orchestrator, auth app.Authenticator, opts Options) *SignalWSController {
	ctl := &SignalWSController{
		Orch:    o,
		Auth:    auth,
		opts:    opts,
		limiter: NewConnRateLimiter(opts.MatchRate, opts.MatchWindow),
	}
	// Explicit dispatch table: what a handler may touch arrives as
	// parameters, never as closure capture.
	ctl.handlers = map[string]handlerFunc{
		"request_match":      ctl.handleRequestMatch,
		"cancel_search":      ctl.handleCancelSearch,
		"leave":              ctl.handleLeave,
		"draw_op":            ctl.handleDrawOp,
		"frame_add":          ctl.handleFrameAdd,
		"frame_update":       ctl.handleFrameUpdate,
		"frame_delete":       ctl.handleFrameDelete,
		"frame_reorder":      ctl.handleFrameReorder,
		"playback_play":      ctl.handlePlay,
		"playback_pause":     ctl.handlePause,
		"playback_set_frame": ctl.handleSetFrame,
		"playback_set_fps":   ctl.handleSetFPS,
		"snapshot_update":    ctl.handleSnapshotUpdate,
		"snapshot_request":   ctl.handleSnapshotRequest,
		"ping":               ctl.handlePing,
	}
	return ctl
}

// WsSignalConn wraps one websocket with a buffered outbound channel.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection until the
// channel closes. Every socket gets a fresh opaque connection id; the
// client token only feeds identity resolution.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	connID := domain.ConnID(uuid.NewString())
	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.Bind(connID, conn, cancel)
	log.Info().Str("module", "signal").Str("conn", string(connID)).Msg("new WS connection")

	if token := c.GetString("client_token"); token != "" && ctl.Auth != nil {
		go ctl.resolveIdentity(ctx, connID, token)
	}

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, connID, conn)
}

func (ctl *SignalWSController) resolveIdentity(ctx context.Context, connID domain.ConnID, token string) {
	ident, err := ctl.Auth.Resolve(ctx, token)
	if err != nil {
		// Invalid tokens leave the connection anonymous, never fatal.
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("token resolve failed")
		return
	}
	ctl.Orch.Registry.SetIdentity(connID, *ident)
}

// handleMessage dispatches one inbound envelope. Malformed input and
// unknown kinds are dropped without a reply or termination.
func (ctl *SignalWSController) handleMessage(connID domain.ConnID, c *WsSignalConn, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad envelope")
		return
	}
	if env.Kind == "request_match" && !ctl.limiter.Allow(connID) {
		log.Warn().Str("module", "signal").Str("conn", string(connID)).Msg("match request rate limited")
		return
	}
	h, ok := ctl.handlers[env.Kind]
	if !ok {
		log.Warn().Str("module", "signal").Str("kind", env.Kind).Msg("unknown kind")
		return
	}
	h(connID, c, env.Payload)
}

// send pushes an event to the requester's own connection.
func (ctl *SignalWSController) send(c *WsSignalConn, kind string, v any) {
	b, err := encodeEvent(kind, v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("encode event")
		return
	}
	_ = c.TrySend(b)
}

// sendTo routes an event to another participant through the registry.
// Backpressure is referred to the relay policy.
func (ctl *SignalWSController) sendTo(id domain.ConnID, kind string, v any) {
	sig, ok := ctl.Orch.Registry.SignalOf(id)
	if !ok {
		return
	}
	b, err := encodeEvent(kind, v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("encode event")
		return
	}
	if err := sig.TrySend(b); errors.Is(err, ErrBackpressure) {
		switch ctl.Orch.Policy.OnBackPressure(id) {
		case app.KickPeer:
			ctl.Orch.Registry.Cancel(id)
		case app.DropMessage, app.NoAction:
			log.Debug().Str("module", "signal").Str("conn", string(id)).Str("kind", kind).Msg("dropped on backpressure")
		}
	}
}

func encodeEvent(kind string, v any) (core.Frame, error) {
	var (
		payload json.RawMessage
		err     error
	)
	if v != nil {
		payload, err = json.Marshal(v)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Kind: kind, Payload: payload})
}
