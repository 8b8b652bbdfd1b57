// Package signal is the WebSocket face of the engine: one connection per
// user, JSON envelopes in, notification frames out.
package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/peerview/internal/app/orch"
	"github.com/dkeye/peerview/internal/core"
	"github.com/dkeye/peerview/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Config struct {
	ReadLimit   int64
	PingPeriod  time.Duration
	SendBuffer  int
	SignalRate  float64
	SignalBurst int
	ICEServers  []webrtc.ICEServer
}

func (c Config) withDefaults() Config {
	if c.ReadLimit <= 0 {
		c.ReadLimit = 32 << 10
	}
	if c.PingPeriod <= 0 {
		c.PingPeriod = 54 * time.Second
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 32
	}
	if c.SignalRate <= 0 {
		c.SignalRate = 20
	}
	if c.SignalBurst <= 0 {
		c.SignalBurst = 40
	}
	return c
}

type SignalWSController struct {
	Orch *orch.Orchestrator
	cfg  Config
}

func NewSignalWSController(o *orch.Orchestrator, cfg Config) *SignalWSController {
	return &SignalWSController{
		Orch: o,
		cfg:  cfg.withDefaults(),
	}
}

// WsSignalConn is the core.Channel of one WebSocket. Sends never block: a
// full buffer reports core.ErrBackpressure.
type WsSignalConn struct {
	conn    *websocket.Conn
	send    chan core.Frame
	uid     domain.UserID
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrChannelClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
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

// HandleSignal upgrades the request and binds the socket to uid. The caller
// has already authenticated uid.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context, uid domain.UserID) {
	log.Info().Str("module", "signal").Str("user", string(uid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &WsSignalConn{
		conn:    ws,
		send:    make(chan core.Frame, ctl.cfg.SendBuffer),
		uid:     uid,
		limiter: rate.NewLimiter(rate.Limit(ctl.cfg.SignalRate), ctl.cfg.SignalBurst),
	}
	ctl.Orch.Connect(uid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
