// Package signal is the websocket adapter for the room relay. It owns
// connection lifecycles and translates wire events into orchestrator calls.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/parthdv/huddle/internal/app/orch"
	"github.com/parthdv/huddle/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type WSController struct {
	Orch       *orch.Orchestrator
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewWSController(o *orch.Orchestrator, readLimit int64, pingPeriod time.Duration) *WSController {
	return &WSController{
		Orch:       o,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
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

func (c *wsConn) Close() {
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

// Handle upgrades the request and starts the connection's pumps. The client
// token minted by the router middleware doubles as the session id.
func (ctl *WSController) Handle(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	sess := core.NewMemberSession(conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.Bind(sid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}
