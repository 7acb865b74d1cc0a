// Package signal is the websocket adapter: it owns connections, decodes
// inbound messages, routes them to the app layer, and composes every
// outbound wire message.
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

	"github.com/craftvoice/relay/internal/app"
	"github.com/craftvoice/relay/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Controller dispatches every inbound protocol message to exactly one
// handler and fans resulting messages out to affected connections.
type Controller struct {
	Relay      *app.Relay
	Moderation *app.Moderation
	Router     core.ProximityRouter
	Translator core.Translator
	TTS        core.Synthesizer
	Addon      core.AddonBridge

	ReadLimit  int64
	PingPeriod time.Duration
}

// WsConn wraps a websocket connection with a buffered outbound queue.
// TrySend never blocks; a full queue surfaces as ErrBackpressure and
// the frame is dropped for that recipient only.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
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

func (c *WsConn) Close() {
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

// HandleSignal upgrades the request and starts the connection's pumps.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	cid := core.ClientID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Relay.Registry.BindConn(cid, conn, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}
