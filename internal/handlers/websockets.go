package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"cube_navigator/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// wsEnvelope frames every message on /ws.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsState is the payload of a "state" message: the persisted state plus
// whether the navigator is running a procedure right now.
type wsState struct {
	models.RobotState
	Busy bool `json:"busy"`
}

var upgrader = websocket.Upgrader{
	// Clients authenticate with a token, not cookies, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stateStream pushes robot state to one client. A state is sent when it
// differs from the last one sent; pings keep idle connections alive.
type stateStream struct {
	h        *Handler
	conn     *websocket.Conn
	interval time.Duration
	last     wsState
	sent     bool
}

// @Summary      Stream robot state
// @Description  Upgrades to a WebSocket and pushes {"type":"state","data":...} whenever the state or busy flag changes. Browsers pass the token as access_token.
// @Tags         robot
// @Param        interval      query  string  false  "Poll interval, Go duration up to 10s"  example(200ms)
// @Param        interval_ms   query  int     false  "Poll interval in milliseconds"
// @Param        access_token  query  string  false  "Bearer token when headers cannot be set"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &stateStream{h: h, conn: conn, interval: interval}
	if err := s.run(c.Request.Context()); err != nil && h.log != nil {
		h.log.Infow("ws_stream_closed", "err", err)
	}
}

func (s *stateStream) run(ctx context.Context) error {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan error, 1)
	go func() {
		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				closed <- err
				return
			}
		}
	}()

	if err := s.push(ctx); err != nil {
		return err
	}

	poll := time.NewTicker(s.interval)
	defer poll.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case err := <-closed:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-poll.C:
			if err := s.push(ctx); err != nil {
				return err
			}
		}
	}
}

// push sends the current state unless the client already has it.
func (s *stateStream) push(ctx context.Context) error {
	st, err := s.h.services.Monitoring.GetState(ctx)
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_get_state_failed", "err", err)
		}
		return err
	}
	msg := wsState{RobotState: st}
	if s.h.services.Navigator != nil {
		msg.Busy = s.h.services.Navigator.Busy()
	}
	if s.sent && msg == s.last {
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(wsEnvelope{Type: "state", Data: msg}); err != nil {
		return err
	}
	s.last, s.sent = msg, true
	return nil
}

// parseInterval reads ?interval=2s or ?interval_ms=2000. Out-of-range or
// malformed values fall back to the default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}
