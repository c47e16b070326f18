package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cube_navigator/internal/models"
	"cube_navigator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := map[string]time.Duration{
		"/ws":                              defaultInterval,
		"/ws?interval=200ms":               200 * time.Millisecond,
		"/ws?interval_ms=150":              150 * time.Millisecond,
		"/ws?interval=20s":                 defaultInterval,
		"/ws?interval=-1s":                 defaultInterval,
		"/ws?interval_ms=20000":            defaultInterval,
		"/ws?interval_ms=NaN":              defaultInterval,
		"/ws?interval=2s&interval_ms=150":  2 * time.Second,
		"/ws?interval=nope&interval_ms=25": 25 * time.Millisecond,
	}
	for target, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		if got := h.parseInterval(c); got != want {
			t.Errorf("%s: got %v, want %v", target, got, want)
		}
	}
}

type wsMessage struct {
	Type string `json:"type"`
	Data struct {
		models.RobotState
		Busy bool `json:"busy"`
	} `json:"data"`
}

// dialState starts the full router and opens /ws with the token in the query.
func dialState(t *testing.T, s *service.Service, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(s))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query
	conn, _, err := (&websocket.Dialer{HandshakeTimeout: 2 * time.Second}).Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn, within time.Duration) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(within))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "state" {
		t.Fatalf("type %q, want state", msg.Type)
	}
	return msg
}

func TestWebSocket_SendsOnlyChanges(t *testing.T) {
	mon := &mockMonitoring{state: models.RobotState{ID: 1, X: 120, Y: -30, HeadingDeg: 45, CubeKnown: true, CubeX: 300}}
	s := &service.Service{Authorization: viewerAuth(5), Monitoring: mon, Navigator: &mockNavigator{busy: true}}
	conn := dialState(t, s, "access_token=t&interval_ms=10")

	first := readState(t, conn, time.Second)
	if first.Data.X != 120 || first.Data.Y != -30 || first.Data.HeadingDeg != 45 || !first.Data.CubeKnown || first.Data.CubeX != 300 || !first.Data.Busy {
		t.Fatalf("unexpected first state: %+v", first.Data)
	}

	// Let several unchanged polls pass; none of them may reach the client,
	// so the next message read must already be the update.
	deadline := time.Now().Add(time.Second)
	for mon.readCount() < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	mon.set(models.RobotState{ID: 1, X: 200, HeadingDeg: 90, IsMoving: true})
	next := readState(t, conn, time.Second)
	if next.Data.X != 200 || !next.Data.IsMoving {
		t.Fatalf("update not streamed: %+v", next.Data)
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	s := &service.Service{Authorization: operatorAuth(1), Monitoring: &mockMonitoring{}}
	srv := httptest.NewServer(newTestRouter(s))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial without token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 handshake response, got %+v", resp)
	}
}

func TestWebSocket_InitialGetStateErrorCloses(t *testing.T) {
	s := &service.Service{Authorization: operatorAuth(1), Monitoring: &mockMonitoring{err: errors.New("boom")}}
	conn := dialState(t, s, "access_token=t")

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected closed connection, got %s", raw)
	}
}
