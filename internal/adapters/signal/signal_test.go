package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/voicerooms/internal/app"
	"github.com/dkeye/voicerooms/internal/app/orch"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := NewSignalWSController(o, opts)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ctrl.HandleSignal(ctx, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, o
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func dial(t *testing.T, srv *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	c := &wsClient{t: t, conn: conn}
	welcome := c.read()
	require.Equal(t, "welcome", welcome["type"])
	c.id = welcome["id"].(string)
	return c
}

func (c *wsClient) send(raw string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func (c *wsClient) readRaw() []byte {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := c.conn.ReadMessage()
	require.NoError(c.t, err)
	return data
}

func (c *wsClient) read() map[string]any {
	c.t.Helper()
	var m map[string]any
	require.NoError(c.t, json.Unmarshal(c.readRaw(), &m))
	return m
}

// readType skips frames until one of type typ arrives.
func (c *wsClient) readType(typ string) map[string]any {
	c.t.Helper()
	for i := 0; i < 10; i++ {
		m := c.read()
		if m["type"] == typ {
			return m
		}
	}
	c.t.Fatalf("no %q frame received", typ)
	return nil
}

func TestSignalingSession(t *testing.T) {
	srv, o := newTestServer(t, DefaultOptions())
	alice := dial(t, srv)
	bob := dial(t, srv)
	assert.NotEqual(t, alice.id, bob.id)

	alice.send(`{"type":"join-room","roomId":"lobby","username":"alice"}`)
	ev := alice.readType("user-joined")
	assert.Len(t, ev["users"], 1)

	bob.send(`{"type":"join-room","roomId":"lobby","username":"bob"}`)
	ev = alice.readType("user-joined")
	assert.Len(t, ev["users"], 2)
	bob.readType("user-joined")

	payload := `{"type":"offer","sdp":"v=0\r\n"}`
	bob.send(`{"type":"offer","to":"` + alice.id + `","payload":` + payload + `}`)
	raw := alice.readRaw()
	assert.Contains(t, string(raw), `"payload":`+payload)
	assert.Contains(t, string(raw), `"from":"`+bob.id+`"`)

	alice.send(`{"type":"start-sharing"}`)
	ev = bob.readType("user-started-sharing")
	assert.Equal(t, alice.id, ev["userId"])

	bob.send(`{"type":"start-sharing"}`)
	ev = bob.readType("error")
	assert.Equal(t, "Someone is already sharing in this room", ev["message"])

	require.NoError(t, alice.conn.Close())
	assert.Equal(t, "user-stopped-sharing", bob.read()["type"])
	ev = bob.read()
	assert.Equal(t, "user-left", ev["type"])
	assert.Equal(t, true, ev["wasSharing"])

	require.Eventually(t, func() bool { return o.Registry.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestControlMessages(t *testing.T) {
	srv, _ := newTestServer(t, DefaultOptions())
	c := dial(t, srv)

	c.send(`{"type":"ping"}`)
	assert.Equal(t, "pong", c.read()["type"])

	c.send(`{"type":"whoami"}`)
	ev := c.read()
	assert.Equal(t, "whoami", ev["type"])
	assert.Equal(t, c.id, ev["id"])

	c.send(`{"type":"get-live-rooms"}`)
	ev = c.read()
	assert.Equal(t, "live-rooms", ev["type"])
	assert.Empty(t, ev["rooms"])
}

func TestBadInputGetsErrorAndKeepsConnection(t *testing.T) {
	srv, _ := newTestServer(t, DefaultOptions())
	c := dial(t, srv)

	c.send(`{{{`)
	ev := c.read()
	assert.Equal(t, "error", ev["type"])
	assert.Equal(t, "Invalid request", ev["message"])

	c.send(`{"type":"teleport"}`)
	assert.Equal(t, "error", c.read()["type"])

	c.send(`{"type":"leave-room"}`)
	assert.Equal(t, "You must join a room first", c.read()["message"])

	c.send(`{"type":"join-room","roomId":"lobby","username":"  "}`)
	assert.Equal(t, "Username is required", c.read()["message"])

	c.send(`{"type":"answer","to":"nobody","payload":{}}`)
	assert.Equal(t, "Target peer is not connected", c.read()["message"])

	c.send(`{"type":"ping"}`)
	assert.Equal(t, "pong", c.read()["type"])
}

func TestRateLimitExceeded(t *testing.T) {
	opts := DefaultOptions()
	opts.RatePerSecond = 0.01
	opts.RateBurst = 1
	srv, _ := newTestServer(t, opts)
	c := dial(t, srv)

	c.send(`{"type":"ping"}`)
	c.send(`{"type":"ping"}`)
	assert.Equal(t, "pong", c.read()["type"])
	ev := c.read()
	assert.Equal(t, "error", ev["type"])
	assert.Equal(t, "Rate limit exceeded", ev["message"])
}

func TestCheckOrigin(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowedOrigins = []string{"https://rooms.example.com"}
	ctl := NewSignalWSController(nil, opts)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://rooms.example.com")
	assert.True(t, ctl.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, ctl.checkOrigin(req))

	open := NewSignalWSController(nil, DefaultOptions())
	assert.True(t, open.checkOrigin(req))
}
