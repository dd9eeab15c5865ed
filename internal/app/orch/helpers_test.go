package orch

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/voicerooms/internal/app"
	"github.com/dkeye/voicerooms/internal/core"
	"github.com/stretchr/testify/require"
)

// fakeConn records every frame queued for one client.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, append([]byte(nil), f...))
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) setFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) raw() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.frames...)
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, f := range c.raw() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m), string(f))
		out = append(out, m)
	}
	return out
}

func (c *fakeConn) types(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, ev := range c.events(t) {
		out = append(out, ev["type"].(string))
	}
	return out
}

func (c *fakeConn) last(t *testing.T) map[string]any {
	t.Helper()
	evs := c.events(t)
	require.NotEmpty(t, evs)
	return evs[len(evs)-1]
}

type client struct {
	sid      core.SessionID
	conn     *fakeConn
	canceled bool
}

func newTestOrchestrator() *Orchestrator {
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
	}
}

func connect(o *Orchestrator) *client {
	c := &client{conn: &fakeConn{}}
	c.sid = o.OnConnect(c.conn, "", func() { c.canceled = true })
	return c
}

func usernames(t *testing.T, ev map[string]any) []string {
	t.Helper()
	users, ok := ev["users"].([]any)
	require.True(t, ok, "users missing in %v", ev)
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.(map[string]any)["username"].(string))
	}
	return out
}
