package orch

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/CodeCurrent/internal/app"
	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
)

// recConn records every frame the hub hands to a connection.
type recConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
}

func (c *recConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recConn) Close() {}

func (c *recConn) messages() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		_ = json.Unmarshal(f, &m)
		out = append(out, m)
	}
	return out
}

func (c *recConn) types() []string {
	var out []string
	for _, m := range c.messages() {
		out = append(out, m["type"].(string))
	}
	return out
}

func (c *recConn) last(msgType string) map[string]any {
	msgs := c.messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i]["type"] == msgType {
			return msgs[i]
		}
	}
	return nil
}

func (c *recConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

var testSeed = domain.DefaultFile{Name: "main.js", Content: "// Welcome...\n"}

func newTestHub() *Orchestrator {
	reg := app.NewRegistry()
	o := New(reg, app.NewRoomStore(reg, testSeed), app.DropPolicy{}, 16)
	o.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return o
}

func connect(o *Orchestrator, id core.ConnID) *recConn {
	c := &recConn{}
	o.Registry.Bind(id, c, nil, "")
	return c
}

func send(t *testing.T, o *Orchestrator, id core.ConnID, msg map[string]any) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	o.Handle(id, msg["type"].(string), data)
}

func join(t *testing.T, o *Orchestrator, id core.ConnID, room, name string) *recConn {
	t.Helper()
	c := connect(o, id)
	send(t, o, id, map[string]any{"type": "join-room", "roomId": room, "displayName": name})
	return c
}

func equalTypes(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
