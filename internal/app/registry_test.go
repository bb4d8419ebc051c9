package app

import (
	"context"
	"testing"

	"github.com/dkeye/CodeCurrent/internal/core"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestRegistryBindAndRoom(t *testing.T) {
	r := NewRegistry()
	r.Bind("c1", nopConn{}, nil, "alice")

	if _, ok := r.RoomOf("c1"); ok {
		t.Error("Expected no room before join")
	}
	r.SetRoom("c1", "demo")
	if room, ok := r.RoomOf("c1"); !ok || room != "demo" {
		t.Errorf("Expected demo, got %q", room)
	}
	if r.PreferredName("c1") != "alice" {
		t.Errorf("Expected preferred name alice, got %q", r.PreferredName("c1"))
	}
	r.RemoveRoom("c1")
	if _, ok := r.RoomOf("c1"); ok {
		t.Error("Expected room association to be cleared")
	}
	if _, ok := r.Conn("c1"); !ok {
		t.Error("Expected connection to stay bound")
	}

	r.Unbind("c1")
	if _, ok := r.Conn("c1"); ok {
		t.Error("Expected connection to be gone after unbind")
	}
	if r.Count() != 0 {
		t.Errorf("Expected empty registry, got %d", r.Count())
	}
}

func TestRegistryCancel(t *testing.T) {
	r := NewRegistry()
	if r.Cancel("missing") {
		t.Error("Expected cancel of unknown connection to report false")
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.Bind("c1", nopConn{}, cancel, "")
	if !r.Cancel("c1") {
		t.Error("Expected cancel to report true")
	}
	if ctx.Err() == nil {
		t.Error("Expected connection context to be canceled")
	}
}

func TestRegistrySetRoomWithoutBind(t *testing.T) {
	r := NewRegistry()
	r.SetRoom("c1", "demo")
	if _, ok := r.Conn("c1"); ok {
		t.Error("Expected no transport for an unbound connection")
	}
	if room, _ := r.RoomOf("c1"); room != "demo" {
		t.Errorf("Expected demo, got %q", room)
	}
}
