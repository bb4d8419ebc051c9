package app

import (
	"context"
	"sync"

	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	RoomID domain.RoomID
	Conn   core.SignalConnection
	Cancel context.CancelFunc
	// PreferredName comes from the HTTP session and is used when a join omits a name.
	PreferredName string
}

// Registry is the Session Registry: connection id to transport handle and
// current room. It never closes adapter-owned resources.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.ConnID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.ConnID]*sessionEntry),
	}
}

func (r *Registry) Bind(id core.ConnID, conn core.SignalConnection, cancel context.CancelFunc, preferredName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{Conn: conn, Cancel: cancel, PreferredName: preferredName}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("bound connection")
}

func (r *Registry) Unbind(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbind connection")
}

// Conn returns the outbound handle, or false once the connection is gone.
func (r *Registry) Conn(id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok && e.Conn != nil {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) RoomOf(id core.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	if !ok || entry.RoomID == "" {
		return "", false
	}
	return entry.RoomID, true
}

// SetRoom records the room association, creating a transport-less entry
// when the connection was never bound.
func (r *Registry) SetRoom(id core.ConnID, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		entry = &sessionEntry{}
		r.sessions[id] = entry
	}
	entry.RoomID = room
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(room)).Msg("updated room")
}

func (r *Registry) RemoveRoom(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[id]; ok {
		entry.RoomID = ""
	}
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Msg("removed room association")
}

func (r *Registry) PreferredName(id core.ConnID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.PreferredName
	}
	return ""
}

// Cancel stops the connection's pumps; the adapter reports the disconnect.
func (r *Registry) Cancel(id core.ConnID) bool {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
