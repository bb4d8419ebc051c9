package orch

import (
	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
	"github.com/rs/zerolog/log"
)

// OnDisconnect runs after every message the connection sent before it went away.
func (o *Orchestrator) OnDisconnect(conn core.ConnID) {
	o.departRoom(conn)
	o.Registry.Unbind(conn)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Msg("disconnected")
}

// handleLeaveRoom leaves the room but keeps the socket open.
func (o *Orchestrator) handleLeaveRoom(conn core.ConnID) {
	o.departRoom(conn)
	o.sendTo(conn, core.ControlMsg{Type: core.EventLeft})
}

// departRoom removes conn from its room and notifies the rest. Peers are told
// to tear down media before the roster shrinks, so voice-leave always goes first.
func (o *Orchestrator) departRoom(conn core.ConnID) (domain.RoomID, bool) {
	room, ok := o.Registry.RoomOf(conn)
	if !ok {
		return "", false
	}
	m, _ := o.Rooms.Member(room, conn)
	if _, ok := o.Rooms.Leave(conn); !ok {
		return "", false
	}

	o.broadcastRoom(room, core.VoicePresenceMsg{Type: core.EventVoiceLeave, ConnectionID: conn})
	o.broadcastRoom(room, core.UserListMsg{Type: core.EventUserList, Users: o.Rooms.ListMembers(room)})
	o.broadcastRoom(room, core.PresenceMsg{Type: core.EventUserLeft, DisplayName: m.DisplayName})
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Str("name", m.DisplayName).Msg("left room")
	return room, true
}

// memberRoom resolves the room and checks that conn belongs to it.
func (o *Orchestrator) memberRoom(conn core.ConnID, named domain.RoomID) (domain.RoomID, bool) {
	room, ok := o.roomFor(conn, named)
	if !ok {
		return "", false
	}
	if _, ok := o.Rooms.Member(room, conn); !ok {
		return "", false
	}
	return room, true
}
