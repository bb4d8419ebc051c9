package orch

import (
	"encoding/json"
	"time"

	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) handleJoin(conn core.ConnID, data []byte) {
	var p core.JoinPayload
	if !decode(conn, core.EventJoinRoom, data, &p) {
		return
	}
	if err := p.RoomID.Validate(); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(conn)).Msg("join dropped")
		return
	}
	name := p.DisplayName
	if name == "" {
		name = p.Username
	}
	if name == "" {
		name = o.Registry.PreferredName(conn)
	}

	if prev, ok := o.Registry.RoomOf(conn); ok && prev != p.RoomID {
		o.departRoom(conn)
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("from_room", string(prev)).Msg("moved out of room")
	}

	res := o.Rooms.JoinRoom(conn, p.RoomID, name)
	if res.WasInVoice {
		o.broadcastFrom(p.RoomID, conn, core.VoicePresenceMsg{Type: core.EventVoiceLeave, ConnectionID: conn})
	}
	member, _ := o.Rooms.Member(p.RoomID, conn)

	o.sendTo(conn, core.SyncCodeMsg{
		Type:         core.EventSyncCode,
		ConnectionID: conn,
		Color:        res.Color,
		Files:        res.Files,
	})
	o.broadcastRoom(p.RoomID, core.UserListMsg{Type: core.EventUserList, Users: o.Rooms.ListMembers(p.RoomID)})
	o.broadcastFrom(p.RoomID, conn, core.PresenceMsg{
		Type:        core.EventUserJoined,
		DisplayName: member.DisplayName,
		Color:       member.Color,
	})
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(p.RoomID)).Msg("join")
}

func (o *Orchestrator) handleCodeChange(conn core.ConnID, data []byte) {
	var p core.CodeChangePayload
	if !decode(conn, core.EventCodeChange, data, &p) {
		return
	}
	if p.Filename.Validate() != nil {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	o.Rooms.MutateFile(room, p.Filename, p.Content)
	o.broadcastFrom(room, conn, core.CodeChangeMsg{Type: core.EventCodeChange, Filename: p.Filename, Content: p.Content})
}

// Cursor positions are relayed only; nothing is retained.
func (o *Orchestrator) handleCursorMove(conn core.ConnID, data []byte) {
	var p core.CursorPayload
	if !decode(conn, core.EventCursorMove, data, &p) {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	m, ok := o.Rooms.Member(room, conn)
	if !ok {
		return
	}
	o.broadcastFrom(room, conn, core.CursorMsg{
		Type:         core.EventCursorMove,
		ConnectionID: conn,
		Position:     p.Position,
		DisplayName:  m.DisplayName,
		Color:        m.Color,
	})
}

func (o *Orchestrator) handleFileCreate(conn core.ConnID, data []byte) {
	var p core.FilePayload
	if !decode(conn, core.EventFileCreate, data, &p) || p.Filename.Validate() != nil {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	o.Rooms.CreateFile(room, p.Filename)
	o.broadcastRoom(room, core.FileMsg{Type: core.EventFileCreate, Filename: p.Filename})
}

func (o *Orchestrator) handleFileDelete(conn core.ConnID, data []byte) {
	var p core.FilePayload
	if !decode(conn, core.EventFileDelete, data, &p) || p.Filename.Validate() != nil {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	o.Rooms.DeleteFile(room, p.Filename)
	o.broadcastRoom(room, core.FileMsg{Type: core.EventFileDelete, Filename: p.Filename})
}

func (o *Orchestrator) handleFileRename(conn core.ConnID, data []byte) {
	var p core.RenamePayload
	if !decode(conn, core.EventFileRename, data, &p) {
		return
	}
	if p.OldName.Validate() != nil || p.NewName.Validate() != nil {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	o.Rooms.RenameFile(room, p.OldName, p.NewName)
	o.broadcastRoom(room, core.RenameMsg{Type: core.EventFileRename, OldName: p.OldName, NewName: p.NewName})
}

// Chat is fire-and-forget; the server keeps no history.
func (o *Orchestrator) handleChat(conn core.ConnID, data []byte) {
	var p core.ChatPayload
	if !decode(conn, core.EventChatMessage, data, &p) {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	m, ok := o.Rooms.Member(room, conn)
	if !ok {
		return
	}
	ts := p.Timestamp
	if len(ts) == 0 || string(ts) == "null" {
		ts, _ = json.Marshal(o.now().UTC().Format(time.RFC3339))
	}
	o.broadcastRoom(room, core.ChatMsg{
		Type:        core.EventChatMessage,
		DisplayName: m.DisplayName,
		Text:        p.Text,
		Timestamp:   ts,
	})
}

func (o *Orchestrator) handleWhoAmI(conn core.ConnID) {
	resp := core.WhoAmIMsg{
		Type:         core.EventWhoAmI,
		ConnectionID: conn,
		DisplayName:  o.Registry.PreferredName(conn),
	}
	if room, ok := o.Registry.RoomOf(conn); ok {
		resp.RoomID = room
		if m, ok := o.Rooms.Member(room, conn); ok {
			resp.DisplayName = m.DisplayName
		}
	}
	o.sendTo(conn, resp)
}
