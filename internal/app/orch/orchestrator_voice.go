package orch

import (
	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/rs/zerolog/log"
)

// handleVoiceJoin tells only the joiner who is already in voice; the joiner
// then offers to each of them while everyone else just learns about it.
func (o *Orchestrator) handleVoiceJoin(conn core.ConnID, data []byte) {
	var p core.VoicePayload
	if !decode(conn, core.EventVoiceJoin, data, &p) {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	if !o.Rooms.SetVoice(room, conn, true) {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Msg("voice-join: not a member")
		return
	}

	others := make([]core.ConnID, 0)
	for _, id := range o.Rooms.VoiceMembers(room) {
		if id != conn {
			others = append(others, id)
		}
	}
	o.sendTo(conn, core.VoiceUserListMsg{Type: core.EventVoiceUserList, SocketIDs: others})

	m, _ := o.Rooms.Member(room, conn)
	o.broadcastFrom(room, conn, core.VoicePresenceMsg{
		Type:         core.EventVoiceJoin,
		ConnectionID: conn,
		DisplayName:  m.DisplayName,
	})
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Int("peers", len(others)).Msg("voice join")
}

func (o *Orchestrator) handleVoiceLeave(conn core.ConnID, data []byte) {
	var p core.VoicePayload
	if !decode(conn, core.EventVoiceLeave, data, &p) {
		return
	}
	room, ok := o.roomFor(conn, p.RoomID)
	if !ok {
		return
	}
	if !o.Rooms.SetVoice(room, conn, false) {
		return
	}
	o.broadcastFrom(room, conn, core.VoicePresenceMsg{Type: core.EventVoiceLeave, ConnectionID: conn})
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Msg("voice leave")
}

// handlePeerSignal forwards offer/answer/ICE verbatim to one target. SDP and
// candidates are never inspected; an absent target drops the message.
func (o *Orchestrator) handlePeerSignal(conn core.ConnID, msgType string, data []byte) {
	var p core.SignalPayload
	if !decode(conn, msgType, data, &p) {
		return
	}
	if p.To == "" {
		log.Warn().Str("module", "orch").Str("conn", string(conn)).Str("type", msgType).Msg("signal without target")
		return
	}
	sent := o.sendTo(p.To, core.SignalMsg{
		Type:      msgType,
		From:      conn,
		Offer:     p.Offer,
		Answer:    p.Answer,
		Candidate: p.Candidate,
	})
	if !sent {
		log.Debug().Str("module", "orch").Str("from", string(conn)).Str("to", string(p.To)).Str("type", msgType).Msg("signal dropped")
	}
}

// Mute and speaking are relayed only; speaking flips many times per second.
func (o *Orchestrator) handleVoiceMute(conn core.ConnID, data []byte) {
	var p core.MutePayload
	if !decode(conn, core.EventVoiceMute, data, &p) {
		return
	}
	room, ok := o.memberRoom(conn, p.RoomID)
	if !ok {
		return
	}
	o.broadcastFrom(room, conn, core.MuteMsg{Type: core.EventVoiceMute, ConnectionID: conn, Muted: p.Muted})
}

func (o *Orchestrator) handleVoiceSpeaking(conn core.ConnID, data []byte) {
	var p core.SpeakingPayload
	if !decode(conn, core.EventVoiceSpeaking, data, &p) {
		return
	}
	room, ok := o.memberRoom(conn, p.RoomID)
	if !ok {
		return
	}
	o.broadcastFrom(room, conn, core.SpeakingMsg{Type: core.EventVoiceSpeaking, ConnectionID: conn, Speaking: p.Speaking})
}
