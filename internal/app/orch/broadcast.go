package orch

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/CodeCurrent/internal/app"
	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
	"github.com/rs/zerolog/log"
)

func encode(v any) core.Frame {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode outbound")
		return nil
	}
	return b
}

// sendTo delivers to a single connection; a vanished target is silently skipped.
func (o *Orchestrator) sendTo(conn core.ConnID, v any) bool {
	f := encode(v)
	if f == nil {
		return false
	}
	sc, ok := o.Registry.Conn(conn)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("send: connection gone")
		return false
	}
	if err := sc.TrySend(f); err != nil {
		room, _ := o.Registry.RoomOf(conn)
		o.onSendError(room, conn, err)
		return false
	}
	return true
}

// broadcastRoom reaches every current member of the room.
func (o *Orchestrator) broadcastRoom(room domain.RoomID, v any) core.PublishResult {
	return o.publish(room, "", v)
}

// broadcastFrom reaches every current member except the sender.
func (o *Orchestrator) broadcastFrom(room domain.RoomID, from core.ConnID, v any) core.PublishResult {
	return o.publish(room, from, v)
}

func (o *Orchestrator) publish(room domain.RoomID, except core.ConnID, v any) core.PublishResult {
	res := core.PublishResult{}
	f := encode(v)
	if f == nil {
		return res
	}
	for _, m := range o.Rooms.ListMembers(room) {
		if m.ConnectionID == except {
			continue
		}
		sc, ok := o.Registry.Conn(m.ConnectionID)
		if !ok {
			continue
		}
		if err := sc.TrySend(f); err != nil {
			res.Dropped = append(res.Dropped, m.ConnectionID)
			o.onSendError(room, m.ConnectionID, err)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "orch").Str("room", string(room)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (o *Orchestrator) onSendError(room domain.RoomID, conn core.ConnID, err error) {
	if !errors.Is(err, core.ErrBackpressure) {
		log.Debug().Err(err).Str("module", "orch").Str("conn", string(conn)).Msg("send failed")
		return
	}
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(room, conn) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("room", string(room)).Str("conn", string(conn)).Msg("slow consumer kicked")
		o.Registry.Cancel(conn)
	case app.DropFrame, app.NoAction:
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("frame dropped on backpressure")
	}
}

// roomFor prefers the room named in the payload and falls back to the sender's room.
func (o *Orchestrator) roomFor(conn core.ConnID, named domain.RoomID) (domain.RoomID, bool) {
	if named != "" {
		return named, true
	}
	return o.Registry.RoomOf(conn)
}

func decode(conn core.ConnID, msgType string, data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(conn)).Str("type", msgType).Msg("bad payload")
		return false
	}
	return true
}
