package orch

import (
	"context"
	"time"

	"github.com/dkeye/CodeCurrent/internal/app"
	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/rs/zerolog/log"
)

type commandKind int

const (
	cmdMessage commandKind = iota
	cmdDisconnect
)

type command struct {
	kind    commandKind
	conn    core.ConnID
	msgType string
	data    []byte
}

// Orchestrator is the room hub. Every inbound message and disconnect goes
// through one channel consumed by Run, so room state is only mutated from a
// single goroutine and per-connection order is preserved.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomStore
	Policy   app.Policy

	// IdleTTL > 0 evicts rooms that stayed empty that long.
	IdleTTL       time.Duration
	SweepInterval time.Duration

	cmds chan command
	now  func() time.Time
}

func New(registry *app.Registry, rooms core.RoomStore, policy app.Policy, buffer int) *Orchestrator {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Orchestrator{
		Registry: registry,
		Rooms:    rooms,
		Policy:   policy,
		cmds:     make(chan command, buffer),
		now:      time.Now,
	}
}

// Submit enqueues one inbound frame. It blocks while the hub is saturated.
func (o *Orchestrator) Submit(ctx context.Context, conn core.ConnID, msgType string, data []byte) error {
	return o.enqueue(ctx, command{kind: cmdMessage, conn: conn, msgType: msgType, data: data})
}

// Disconnect is queued behind the connection's pending messages.
func (o *Orchestrator) Disconnect(ctx context.Context, conn core.ConnID) error {
	return o.enqueue(ctx, command{kind: cmdDisconnect, conn: conn})
}

func (o *Orchestrator) enqueue(ctx context.Context, cmd command) error {
	select {
	case o.cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) Run(ctx context.Context) error {
	var sweep <-chan time.Time
	if o.IdleTTL > 0 {
		interval := o.SweepInterval
		if interval <= 0 {
			interval = o.IdleTTL
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		sweep = ticker.C
	}

	log.Info().Str("module", "orch").Dur("idle_ttl", o.IdleTTL).Msg("hub loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("hub loop stopped")
			return nil
		case cmd := <-o.cmds:
			o.dispatch(cmd)
		case <-sweep:
			o.Rooms.EvictIdle(o.IdleTTL)
		}
	}
}

func (o *Orchestrator) dispatch(cmd command) {
	switch cmd.kind {
	case cmdMessage:
		o.Handle(cmd.conn, cmd.msgType, cmd.data)
	case cmdDisconnect:
		o.OnDisconnect(cmd.conn)
	}
}

// Handle applies one inbound event synchronously. Run calls it; tests may too.
func (o *Orchestrator) Handle(conn core.ConnID, msgType string, data []byte) {
	switch msgType {
	case core.EventJoin, core.EventJoinRoom:
		o.handleJoin(conn, data)
	case core.EventLeaveRoom:
		o.handleLeaveRoom(conn)
	case core.EventPing:
		o.sendTo(conn, core.ControlMsg{Type: core.EventPong})
	case core.EventWhoAmI:
		o.handleWhoAmI(conn)
	case core.EventCodeChange:
		o.handleCodeChange(conn, data)
	case core.EventCursorMove:
		o.handleCursorMove(conn, data)
	case core.EventFileCreate:
		o.handleFileCreate(conn, data)
	case core.EventFileDelete:
		o.handleFileDelete(conn, data)
	case core.EventFileRename:
		o.handleFileRename(conn, data)
	case core.EventChatMessage:
		o.handleChat(conn, data)
	case core.EventVoiceJoin:
		o.handleVoiceJoin(conn, data)
	case core.EventVoiceLeave:
		o.handleVoiceLeave(conn, data)
	case core.EventVoiceOffer, core.EventVoiceAnswer, core.EventVoiceICE:
		o.handlePeerSignal(conn, msgType, data)
	case core.EventVoiceMute:
		o.handleVoiceMute(conn, data)
	case core.EventVoiceSpeaking:
		o.handleVoiceSpeaking(conn, data)
	default:
		log.Warn().Str("module", "orch").Str("conn", string(conn)).Str("type", msgType).Msg("unknown event")
	}
}
