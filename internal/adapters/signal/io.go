package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, id core.ConnID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		// Unblocks the read pump when we stop first.
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(id)).Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(ctl.opts.WriteWait))
			return
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("writePump set deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("ping failed")
				return
			}
		}
	}
}

// readPump owns the disconnect: whatever ends it, the hub hears about it
// exactly once and after every message read before.
func (ctl *SignalWSController) readPump(srvCtx context.Context, cancel context.CancelFunc, id core.ConnID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
		cancel()
		c.Close()
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(id)
		}
		if err := ctl.Orch.Disconnect(srvCtx, id); err != nil {
			log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("disconnect not delivered")
		}
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("readPump read error")
			}
			return
		}
		if err := ctl.handleFrame(srvCtx, id, data); err != nil {
			return
		}
	}
}

// handleFrame peeks at the envelope type and queues the frame for the hub.
// Only a hub shutdown is reported as an error.
func (ctl *SignalWSController) handleFrame(ctx context.Context, id core.ConnID, data []byte) error {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad json")
		return nil
	}
	if env.Type == core.EventChatMessage && ctl.Limiter != nil && !ctl.Limiter.Allow(id) {
		log.Debug().Str("module", "signal").Str("conn", string(id)).Msg("chat rate limited")
		return nil
	}
	return ctl.Orch.Submit(ctx, id, env.Type, data)
}
