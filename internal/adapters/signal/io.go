package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(ctl.opts.WriteWait))
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump is the single worker of one connection: every client message
// is handled here, in arrival order. A message being handled when the
// peer disconnects is finished before the leave sequence runs.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		ctl.limiter.Forget(sid)
		c.Close()
		cancel()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			if !ctl.limiter.Allow(sid) {
				log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("rate limited")
				ctl.sendJSON(c, domain.ErrorEvent{Type: domain.TypeError, Message: "Rate limit exceeded"})
				continue
			}
			ctl.handleSignal(sid, c, data)
		}
	}
}

// handleSignal is the one dispatch point for client messages.
func (ctl *SignalWSController) handleSignal(sid core.SessionID, c *WsSignalConn, data []byte) {
	msg, err := domain.DecodeClientMessage(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad message")
		ctl.replyError(sid, c, err)
		return
	}

	switch m := msg.(type) {
	case domain.GetLiveRooms:
		ctl.handleGetLiveRooms(sid)
	case domain.JoinRoom:
		ctl.handleJoin(sid, c, m)
	case domain.LeaveRoom:
		ctl.handleLeave(sid, c)
	case domain.StartSharing:
		ctl.handleStartSharing(sid, c)
	case domain.StopSharing:
		ctl.handleStopSharing(sid, c)
	case domain.Signal:
		ctl.handleRelay(sid, c, m)
	case domain.Ping:
		ctl.handlePing(c)
	case domain.WhoAmI:
		ctl.handleWhoAmI(sid)
	default:
		log.Warn().Str("module", "signal").Str("type", string(msg.Type())).Msg("unhandled signal")
	}
}

// replyError reports err to the offending connection only. Races with a
// disconnect (ErrNotFound) are logged and swallowed.
func (ctl *SignalWSController) replyError(sid core.SessionID, c *WsSignalConn, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("benign not found")
		return
	}
	ctl.sendJSON(c, domain.NewErrorEvent(err))
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
