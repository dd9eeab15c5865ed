package signal

import (
	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleRelay passes an offer, answer or ICE candidate to its target.
// The payload is opaque here.
func (ctl *SignalWSController) handleRelay(
	sid core.SessionID,
	conn *WsSignalConn,
	m domain.Signal,
) {
	if err := ctl.Orch.Relay(sid, m); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("kind", string(m.Kind)).Str("to", m.To).Msg("relay failed")
		ctl.replyError(sid, conn, err)
	}
}
