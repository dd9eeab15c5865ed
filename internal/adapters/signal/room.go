package signal

import (
	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleGetLiveRooms(sid core.SessionID) {
	log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("get live rooms")
	ctl.Orch.GetLiveRooms(sid)
}

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	p domain.JoinRoom,
) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Str("name", p.Username).Msg("join")
	if err := ctl.Orch.Join(sid, p.RoomID, p.Username); err != nil {
		ctl.replyError(sid, conn, err)
	}
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	if err := ctl.Orch.LeaveRoom(sid); err != nil {
		ctl.replyError(sid, conn, err)
	}
}

func (ctl *SignalWSController) handleStartSharing(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	if err := ctl.Orch.StartSharing(sid); err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("start sharing rejected")
		ctl.replyError(sid, conn, err)
	}
}

func (ctl *SignalWSController) handleStopSharing(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	if err := ctl.Orch.StopSharing(sid); err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("stop sharing rejected")
		ctl.replyError(sid, conn, err)
	}
}
