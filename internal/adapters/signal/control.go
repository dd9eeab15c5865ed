package signal

import "github.com/dkeye/voicerooms/internal/domain"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	ctl.sendJSON(conn, domain.PongEvent{Type: domain.TypePong})
}
