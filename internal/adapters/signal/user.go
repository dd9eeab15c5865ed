package signal

import "github.com/dkeye/voicerooms/internal/core"

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID) {
	ctl.Orch.WhoAmI(sid)
}
