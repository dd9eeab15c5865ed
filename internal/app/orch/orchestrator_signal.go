package orch

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay forwards an offer, answer or ICE candidate to its target. The
// payload bytes reach the target unchanged; nothing else is touched.
func (o *Orchestrator) Relay(from core.SessionID, msg domain.Signal) error {
	if !domain.IsSignal(msg.Kind) {
		return domain.ErrUnknownMessage
	}
	if msg.To == "" || !msg.HasPayload() {
		return fmt.Errorf("%w: payload and to are required", domain.ErrValidation)
	}

	to := core.SessionID(msg.To)
	conn, ok := o.Registry.GetConnection(to)
	if !ok {
		log.Debug().Str("module", "orch.signal").Str("from", string(from)).Str("to", msg.To).Str("kind", string(msg.Kind)).Msg("target not connected")
		return domain.ErrTargetUnreachable
	}
	frame, err := encodeSignal(msg.Kind, from.UserID(), msg.Payload)
	if err != nil {
		return err
	}
	if !o.deliver(to, conn, frame, msg.Kind) {
		return domain.ErrTargetUnreachable
	}
	log.Debug().Str("module", "orch.signal").Str("from", string(from)).Str("to", msg.To).Str("kind", string(msg.Kind)).Int("bytes", len(msg.Payload)).Msg("relayed")
	return nil
}

// encodeSignal builds {"type":..,"from":..,"payload":<raw>} without
// re-encoding the payload.
func encodeSignal(kind domain.MessageType, from domain.UserID, payload json.RawMessage) (core.Frame, error) {
	head, err := json.Marshal(struct {
		Type domain.MessageType `json:"type"`
		From domain.UserID      `json:"from"`
	}{kind, from})
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(head)+len(payload)+12)
	frame = append(frame, head[:len(head)-1]...)
	frame = append(frame, `,"payload":`...)
	frame = append(frame, payload...)
	frame = append(frame, '}')
	return frame, nil
}
