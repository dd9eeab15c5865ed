package app

import (
	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

func (a BackpressureAction) String() string {
	switch a {
	case KickMember:
		return "kick"
	case DropFrame:
		return "drop"
	default:
		return "none"
	}
}

// Policy decides what happens to a connection whose send queue is full.
type Policy interface {
	OnBackPressure(sid core.SessionID, kind domain.MessageType) BackpressureAction
}

// SimplePolicy kicks any connection that cannot keep up; the disconnect
// then runs the normal leave sequence.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(core.SessionID, domain.MessageType) BackpressureAction {
	return KickMember
}

// LenientPolicy only drops the frame.
type LenientPolicy struct{}

func (LenientPolicy) OnBackPressure(core.SessionID, domain.MessageType) BackpressureAction {
	return DropFrame
}
