package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed client input.
	ErrValidation        = errors.New("validation error")
	ErrDuplicateName     = errors.New("username is already taken in this room")
	ErrAlreadySharing    = errors.New("someone is already sharing in this room")
	ErrTargetUnreachable = errors.New("target peer is not connected")
	// ErrNotFound is returned when a room or user vanished, usually because
	// of a concurrent disconnect.
	ErrNotFound = errors.New("not found")

	ErrUsernameEmpty   = fmt.Errorf("%w: username empty", ErrValidation)
	ErrUsernameTooLong = fmt.Errorf("%w: username too long", ErrValidation)
	ErrRoomIDEmpty     = fmt.Errorf("%w: room id empty", ErrValidation)
	ErrRoomIDTooLong   = fmt.Errorf("%w: room id too long", ErrValidation)
	ErrNotInRoom       = fmt.Errorf("%w: not in a room", ErrValidation)
	ErrNotSharing      = fmt.Errorf("%w: not sharing", ErrValidation)
)

// PublicMessage is the text reported to the offending connection.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateName):
		return "Username is already taken in this room"
	case errors.Is(err, ErrAlreadySharing):
		return "Someone is already sharing in this room"
	case errors.Is(err, ErrTargetUnreachable):
		return "Target peer is not connected"
	case errors.Is(err, ErrNotInRoom):
		return "You must join a room first"
	case errors.Is(err, ErrNotSharing):
		return "You are not sharing"
	case errors.Is(err, ErrUsernameEmpty):
		return "Username is required"
	case errors.Is(err, ErrUsernameTooLong):
		return "Username is too long"
	case errors.Is(err, ErrRoomIDEmpty):
		return "Room id is required"
	case errors.Is(err, ErrRoomIDTooLong):
		return "Room id is too long"
	case errors.Is(err, ErrValidation):
		return "Invalid request"
	default:
		return "Internal error"
	}
}
