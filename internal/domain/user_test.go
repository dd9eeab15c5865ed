package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserTrimsName(t *testing.T) {
	u, err := NewUser("id-1", "  alice \t")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, UserID("id-1"), u.ID)
	assert.False(t, u.IsSharing)
	assert.Equal(t, "alice(id-1)", u.String())
}

func TestNormalizeUsername(t *testing.T) {
	_, err := NormalizeUsername("   ")
	assert.ErrorIs(t, err, ErrUsernameEmpty)

	_, err = NormalizeUsername(strings.Repeat("x", MaxUsernameLen+1))
	assert.ErrorIs(t, err, ErrUsernameTooLong)
	assert.ErrorIs(t, err, ErrValidation)

	name, err := NormalizeUsername(strings.Repeat("x", MaxUsernameLen))
	require.NoError(t, err)
	assert.Len(t, name, MaxUsernameLen)
}

func TestNormalizeRoomID(t *testing.T) {
	id, err := NormalizeRoomID(" lobby ")
	require.NoError(t, err)
	assert.Equal(t, RoomID("lobby"), id)

	_, err = NormalizeRoomID("")
	assert.ErrorIs(t, err, ErrRoomIDEmpty)

	_, err = NormalizeRoomID(strings.Repeat("r", MaxRoomIDLen+1))
	assert.ErrorIs(t, err, ErrRoomIDTooLong)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Username is already taken in this room", PublicMessage(ErrDuplicateName))
	assert.Equal(t, "Someone is already sharing in this room", PublicMessage(fmt.Errorf("start: %w", ErrAlreadySharing)))
	assert.Equal(t, "You must join a room first", PublicMessage(ErrNotInRoom))
	assert.Equal(t, "You are not sharing", PublicMessage(ErrNotSharing))
	assert.Equal(t, "Target peer is not connected", PublicMessage(ErrTargetUnreachable))
	assert.Equal(t, "Invalid request", PublicMessage(ErrMalformedMessage))
	assert.Equal(t, "Internal error", PublicMessage(errors.New("boom")))

	ev := NewErrorEvent(ErrUsernameEmpty)
	assert.Equal(t, TypeError, ev.EventType())
	assert.Equal(t, "Username is required", ev.Message)
}
