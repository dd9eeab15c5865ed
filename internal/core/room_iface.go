package core

import (
	"time"

	"github.com/dkeye/voicerooms/internal/domain"
)

// RoomService is the core-facing API of a room.
// It owns the user list but never touches transport resources.
type RoomService interface {
	ID() domain.RoomID
	CreatedAt() time.Time
	UserCount() int
	// Snapshot reports false once the room has been deleted.
	Snapshot() (RoomSnapshot, bool)

	AddUser(u domain.User, emit Emitter) error
	RemoveUser(id domain.UserID, emit Emitter) (domain.User, bool)
	// SetSharing reports whether the flag actually changed.
	SetSharing(id domain.UserID, sharing bool, emit Emitter) (bool, error)
	// ReapIfIdle deletes the room if it is empty and older than cutoff.
	ReapIfIdle(cutoff time.Time) bool
}

type RoomManager interface {
	FindOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	// AddUser finds or creates the room and adds u to it, retrying when
	// the room is deleted between lookup and insert.
	AddUser(id domain.RoomID, u domain.User, emit Emitter) (RoomService, error)
	ListSnapshots() []RoomSnapshot
	// Reap deletes empty rooms created before now-retention.
	Reap(now time.Time, retention time.Duration) []domain.RoomID
	Count() int
}
