package core

import (
	"errors"
	"time"

	"github.com/dkeye/voicerooms/internal/domain"
)

// SessionID identifies one live signaling connection.
// A user bound to the connection carries the same value as its UserID.
type SessionID string

func (s SessionID) UserID() domain.UserID { return domain.UserID(s) }

// ErrRoomDeleted is returned by a room that was removed from its manager
// after the caller looked it up. Callers look the room up again.
var ErrRoomDeleted = errors.New("room deleted")

// RoomSnapshot is a read-only copy of a room, safe to use without locks.
type RoomSnapshot struct {
	ID              domain.RoomID `json:"id"`
	Users           []domain.User `json:"users"`
	UserCount       int           `json:"userCount"`
	HasActiveStream bool          `json:"hasActiveStream"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// Sharer returns the user currently sharing, if any.
func (s RoomSnapshot) Sharer() (domain.User, bool) {
	for _, u := range s.Users {
		if u.IsSharing {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s RoomSnapshot) LiveRoom() domain.LiveRoom {
	return domain.LiveRoom{
		ID:              s.ID,
		Name:            string(s.ID),
		UserCount:       s.UserCount,
		HasActiveStream: s.HasActiveStream,
	}
}

type ChangeKind int

const (
	ChangeJoined ChangeKind = iota
	ChangeLeft
	ChangeSharingStarted
	ChangeSharingStopped
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeJoined:
		return "joined"
	case ChangeLeft:
		return "left"
	case ChangeSharingStarted:
		return "sharing_started"
	case ChangeSharingStopped:
		return "sharing_stopped"
	default:
		return "unknown"
	}
}

// Change describes one applied room mutation.
type Change struct {
	Kind ChangeKind
	// User is the subject of the change. For ChangeLeft it is the state
	// the user had right before removal.
	User     domain.User
	Snapshot RoomSnapshot
	// Closed is set when the mutation removed the room from its manager.
	Closed bool
}

// Emitter receives a Change after the room state lock is released.
// Emitters of one room run one at a time, in mutation order.
// An emitter must not call back into the room that produced the change.
type Emitter func(Change)
