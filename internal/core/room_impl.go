package core

import (
	"slices"
	"sync"
	"time"

	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// mu guards the user list; emitMu orders the emitters of applied changes.
// Lock order is mu -> (manager lock, registry lock); emitMu is taken
// while mu is still held and released after the emitter returns.
type roomImpl struct {
	id        domain.RoomID
	createdAt time.Time

	mu      sync.Mutex
	users   []*domain.User
	deleted bool
	// onEmpty is called with mu held when the room must leave its manager.
	onEmpty func(*roomImpl)

	emitMu sync.Mutex
}

func NewRoomService(id domain.RoomID, createdAt time.Time, onEmpty func(RoomService)) RoomService {
	return newRoom(id, createdAt, onEmpty)
}

func newRoom(id domain.RoomID, createdAt time.Time, onEmpty func(RoomService)) *roomImpl {
	r := &roomImpl{id: id, createdAt: createdAt}
	if onEmpty != nil {
		r.onEmpty = func(room *roomImpl) { onEmpty(room) }
	}
	return r
}

func (r *roomImpl) ID() domain.RoomID    { return r.id }
func (r *roomImpl) CreatedAt() time.Time { return r.createdAt }

func (r *roomImpl) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *roomImpl) Snapshot() (RoomSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleted {
		return RoomSnapshot{}, false
	}
	return r.snapshotLocked(), true
}

func (r *roomImpl) AddUser(u domain.User, emit Emitter) error {
	r.mu.Lock()
	if r.deleted {
		r.mu.Unlock()
		return ErrRoomDeleted
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			r.mu.Unlock()
			return domain.ErrDuplicateName
		}
	}
	u.IsSharing = false
	added := u
	r.users = append(r.users, &added)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(u.ID)).Str("username", u.Username).Msg("user added")

	r.publish(Change{Kind: ChangeJoined, User: added, Snapshot: r.snapshotLocked()}, emit)
	return nil
}

func (r *roomImpl) RemoveUser(id domain.UserID, emit Emitter) (domain.User, bool) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if r.deleted || idx < 0 {
		r.mu.Unlock()
		return domain.User{}, false
	}
	removed := *r.users[idx]
	r.users = slices.Delete(r.users, idx, idx+1)

	ch := Change{Kind: ChangeLeft, User: removed}
	if len(r.users) == 0 {
		r.deleteLocked()
		ch.Closed = true
	}
	ch.Snapshot = r.snapshotLocked()
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(id)).Bool("was_sharing", removed.IsSharing).Bool("closed", ch.Closed).Msg("user removed")

	r.publish(ch, emit)
	return removed, true
}

func (r *roomImpl) SetSharing(id domain.UserID, sharing bool, emit Emitter) (bool, error) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if r.deleted || idx < 0 {
		r.mu.Unlock()
		return false, domain.ErrNotFound
	}
	u := r.users[idx]
	if sharing {
		for _, other := range r.users {
			if other.ID != id && other.IsSharing {
				r.mu.Unlock()
				return false, domain.ErrAlreadySharing
			}
		}
	}
	if u.IsSharing == sharing {
		r.mu.Unlock()
		return false, nil
	}
	u.IsSharing = sharing

	kind := ChangeSharingStopped
	if sharing {
		kind = ChangeSharingStarted
	}
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", string(id)).Bool("sharing", sharing).Msg("sharing changed")

	r.publish(Change{Kind: kind, User: *u, Snapshot: r.snapshotLocked()}, emit)
	return true, nil
}

// ReapIfIdle deletes the room when it has no users and was created
// before cutoff.
func (r *roomImpl) ReapIfIdle(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleted || len(r.users) > 0 || !r.createdAt.Before(cutoff) {
		return false
	}
	r.deleteLocked()
	return true
}

// publish hands ch over to emit. Called with mu held; releases it.
func (r *roomImpl) publish(ch Change, emit Emitter) {
	r.emitMu.Lock()
	r.mu.Unlock()
	defer r.emitMu.Unlock()
	if emit != nil {
		emit(ch)
	}
}

func (r *roomImpl) deleteLocked() {
	r.deleted = true
	if r.onEmpty != nil {
		r.onEmpty(r)
	}
}

func (r *roomImpl) indexLocked(id domain.UserID) int {
	return slices.IndexFunc(r.users, func(u *domain.User) bool { return u.ID == id })
}

func (r *roomImpl) snapshotLocked() RoomSnapshot {
	snap := RoomSnapshot{
		ID:        r.id,
		Users:     make([]domain.User, 0, len(r.users)),
		UserCount: len(r.users),
		CreatedAt: r.createdAt,
	}
	for _, u := range r.users {
		snap.Users = append(snap.Users, *u)
		if u.IsSharing {
			snap.HasActiveStream = true
		}
	}
	return snap
}
