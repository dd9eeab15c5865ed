package app

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

var _ core.RoomManager = (*RoomManagerImpl)(nil)

type roomEntry struct {
	room core.RoomService
	seq  uint64
}

// RoomManagerImpl is the table of live rooms. Its lock only covers
// inserting, looking up and deleting whole rooms; mutations of a room
// are serialized by that room alone.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]roomEntry
	seq   uint64

	now func() time.Time
}

func NewRoomManager() *RoomManagerImpl {
	return &RoomManagerImpl{
		rooms: make(map[domain.RoomID]roomEntry),
		now:   time.Now,
	}
}

func (f *RoomManagerImpl) FindOrCreate(id domain.RoomID) core.RoomService {
	f.mu.RLock()
	e, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return e.room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok = f.rooms[id]; ok {
		return e.room
	}
	f.seq++
	room := core.NewRoomService(id, f.now(), f.drop)
	f.rooms[id] = roomEntry{room: room, seq: f.seq}
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.rooms[id]
	return e.room, ok
}

func (f *RoomManagerImpl) AddUser(id domain.RoomID, u domain.User, emit core.Emitter) (core.RoomService, error) {
	for {
		room := f.FindOrCreate(id)
		err := room.AddUser(u, emit)
		if errors.Is(err, core.ErrRoomDeleted) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return room, nil
	}
}

// ListSnapshots returns the live rooms in creation order.
func (f *RoomManagerImpl) ListSnapshots() []core.RoomSnapshot {
	entries := f.entries()
	out := make([]core.RoomSnapshot, 0, len(entries))
	for _, e := range entries {
		if snap, ok := e.room.Snapshot(); ok {
			out = append(out, snap)
		}
	}
	return out
}

func (f *RoomManagerImpl) Reap(now time.Time, retention time.Duration) []domain.RoomID {
	cutoff := now.Add(-retention)
	var reaped []domain.RoomID
	for _, e := range f.entries() {
		if e.room.ReapIfIdle(cutoff) {
			reaped = append(reaped, e.room.ID())
		}
	}
	if len(reaped) > 0 {
		log.Info().Str("module", "app.rooms").Int("reaped", len(reaped)).Msg("idle rooms reaped")
	}
	return reaped
}

func (f *RoomManagerImpl) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}

// entries copies the table so room locks are never taken under f.mu.
func (f *RoomManagerImpl) entries() []roomEntry {
	f.mu.RLock()
	out := make([]roomEntry, 0, len(f.rooms))
	for _, e := range f.rooms {
		out = append(out, e)
	}
	f.mu.RUnlock()
	slices.SortFunc(out, func(a, b roomEntry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}

// drop runs with the room's own lock held.
func (f *RoomManagerImpl) drop(room core.RoomService) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.rooms[room.ID()]; ok && e.room == room {
		delete(f.rooms, room.ID())
		log.Info().Str("module", "app.rooms").Str("room", string(room.ID())).Msg("room deleted")
	}
}
