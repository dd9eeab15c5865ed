package orch

import (
	"encoding/json"

	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// LiveRooms lists every room in creation order.
func (o *Orchestrator) LiveRooms() []domain.LiveRoom {
	snaps := o.Rooms.ListSnapshots()
	out := make([]domain.LiveRoom, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.LiveRoom())
	}
	return out
}

// GetLiveRooms answers a directory query and, for connections outside
// any room, subscribes them to room-updated and room-closed.
func (o *Orchestrator) GetLiveRooms(sid core.SessionID) {
	o.Registry.Subscribe(sid)
	o.sendTo(sid, domain.LiveRoomsEvent{Type: domain.TypeLiveRooms, Rooms: o.LiveRooms()})
}

func (o *Orchestrator) RoomSnapshot(id domain.RoomID) (core.RoomSnapshot, bool) {
	room, ok := o.Rooms.Get(id)
	if !ok {
		return core.RoomSnapshot{}, false
	}
	return room.Snapshot()
}

// CreateRoom opens an empty room ahead of any join. Such a room lives
// until someone joins and leaves it, or until the reaper finds it idle.
func (o *Orchestrator) CreateRoom(id domain.RoomID) core.RoomSnapshot {
	room := o.Rooms.FindOrCreate(id)
	snap, ok := room.Snapshot()
	if !ok {
		// Deleted between lookup and snapshot; try once more.
		snap, _ = o.Rooms.FindOrCreate(id).Snapshot()
	}
	o.notifySubscribers(domain.RoomUpdatedEvent{Type: domain.TypeRoomUpdated, Room: snap.LiveRoom()})
	return snap
}

// RoomsReaped tells the directory audience about rooms the reaper removed.
func (o *Orchestrator) RoomsReaped(ids []domain.RoomID) {
	for _, id := range ids {
		o.notifySubscribers(domain.RoomClosedEvent{Type: domain.TypeRoomClosed, RoomID: id})
	}
}

// announce reports a room change to the directory audience.
func (o *Orchestrator) announce(ch core.Change) {
	if ch.Closed {
		o.notifySubscribers(domain.RoomClosedEvent{Type: domain.TypeRoomClosed, RoomID: ch.Snapshot.ID})
		return
	}
	o.notifySubscribers(domain.RoomUpdatedEvent{Type: domain.TypeRoomUpdated, Room: ch.Snapshot.LiveRoom()})
}

func (o *Orchestrator) notifySubscribers(ev domain.Event) {
	subs := o.Registry.Subscribers()
	if len(subs) == 0 {
		return
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch.directory").Msg("marshal directory event")
		return
	}
	for _, s := range subs {
		o.deliver(s.SID, s.Conn, frame, ev.EventType())
	}
	log.Debug().Str("module", "orch.directory").Str("kind", string(ev.EventType())).Int("subscribers", len(subs)).Msg("directory update")
}
