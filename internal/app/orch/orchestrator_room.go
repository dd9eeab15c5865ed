package orch

import (
	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join puts sid into roomID under username. A connection already in a
// room leaves it first, even if the join then fails.
func (o *Orchestrator) Join(sid core.SessionID, rawRoom, rawName string) error {
	roomID, err := domain.NormalizeRoomID(rawRoom)
	if err != nil {
		return err
	}
	user, err := domain.NewUser(sid.UserID(), rawName)
	if err != nil {
		return err
	}
	if !o.Registry.IsRegistered(sid) {
		return domain.ErrNotFound
	}

	if from, _, ok := o.Registry.RoomOf(sid); ok {
		o.Leave(sid)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(from)).Msg("left room before join")
	}

	_, err = o.Rooms.AddUser(roomID, *user, func(ch core.Change) {
		o.Registry.UpdateRoom(sid, roomID, user.Username)
		joined := ch.User
		o.broadcast(ch.Snapshot.Users, "", domain.UserJoinedEvent{
			Type:       domain.TypeUserJoined,
			RoomID:     roomID,
			Users:      ch.Snapshot.Users,
			JoinedUser: &joined,
		})
		o.announce(ch)
	})
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("join rejected")
		return err
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Str("username", user.Username).Msg("joined room")
	return nil
}

// LeaveRoom is the explicit leave-room request.
func (o *Orchestrator) LeaveRoom(sid core.SessionID) error {
	roomID, ok := o.Leave(sid)
	if !ok {
		return domain.ErrNotInRoom
	}
	o.sendTo(sid, domain.LeftRoomEvent{Type: domain.TypeLeftRoom, RoomID: roomID})
	return nil
}

// Leave removes sid from its room. A sharer's departure is announced as
// user-stopped-sharing before user-left, so no client ever sees a sharer
// missing from the member list.
func (o *Orchestrator) Leave(sid core.SessionID) (domain.RoomID, bool) {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return "", false
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		o.Registry.RemoveRoom(sid)
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("leave: room not found")
		return roomID, false
	}

	_, removed := room.RemoveUser(sid.UserID(), func(ch core.Change) {
		o.Registry.RemoveRoom(sid)
		rest := ch.Snapshot.Users
		if ch.User.IsSharing {
			o.broadcast(rest, "", domain.UserStoppedSharingEvent{
				Type:   domain.TypeUserStoppedSharing,
				UserID: ch.User.ID,
			})
		}
		o.broadcast(rest, "", domain.UserLeftEvent{
			Type:       domain.TypeUserLeft,
			UserID:     ch.User.ID,
			Username:   ch.User.Username,
			WasSharing: ch.User.IsSharing,
			Users:      rest,
		})
		o.announce(ch)
	})
	if !removed {
		o.Registry.RemoveRoom(sid)
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("leave: user not found")
		return roomID, false
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("left room")
	return roomID, true
}
