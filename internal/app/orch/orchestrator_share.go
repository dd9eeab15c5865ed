package orch

import (
	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) StartSharing(sid core.SessionID) error {
	room, err := o.currentRoom(sid)
	if err != nil {
		return err
	}
	changed, err := room.SetSharing(sid.UserID(), true, func(ch core.Change) {
		o.broadcast(ch.Snapshot.Users, ch.User.ID, domain.UserStartedSharingEvent{
			Type:     domain.TypeUserStartedSharing,
			UserID:   ch.User.ID,
			Username: ch.User.Username,
		})
		o.announce(ch)
	})
	if err != nil {
		return err
	}
	if !changed {
		// Already the sharer.
		return domain.ErrAlreadySharing
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.ID())).Msg("sharing started")
	return nil
}

func (o *Orchestrator) StopSharing(sid core.SessionID) error {
	room, err := o.currentRoom(sid)
	if err != nil {
		return err
	}
	changed, err := room.SetSharing(sid.UserID(), false, func(ch core.Change) {
		o.broadcast(ch.Snapshot.Users, ch.User.ID, domain.UserStoppedSharingEvent{
			Type:   domain.TypeUserStoppedSharing,
			UserID: ch.User.ID,
		})
		o.announce(ch)
	})
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrNotSharing
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.ID())).Msg("sharing stopped")
	return nil
}

func (o *Orchestrator) currentRoom(sid core.SessionID) (core.RoomService, error) {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return nil, domain.ErrNotInRoom
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return room, nil
}
