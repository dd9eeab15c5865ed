package orch

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/voicerooms/internal/app"
	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator runs the presence protocol, the signaling relay and the
// directory on top of the registry and the room table.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
}

// OnConnect registers a new transport session and greets it with its id.
func (o *Orchestrator) OnConnect(conn core.SignalConnection, clientToken string, cancel func()) core.SessionID {
	sid := o.Registry.Register(conn, clientToken, cancel)
	o.sendTo(sid, domain.WelcomeEvent{Type: domain.TypeWelcome, ID: sid.UserID()})
	return sid
}

// OnDisconnect leaves the current room, if any, and forgets the session.
// Safe to call more than once.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.Leave(sid)
	o.Registry.Unregister(sid)
}

func (o *Orchestrator) WhoAmI(sid core.SessionID) {
	resp := domain.WhoAmIEvent{Type: domain.TypeWhoAmI, ID: sid.UserID()}
	if roomID, username, ok := o.Registry.RoomOf(sid); ok {
		resp.RoomID = roomID
		resp.Username = username
	}
	o.sendTo(sid, resp)
}

func (o *Orchestrator) sendTo(sid core.SessionID, ev domain.Event) bool {
	conn, ok := o.Registry.GetConnection(sid)
	if !ok {
		return false
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal event")
		return false
	}
	return o.deliver(sid, conn, frame, ev.EventType())
}

// broadcast sends ev to every listed user except one.
func (o *Orchestrator) broadcast(users []domain.User, except domain.UserID, ev domain.Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal broadcast")
		return
	}
	kind := ev.EventType()
	for _, u := range users {
		if u.ID == except {
			continue
		}
		sid := core.SessionID(u.ID)
		conn, ok := o.Registry.GetConnection(sid)
		if !ok {
			continue
		}
		o.deliver(sid, conn, frame, kind)
	}
}

// deliver enqueues frame on conn and applies the backpressure policy
// when the queue is full. It never blocks.
func (o *Orchestrator) deliver(sid core.SessionID, conn core.SignalConnection, frame core.Frame, kind domain.MessageType) bool {
	err := conn.TrySend(frame)
	if err == nil {
		return true
	}
	if !errors.Is(err, core.ErrBackpressure) {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("kind", string(kind)).Msg("send to closed connection")
		return false
	}
	action := app.KickMember
	if o.Policy != nil {
		action = o.Policy.OnBackPressure(sid, kind)
	}
	log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("kind", string(kind)).Stringer("action", action).Msg("send queue full")
	if action == app.KickMember {
		// The reader exits on the closed socket and runs OnDisconnect.
		conn.Close()
		o.Registry.Cancel(sid)
	}
	return false
}
