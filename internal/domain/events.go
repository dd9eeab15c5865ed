package domain

import "encoding/json"

// Server events. Each one marshals to a flat {"type": ..., ...} object.

type WelcomeEvent struct {
	Type MessageType `json:"type"`
	ID   UserID      `json:"id"`
}

type LiveRoomsEvent struct {
	Type  MessageType `json:"type"`
	Rooms []LiveRoom  `json:"rooms"`
}

type UserJoinedEvent struct {
	Type       MessageType `json:"type"`
	RoomID     RoomID      `json:"roomId"`
	Users      []User      `json:"users"`
	JoinedUser *User       `json:"joinedUser,omitempty"`
}

type UserLeftEvent struct {
	Type       MessageType `json:"type"`
	UserID     UserID      `json:"userId"`
	Username   string      `json:"username"`
	WasSharing bool        `json:"wasSharing"`
	Users      []User      `json:"users"`
}

type UserStartedSharingEvent struct {
	Type     MessageType `json:"type"`
	UserID   UserID      `json:"userId"`
	Username string      `json:"username"`
}

type UserStoppedSharingEvent struct {
	Type   MessageType `json:"type"`
	UserID UserID      `json:"userId"`
}

type RoomUpdatedEvent struct {
	Type MessageType `json:"type"`
	Room LiveRoom    `json:"room"`
}

type RoomClosedEvent struct {
	Type   MessageType `json:"type"`
	RoomID RoomID      `json:"roomId"`
}

type LeftRoomEvent struct {
	Type   MessageType `json:"type"`
	RoomID RoomID      `json:"roomId"`
}

// SignalEvent is the relayed form of an offer, answer or ICE candidate.
type SignalEvent struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
	From    UserID          `json:"from"`
}

type PongEvent struct {
	Type MessageType `json:"type"`
}

type WhoAmIEvent struct {
	Type     MessageType `json:"type"`
	ID       UserID      `json:"id"`
	Username string      `json:"username,omitempty"`
	RoomID   RoomID      `json:"roomId,omitempty"`
}

type ErrorEvent struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func NewErrorEvent(err error) ErrorEvent {
	return ErrorEvent{Type: TypeError, Message: PublicMessage(err)}
}

// Event is any server to client message.
type Event interface {
	EventType() MessageType
}

func (e WelcomeEvent) EventType() MessageType            { return e.Type }
func (e LiveRoomsEvent) EventType() MessageType          { return e.Type }
func (e UserJoinedEvent) EventType() MessageType         { return e.Type }
func (e UserLeftEvent) EventType() MessageType           { return e.Type }
func (e UserStartedSharingEvent) EventType() MessageType { return e.Type }
func (e UserStoppedSharingEvent) EventType() MessageType { return e.Type }
func (e RoomUpdatedEvent) EventType() MessageType        { return e.Type }
func (e RoomClosedEvent) EventType() MessageType         { return e.Type }
func (e LeftRoomEvent) EventType() MessageType           { return e.Type }
func (e SignalEvent) EventType() MessageType             { return e.Type }
func (e PongEvent) EventType() MessageType               { return e.Type }
func (e WhoAmIEvent) EventType() MessageType             { return e.Type }
func (e ErrorEvent) EventType() MessageType              { return e.Type }
