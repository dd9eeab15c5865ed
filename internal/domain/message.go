package domain

import (
	"encoding/json"
	"fmt"
)

type MessageType string

// Client -> server.
const (
	TypeGetLiveRooms MessageType = "get-live-rooms"
	TypeJoinRoom     MessageType = "join-room"
	TypeLeaveRoom    MessageType = "leave-room"
	TypeStartSharing MessageType = "start-sharing"
	TypeStopSharing  MessageType = "stop-sharing"
	TypeOffer        MessageType = "offer"
	TypeAnswer       MessageType = "answer"
	TypeICECandidate MessageType = "ice-candidate"
	TypePing         MessageType = "ping"
	TypeWhoAmI       MessageType = "whoami"
)

// Server -> client.
const (
	TypeWelcome            MessageType = "welcome"
	TypeLiveRooms          MessageType = "live-rooms"
	TypeUserJoined         MessageType = "user-joined"
	TypeUserLeft           MessageType = "user-left"
	TypeUserStartedSharing MessageType = "user-started-sharing"
	TypeUserStoppedSharing MessageType = "user-stopped-sharing"
	TypeRoomUpdated        MessageType = "room-updated"
	TypeRoomClosed         MessageType = "room-closed"
	TypeLeftRoom           MessageType = "left-room"
	TypePong               MessageType = "pong"
	TypeError              MessageType = "error"
)

var (
	ErrMalformedMessage = fmt.Errorf("%w: malformed message", ErrValidation)
	ErrUnknownMessage   = fmt.Errorf("%w: unknown message type", ErrValidation)
)

// ClientMessage is the closed set of messages a client may send.
// Every implementation lives in this file.
type ClientMessage interface {
	Type() MessageType
	clientMessage()
}

type GetLiveRooms struct{}

type JoinRoom struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type LeaveRoom struct{}

type StartSharing struct{}

type StopSharing struct{}

// Signal is an offer, answer or ICE candidate addressed to one connection.
// Payload is kept as raw bytes and never interpreted.
type Signal struct {
	Kind    MessageType     `json:"-"`
	Payload json.RawMessage `json:"payload"`
	To      string          `json:"to"`
}

type Ping struct{}

type WhoAmI struct{}

func (GetLiveRooms) Type() MessageType { return TypeGetLiveRooms }
func (JoinRoom) Type() MessageType     { return TypeJoinRoom }
func (LeaveRoom) Type() MessageType    { return TypeLeaveRoom }
func (StartSharing) Type() MessageType { return TypeStartSharing }
func (StopSharing) Type() MessageType  { return TypeStopSharing }
func (s Signal) Type() MessageType     { return s.Kind }
func (Ping) Type() MessageType         { return TypePing }
func (WhoAmI) Type() MessageType       { return TypeWhoAmI }

func (GetLiveRooms) clientMessage() {}
func (JoinRoom) clientMessage()     {}
func (LeaveRoom) clientMessage()    {}
func (StartSharing) clientMessage() {}
func (StopSharing) clientMessage()  {}
func (Signal) clientMessage()       {}
func (Ping) clientMessage()         {}
func (WhoAmI) clientMessage()       {}

// IsSignal reports whether t is relayed verbatim between peers.
func IsSignal(t MessageType) bool {
	return t == TypeOffer || t == TypeAnswer || t == TypeICECandidate
}

// HasPayload reports whether a signal carries a non-null payload.
func (s Signal) HasPayload() bool {
	return len(s.Payload) > 0 && string(s.Payload) != "null"
}

// DecodeClientMessage parses one text frame into its typed message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var env struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch env.Type {
	case TypeGetLiveRooms:
		return GetLiveRooms{}, nil
	case TypeJoinRoom:
		var m JoinRoom
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		return m, nil
	case TypeLeaveRoom:
		return LeaveRoom{}, nil
	case TypeStartSharing:
		return StartSharing{}, nil
	case TypeStopSharing:
		return StopSharing{}, nil
	case TypeOffer, TypeAnswer, TypeICECandidate:
		var m Signal
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		m.Kind = env.Type
		return m, nil
	case TypePing:
		return Ping{}, nil
	case TypeWhoAmI:
		return WhoAmI{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
}
