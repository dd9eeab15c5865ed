package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClientMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ClientMessage
	}{
		{"live rooms", `{"type":"get-live-rooms"}`, GetLiveRooms{}},
		{"join", `{"type":"join-room","roomId":"lobby","username":"alice"}`, JoinRoom{RoomID: "lobby", Username: "alice"}},
		{"leave", `{"type":"leave-room"}`, LeaveRoom{}},
		{"start", `{"type":"start-sharing"}`, StartSharing{}},
		{"stop", `{"type":"stop-sharing"}`, StopSharing{}},
		{"ping", `{"type":"ping"}`, Ping{}},
		{"whoami", `{"type":"whoami"}`, WhoAmI{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClientMessage([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Type(), got.Type())
		})
	}
}

func TestDecodeSignalKeepsPayloadBytes(t *testing.T) {
	raw := `{"type":"ice-candidate","to":"peer-1","payload":{ "candidate" : "a=1",  "sdpMLineIndex":0 }}`

	msg, err := DecodeClientMessage([]byte(raw))
	require.NoError(t, err)

	sig, ok := msg.(Signal)
	require.True(t, ok)
	assert.Equal(t, TypeICECandidate, sig.Kind)
	assert.Equal(t, "peer-1", sig.To)
	assert.Equal(t, `{ "candidate" : "a=1",  "sdpMLineIndex":0 }`, string(sig.Payload))
	assert.True(t, sig.HasPayload())
}

func TestSignalHasPayload(t *testing.T) {
	assert.False(t, Signal{}.HasPayload())
	assert.False(t, Signal{Payload: json.RawMessage("null")}.HasPayload())
	assert.True(t, Signal{Payload: json.RawMessage(`"x"`)}.HasPayload())
}

func TestDecodeClientMessageErrors(t *testing.T) {
	_, err := DecodeClientMessage([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedMessage)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = DecodeClientMessage([]byte(`{"type":"join-room","roomId":7}`))
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = DecodeClientMessage([]byte(`{"type":"launch-rockets"}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = DecodeClientMessage([]byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestIsSignal(t *testing.T) {
	assert.True(t, IsSignal(TypeOffer))
	assert.True(t, IsSignal(TypeAnswer))
	assert.True(t, IsSignal(TypeICECandidate))
	assert.False(t, IsSignal(TypeJoinRoom))
}

func TestEventsMarshalFlat(t *testing.T) {
	b, err := json.Marshal(UserLeftEvent{
		Type:       TypeUserLeft,
		UserID:     "u1",
		Username:   "alice",
		WasSharing: true,
		Users:      []User{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user-left","userId":"u1","username":"alice","wasSharing":true,"users":[]}`, string(b))

	b, err = json.Marshal(WhoAmIEvent{Type: TypeWhoAmI, ID: "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"whoami","id":"u1"}`, string(b))
}
