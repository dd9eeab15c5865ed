package rtc

import (
	"testing"

	"github.com/dkeye/voicerooms/internal/config"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromDefaults(t *testing.T) {
	assert.Equal(t, DefaultWebRTCConfig(), ConfigFrom(nil))
	assert.Equal(t, DefaultWebRTCConfig(), ConfigFrom(&config.Config{}))
}

func TestConfigFromTURN(t *testing.T) {
	cfg := &config.Config{ICEServers: []config.ICEServer{
		{URLs: []string{"stun:stun.example.com:3478"}},
		{URLs: []string{"turn:turn.example.com:3478"}, Username: "u", Credential: "secret"},
	}}

	out := ConfigFrom(cfg)
	require.Len(t, out.ICEServers, 2)
	assert.Nil(t, out.ICEServers[0].Credential)
	assert.Equal(t, "u", out.ICEServers[1].Username)
	assert.Equal(t, "secret", out.ICEServers[1].Credential)
	assert.Equal(t, webrtc.ICECredentialTypePassword, out.ICEServers[1].CredentialType)
}
