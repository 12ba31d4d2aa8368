package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoster(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"strings", `["alice","bob"]`, []string{"alice", "bob"}},
		{"records", `[{"name":"alice"},{"name":"bob"}]`, []string{"alice", "bob"}},
		{"mixed", `["alice",{"name":"bob"}]`, []string{"alice", "bob"}},
		{"empty", `[]`, nil},
		{"garbage", `"not an array"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeRoster(json.RawMessage(tt.data))
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(Join, JoinPayload{RoomID: "R1", UserName: "alice"})
	require.NoError(t, err)
	assert.Equal(t, Join, env.Event)
	assert.JSONEq(t, `{"roomId":"R1","userName":"alice"}`, string(env.Data))

	frame, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"join","data":{"roomId":"R1","userName":"alice"}}`, string(frame))
}

func TestNewEnvelopeNilPayload(t *testing.T) {
	env, err := NewEnvelope(LeaveRoom, nil)
	require.NoError(t, err)
	assert.Nil(t, env.Data)

	frame, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"leaveRoom"}`, string(frame))
}
