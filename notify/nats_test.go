package notify

import (
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoomSubject(t *testing.T) {
	assert.Equal(t, "bingo.rooms.AB12", BuildRoomSubject("AB12"))
	assert.Equal(t, "bingo.rooms.*", SubjectAllRooms)
}

func TestNATSBridge_ForwardsForeignEvents(t *testing.T) {
	hub := NewHub(nil)
	var got []RoomEvent
	hub.Subscribe("AB12", func(ev RoomEvent) { got = append(got, ev) })
	bridge := NewNATSBridge(nil, hub, "node-a", nil)

	foreign, err := json.Marshal(RoomEvent{Type: RoomUpdated, RoomID: "AB12", Origin: "node-b"})
	require.NoError(t, err)
	own, err := json.Marshal(RoomEvent{Type: RoomUpdated, RoomID: "AB12", Origin: "node-a"})
	require.NoError(t, err)

	bridge.handle(&nats.Msg{Subject: BuildRoomSubject("AB12"), Data: foreign})
	bridge.handle(&nats.Msg{Subject: BuildRoomSubject("AB12"), Data: own})
	bridge.handle(&nats.Msg{Subject: BuildRoomSubject("AB12"), Data: []byte("not json")})

	require.Len(t, got, 1)
	assert.Equal(t, "node-b", got[0].Origin)
}

func TestNATSBridge_StopBeforeStart(t *testing.T) {
	assert.NoError(t, NewNATSBridge(nil, NewHub(nil), "n", nil).Stop())
}
