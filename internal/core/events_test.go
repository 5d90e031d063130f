package core

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSnapshotsAreDetached(t *testing.T) {
	room := &domain.Room{ID: "ROOM0001", Seq: 4, Users: []domain.User{{ID: "a", Name: "Alice"}}}

	ev := UserJoined(room, room.Users[0], t0)
	room.Users[0].Name = "Mallory"

	assert.Equal(t, uint64(4), ev.Seq)
	assert.Equal(t, "Alice", ev.Room.Users[0].Name)
}

func TestEventEnvelope(t *testing.T) {
	room := &domain.Room{ID: "ROOM0001", Seq: 7, VideoID: "dQw4w9WgXcQ"}

	b, err := json.Marshal(VideoChanged(room, t0))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "video_changed", got["type"])
	assert.Equal(t, "ROOM0001", got["room_id"])
	assert.EqualValues(t, 7, got["seq"])
	assert.Equal(t, "dQw4w9WgXcQ", got["video_id"])
	assert.Contains(t, got, "room")
	assert.NotContains(t, got, "message")
}

func TestChatPostedCarriesNoSnapshot(t *testing.T) {
	room := &domain.Room{ID: "ROOM0001", Seq: 1}
	ev := ChatPosted(room, domain.ChatMessage{Body: "hi"}, t0)
	assert.Nil(t, ev.Room)
	assert.Equal(t, "hi", ev.Message.Body)
}
