package viewer

import (
	"testing"
	"time"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func playingRoom(seq uint64, pos float64, at time.Time) domain.Room {
	return domain.Room{
		ID:      "ROOM0001",
		VideoID: "dQw4w9WgXcQ",
		Seq:     seq,
		Playback: domain.Playback{
			State:           domain.PlaybackPlaying,
			Playing:         true,
			PositionSeconds: pos,
			LastUpdated:     at,
		},
	}
}

func TestDecide_LoadsNewVideo(t *testing.T) {
	f := NewFollower(DefaultConfig())
	room := playingRoom(3, 30, t0)

	acts := f.Decide(PlayerState{}, room, t0.Add(5*time.Second))

	assert.Equal(t, []Action{
		{Kind: ActionLoad, VideoID: "dQw4w9WgXcQ"},
		{Kind: ActionSeek, PositionSeconds: 35},
		{Kind: ActionPlay},
	}, acts)
}

func TestDecide_ClearsVideo(t *testing.T) {
	f := NewFollower(DefaultConfig())
	acts := f.Decide(PlayerState{VideoID: "dQw4w9WgXcQ", Playing: true}, domain.Room{Seq: 1}, t0)
	assert.Equal(t, []Action{{Kind: ActionLoad}}, acts)
}

func TestDecide_DriftTolerance(t *testing.T) {
	tests := []struct {
		name     string
		localPos float64
		wantSeek bool
	}{
		{name: "in sync", localPos: 10, wantSeek: false},
		{name: "small drift", localPos: 11.9, wantSeek: false},
		{name: "behind", localPos: 7.5, wantSeek: true},
		{name: "ahead", localPos: 12.5, wantSeek: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFollower(DefaultConfig())
			local := PlayerState{VideoID: "dQw4w9WgXcQ", Playing: true, PositionSeconds: tt.localPos}

			acts := f.Decide(local, playingRoom(1, 10, t0), t0)

			if tt.wantSeek {
				assert.Equal(t, []Action{{Kind: ActionSeek, PositionSeconds: 10}}, acts)
			} else {
				assert.Empty(t, acts)
			}
		})
	}
}

func TestDecide_MinIntervalBetweenSeeks(t *testing.T) {
	f := NewFollower(DefaultConfig())
	local := PlayerState{VideoID: "dQw4w9WgXcQ", Playing: true, PositionSeconds: 0}

	require.Len(t, f.Decide(local, playingRoom(1, 10, t0), t0), 1)
	assert.Empty(t, f.Decide(local, playingRoom(2, 10, t0), t0.Add(500*time.Millisecond)))
	assert.Len(t, f.Decide(local, playingRoom(3, 10, t0), t0.Add(1100*time.Millisecond)), 1)
}

func TestDecide_FollowsPlayPause(t *testing.T) {
	f := NewFollower(DefaultConfig())
	room := playingRoom(1, 10, t0)
	room.Playback.Playing = false
	room.Playback.State = domain.PlaybackPaused

	acts := f.Decide(PlayerState{VideoID: room.VideoID, Playing: true, PositionSeconds: 10.5}, room, t0)
	assert.Equal(t, []Action{{Kind: ActionPause}}, acts)
}

func TestDecide_IgnoresStaleSnapshots(t *testing.T) {
	f := NewFollower(DefaultConfig())
	local := PlayerState{VideoID: "dQw4w9WgXcQ", Playing: true, PositionSeconds: 10}

	f.Decide(local, playingRoom(5, 10, t0), t0)
	assert.Nil(t, f.Decide(PlayerState{}, playingRoom(4, 10, t0), t0))
}

func TestDecide_NewRoomResetsSequence(t *testing.T) {
	f := NewFollower(DefaultConfig())
	local := PlayerState{VideoID: "dQw4w9WgXcQ", Playing: true, PositionSeconds: 10}
	f.Decide(local, playingRoom(40, 10, t0), t0)

	other := playingRoom(2, 0, t0)
	other.ID = "ROOM0002"
	other.VideoID = "9bZkp7q19f0"
	acts := f.Decide(local, other, t0)
	require.NotEmpty(t, acts)
	assert.Equal(t, Action{Kind: ActionLoad, VideoID: "9bZkp7q19f0"}, acts[0])

	// older snapshots of the new room are still stale
	older := other
	older.Seq = 1
	assert.Nil(t, f.Decide(local, older, t0))
}

func TestOnEvent_SuppressesEcho(t *testing.T) {
	room := playingRoom(2, 0, t0)
	local := PlayerState{VideoID: room.VideoID, PositionSeconds: 0}

	t.Run("by command id", func(t *testing.T) {
		f := NewFollower(DefaultConfig())
		f.NoteEmission(t0.Add(-time.Minute), "cmd-1")
		ev := core.PlaybackChanged(&room, domain.ControlEvent{Kind: domain.ControlPlay, CommandID: "cmd-1"}, t0)
		assert.Empty(t, f.OnEvent(local, ev, t0))
	})

	t.Run("within window", func(t *testing.T) {
		f := NewFollower(DefaultConfig())
		f.NoteEmission(t0.Add(-500*time.Millisecond), "")
		ev := core.PlaybackChanged(&room, domain.ControlEvent{Kind: domain.ControlPlay}, t0)
		assert.Empty(t, f.OnEvent(local, ev, t0))
	})

	t.Run("after window", func(t *testing.T) {
		f := NewFollower(DefaultConfig())
		f.NoteEmission(t0.Add(-2*time.Second), "")
		ev := core.PlaybackChanged(&room, domain.ControlEvent{Kind: domain.ControlPlay}, t0)
		assert.Equal(t, []Action{{Kind: ActionPlay}}, f.OnEvent(local, ev, t0))
	})

	t.Run("chat events carry no state", func(t *testing.T) {
		f := NewFollower(DefaultConfig())
		ev := core.ChatPosted(&room, domain.ChatMessage{Body: "hi"}, t0)
		assert.Nil(t, f.OnEvent(local, ev, t0))
	})
}

func TestPredict(t *testing.T) {
	room := playingRoom(1, 10, t0)
	pos := 42.0

	next, err := Predict(room, domain.ControlEvent{Kind: domain.ControlPause, PositionSeconds: &pos}, t0)
	require.NoError(t, err)
	assert.False(t, next.Playback.Playing)
	assert.Equal(t, 42.0, next.Playback.PositionSeconds)
	assert.True(t, room.Playback.Playing, "input is not modified")

	_, err = Predict(domain.Room{}, domain.ControlEvent{Kind: domain.ControlPlay}, t0)
	assert.ErrorIs(t, err, domain.ErrNoVideo)
}
