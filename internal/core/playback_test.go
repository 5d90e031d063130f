package core

import (
	"math"
	"testing"
	"time"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func pos(v float64) *float64 { return &v }

func cued() domain.Playback {
	p := NewPlayback(t0)
	SelectVideo(&p, "dQw4w9WgXcQ", t0)
	return p
}

func TestSelectVideo(t *testing.T) {
	p := domain.Playback{State: domain.PlaybackPlaying, Playing: true, PositionSeconds: 300}

	SelectVideo(&p, "dQw4w9WgXcQ", t0)
	assert.Equal(t, domain.Playback{State: domain.PlaybackCued, LastUpdated: t0}, p)

	SelectVideo(&p, "", t0.Add(time.Second))
	assert.Equal(t, domain.PlaybackEmpty, p.State)
}

func TestApplyControl_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		events    []domain.ControlEvent
		wantState domain.PlaybackState
		wantPos   float64
	}{
		{
			name:      "play from cued",
			events:    []domain.ControlEvent{{Kind: domain.ControlPlay}},
			wantState: domain.PlaybackPlaying,
		},
		{
			name:      "play adopts position",
			events:    []domain.ControlEvent{{Kind: domain.ControlPlay, PositionSeconds: pos(12.5)}},
			wantState: domain.PlaybackPlaying,
			wantPos:   12.5,
		},
		{
			name: "pause after play",
			events: []domain.ControlEvent{
				{Kind: domain.ControlPlay},
				{Kind: domain.ControlPause, PositionSeconds: pos(30)},
			},
			wantState: domain.PlaybackPaused,
			wantPos:   30,
		},
		{
			name: "seek while playing stays playing",
			events: []domain.ControlEvent{
				{Kind: domain.ControlPlay},
				{Kind: domain.ControlSeek, PositionSeconds: pos(90)},
			},
			wantState: domain.PlaybackPlaying,
			wantPos:   90,
		},
		{
			name:      "seek from cued stays cued",
			events:    []domain.ControlEvent{{Kind: domain.ControlSeek, PositionSeconds: pos(5)}},
			wantState: domain.PlaybackCued,
			wantPos:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cued()
			for i, ev := range tt.events {
				require.NoError(t, ApplyControl(&p, ev, t0.Add(time.Duration(i+1)*time.Second)))
			}
			assert.Equal(t, tt.wantState, p.State)
			assert.Equal(t, tt.wantState == domain.PlaybackPlaying, p.Playing)
			assert.Equal(t, tt.wantPos, p.PositionSeconds)
			assert.Equal(t, t0.Add(time.Duration(len(tt.events))*time.Second), p.LastUpdated)
		})
	}
}

func TestApplyControl_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		p       domain.Playback
		ev      domain.ControlEvent
		wantErr error
	}{
		{name: "no video", p: NewPlayback(t0), ev: domain.ControlEvent{Kind: domain.ControlPlay}, wantErr: domain.ErrNoVideo},
		{name: "zero value", p: domain.Playback{}, ev: domain.ControlEvent{Kind: domain.ControlPlay}, wantErr: domain.ErrNoVideo},
		{name: "zero value seek", p: domain.Playback{}, ev: domain.ControlEvent{Kind: domain.ControlSeek, PositionSeconds: pos(5)}, wantErr: domain.ErrNoVideo},
		{name: "seek without position", p: cued(), ev: domain.ControlEvent{Kind: domain.ControlSeek}, wantErr: domain.ErrInvalidInput},
		{name: "negative", p: cued(), ev: domain.ControlEvent{Kind: domain.ControlSeek, PositionSeconds: pos(-3)}, wantErr: domain.ErrInvalidInput},
		{name: "infinite", p: cued(), ev: domain.ControlEvent{Kind: domain.ControlPlay, PositionSeconds: pos(math.Inf(1))}, wantErr: domain.ErrInvalidInput},
		{name: "unknown kind", p: cued(), ev: domain.ControlEvent{Kind: "stop"}, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.p
			err := ApplyControl(&tt.p, tt.ev, t0.Add(time.Minute))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, tt.p)
		})
	}
}

func TestExpectedPosition(t *testing.T) {
	p := cued()
	require.NoError(t, ApplyControl(&p, domain.ControlEvent{Kind: domain.ControlPlay, PositionSeconds: pos(10)}, t0))

	assert.Equal(t, 10.0, ExpectedPosition(p, t0))
	assert.Equal(t, 15.0, ExpectedPosition(p, t0.Add(5*time.Second)))
	assert.Equal(t, 10.0, ExpectedPosition(p, t0.Add(-time.Second)), "clock skew never rewinds")

	// pause without a position freezes where the host was
	require.NoError(t, ApplyControl(&p, domain.ControlEvent{Kind: domain.ControlPause}, t0.Add(5*time.Second)))
	assert.Equal(t, 15.0, ExpectedPosition(p, t0.Add(time.Hour)))
}
