package core

import (
	"fmt"
	"math"
	"time"

	"github.com/dkeye/WatchParty/internal/domain"
)

// NewPlayback is the initial state of a room with no video.
func NewPlayback(now time.Time) domain.Playback {
	return domain.Playback{State: domain.PlaybackEmpty, LastUpdated: now}
}

// SelectVideo loads videoID (or clears the selection when it is empty).
// Any previous transport state is discarded.
func SelectVideo(p *domain.Playback, videoID string, now time.Time) {
	p.State = domain.PlaybackCued
	if videoID == "" {
		p.State = domain.PlaybackEmpty
	}
	p.Playing = false
	p.PositionSeconds = 0
	p.LastUpdated = now
}

// ApplyControl moves p according to ev. The caller is already authorized.
// On error p is left untouched.
func ApplyControl(p *domain.Playback, ev domain.ControlEvent, now time.Time) error {
	// the zero value has no video either
	if p.State == "" || p.State == domain.PlaybackEmpty {
		return domain.ErrNoVideo
	}
	if ev.PositionSeconds != nil {
		pos := *ev.PositionSeconds
		if math.IsNaN(pos) || math.IsInf(pos, 0) || pos < 0 {
			return fmt.Errorf("%w: bad position %v", domain.ErrInvalidInput, pos)
		}
	}

	// elapsed play time is folded in before LastUpdated moves
	base := ExpectedPosition(*p, now)

	switch ev.Kind {
	case domain.ControlPlay:
		p.State = domain.PlaybackPlaying
		p.Playing = true
	case domain.ControlPause:
		p.State = domain.PlaybackPaused
		p.Playing = false
	case domain.ControlSeek:
		if ev.PositionSeconds == nil {
			return fmt.Errorf("%w: seek without position", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown control kind %q", domain.ErrInvalidInput, ev.Kind)
	}

	p.PositionSeconds = base
	if ev.PositionSeconds != nil {
		p.PositionSeconds = *ev.PositionSeconds
	}
	p.LastUpdated = now
	return nil
}

// ExpectedPosition is where the host's player should be at now.
// Viewers converge toward this value, not toward individual events.
func ExpectedPosition(p domain.Playback, now time.Time) float64 {
	if !p.Playing {
		return p.PositionSeconds
	}
	elapsed := now.Sub(p.LastUpdated).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return p.PositionSeconds + elapsed
}
