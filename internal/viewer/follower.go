// Package viewer is the client side of playback sync: it tells a local
// player how to converge on the room's authoritative state.
package viewer

import (
	"math"
	"time"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
)

type Config struct {
	// Tolerance is the drift accepted before seeking.
	Tolerance time.Duration
	// MinInterval spaces out corrective seeks.
	MinInterval time.Duration
	// EchoWindow is how long after an own command incoming playback
	// events are treated as its echo.
	EchoWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		Tolerance:   2 * time.Second,
		MinInterval: time.Second,
		EchoWindow:  time.Second,
	}
}

// PlayerState is what the local player reports.
type PlayerState struct {
	VideoID         string
	Playing         bool
	PositionSeconds float64
}

type ActionKind string

const (
	ActionLoad  ActionKind = "load"
	ActionPlay  ActionKind = "play"
	ActionPause ActionKind = "pause"
	ActionSeek  ActionKind = "seek"
)

type Action struct {
	Kind            ActionKind
	VideoID         string
	PositionSeconds float64
}

// Follower is not safe for concurrent use; drive it from the goroutine
// that owns the player. Switching rooms resets its sequence tracking.
type Follower struct {
	cfg Config

	room     domain.RoomID
	lastSeq  uint64
	lastSeek time.Time
	lastEmit time.Time
	lastCmd  string
}

func NewFollower(cfg Config) *Follower {
	def := DefaultConfig()
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	if cfg.EchoWindow < 0 {
		cfg.EchoWindow = 0
	}
	return &Follower{cfg: cfg}
}

// NoteEmission records a control command sent by this client.
func (f *Follower) NoteEmission(now time.Time, commandID string) {
	f.lastEmit = now
	f.lastCmd = commandID
}

// IsEcho reports whether ev is the broadcast of this client's own command.
func (f *Follower) IsEcho(ev core.Event, now time.Time) bool {
	if ev.Type != core.EventPlaybackChanged {
		return false
	}
	if f.lastCmd != "" && ev.Control != nil && ev.Control.CommandID == f.lastCmd {
		return true
	}
	return !f.lastEmit.IsZero() && now.Sub(f.lastEmit) < f.cfg.EchoWindow
}

// OnEvent feeds a room event and returns what the player should do.
func (f *Follower) OnEvent(local PlayerState, ev core.Event, now time.Time) []Action {
	if ev.Room == nil {
		return nil
	}
	if f.IsEcho(ev, now) {
		f.enter(ev.Room.ID)
		f.lastSeq = max(f.lastSeq, ev.Seq)
		return nil
	}
	return f.Decide(local, *ev.Room, now)
}

// Decide compares the player with an authoritative snapshot. Snapshots
// older than one already seen are ignored.
func (f *Follower) Decide(local PlayerState, room domain.Room, now time.Time) []Action {
	f.enter(room.ID)
	if room.Seq < f.lastSeq {
		return nil
	}
	f.lastSeq = room.Seq

	target := core.ExpectedPosition(room.Playback, now)

	if room.VideoID != local.VideoID {
		f.lastSeek = now
		acts := []Action{{Kind: ActionLoad, VideoID: room.VideoID}}
		if room.VideoID == "" {
			return acts
		}
		if target > 0 {
			acts = append(acts, Action{Kind: ActionSeek, PositionSeconds: target})
		}
		if room.Playback.Playing {
			acts = append(acts, Action{Kind: ActionPlay})
		}
		return acts
	}
	if room.VideoID == "" {
		return nil
	}

	var acts []Action
	drift := math.Abs(local.PositionSeconds - target)
	if drift > f.cfg.Tolerance.Seconds() && now.Sub(f.lastSeek) >= f.cfg.MinInterval {
		f.lastSeek = now
		acts = append(acts, Action{Kind: ActionSeek, PositionSeconds: target})
	}
	switch {
	case room.Playback.Playing && !local.Playing:
		acts = append(acts, Action{Kind: ActionPlay})
	case !room.Playback.Playing && local.Playing:
		acts = append(acts, Action{Kind: ActionPause})
	}
	return acts
}

// enter forgets the sequence of the previous room.
func (f *Follower) enter(roomID domain.RoomID) {
	if roomID != f.room {
		f.room = roomID
		f.lastSeq = 0
	}
}

// Predict applies ev to a copy of room, the way the server will, so the
// host's UI can move before the broadcast arrives.
func Predict(room domain.Room, ev domain.ControlEvent, now time.Time) (domain.Room, error) {
	next := room.Clone()
	if err := core.ApplyControl(&next.Playback, ev, now); err != nil {
		return room, err
	}
	return next, nil
}
