package domain

import (
	"fmt"
	"time"
)

type ControlKind string

const (
	ControlPlay  ControlKind = "play"
	ControlPause ControlKind = "pause"
	ControlSeek  ControlKind = "seek"
)

func ParseControlKind(s string) (ControlKind, error) {
	switch k := ControlKind(s); k {
	case ControlPlay, ControlPause, ControlSeek:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown control kind %q", ErrInvalidInput, s)
}

// ControlEvent is a transient transport command; it is never stored.
type ControlEvent struct {
	Kind            ControlKind `json:"kind"`
	IssuedAt        time.Time   `json:"issued_at"`
	PositionSeconds *float64    `json:"position_seconds,omitempty"`
	// CommandID is an opaque client token echoed back in the broadcast.
	CommandID string `json:"command_id,omitempty"`
}
