package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultMaxUsers = 20
	MaxRoomNameLen  = 100
)

var (
	ErrRoomNameEmpty   = fmt.Errorf("%w: room name empty", ErrInvalidInput)
	ErrRoomNameTooLong = fmt.Errorf("%w: room name too long", ErrInvalidInput)
)

type (
	RoomName string
	RoomID   string
)

// NormalizeRoomID makes codes case-insensitive at lookup.
func NormalizeRoomID(raw string) RoomID {
	return RoomID(strings.ToUpper(strings.TrimSpace(raw)))
}

// NormalizeRoomName trims the display label and checks its length.
func NormalizeRoomName(raw string) (RoomName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrRoomNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxRoomNameLen {
		return "", ErrRoomNameTooLong
	}
	return RoomName(name), nil
}

type PlaybackState string

const (
	PlaybackEmpty   PlaybackState = "empty"
	PlaybackCued    PlaybackState = "cued"
	PlaybackPlaying PlaybackState = "playing"
	PlaybackPaused  PlaybackState = "paused"
)

type Playback struct {
	State           PlaybackState `json:"state"`
	Playing         bool          `json:"playing"`
	PositionSeconds float64       `json:"position_seconds"`
	LastUpdated     time.Time     `json:"last_updated"`
}

// Room is the aggregate root of a watch session.
// Values handed outside the registry are always copies made with Clone.
type Room struct {
	ID        RoomID    `json:"id"`
	Name      RoomName  `json:"name"`
	HostID    UserID    `json:"host_id"`
	Users     []User    `json:"users"`
	VideoID   string    `json:"video_id"`
	Playback  Playback  `json:"playback"`
	MaxUsers  int       `json:"max_users"`
	CreatedAt time.Time `json:"created_at"`
	Seq       uint64    `json:"seq"`
}

func (r *Room) Clone() Room {
	out := *r
	out.Users = make([]User, len(r.Users))
	copy(out.Users, r.Users)
	return out
}

func (r *Room) HasVideo() bool { return r.VideoID != "" }

func (r *Room) Full() bool { return len(r.Users) >= r.MaxUsers }

func (r *Room) IsHost(id UserID) bool { return id != "" && r.HostID == id }

func (r *Room) Member(id UserID) (User, bool) {
	for _, u := range r.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// RemoveMember drops id and reports whether it was present.
func (r *Room) RemoveMember(id UserID) (User, bool) {
	for i, u := range r.Users {
		if u.ID == id {
			r.Users = append(r.Users[:i], r.Users[i+1:]...)
			return u, true
		}
	}
	return User{}, false
}

// RoomInfo is the listing view of a room.
type RoomInfo struct {
	ID          RoomID   `json:"id"`
	Name        RoomName `json:"name"`
	MemberCount int      `json:"member_count"`
	MaxUsers    int      `json:"max_users"`
	HasVideo    bool     `json:"has_video"`
}

func (r *Room) Info() RoomInfo {
	return RoomInfo{
		ID:          r.ID,
		Name:        r.Name,
		MemberCount: len(r.Users),
		MaxUsers:    r.MaxUsers,
		HasVideo:    r.HasVideo(),
	}
}
