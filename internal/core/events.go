package core

import (
	"time"

	"github.com/dkeye/WatchParty/internal/domain"
)

type EventType string

const (
	EventUserJoined      EventType = "user_joined"
	EventUserLeft        EventType = "user_left"
	EventVideoChanged    EventType = "video_changed"
	EventPlaybackChanged EventType = "playback_changed"
	EventChatPosted      EventType = "chat_posted"
	EventHostChanged     EventType = "host_changed"
	EventRoomClosed      EventType = "room_closed"
)

// Event is the serializable envelope delivered to room subscribers.
// Room, when set, is a full snapshot taken right after the mutation.
type Event struct {
	Type    EventType            `json:"type"`
	RoomID  domain.RoomID        `json:"room_id"`
	Seq     uint64               `json:"seq"`
	At      time.Time            `json:"at"`
	User    *domain.User         `json:"user,omitempty"`
	UserID  domain.UserID        `json:"user_id,omitempty"`
	VideoID *string              `json:"video_id,omitempty"`
	Control *domain.ControlEvent `json:"event,omitempty"`
	Message *domain.ChatMessage  `json:"message,omitempty"`
	Reason  string               `json:"reason,omitempty"`
	Room    *domain.Room         `json:"room,omitempty"`
}

func newEvent(t EventType, room *domain.Room, now time.Time) Event {
	return Event{Type: t, RoomID: room.ID, Seq: room.Seq, At: now}
}

func withSnapshot(ev Event, room *domain.Room) Event {
	snap := room.Clone()
	ev.Room = &snap
	return ev
}

func UserJoined(room *domain.Room, u domain.User, now time.Time) Event {
	ev := newEvent(EventUserJoined, room, now)
	ev.User = &u
	return withSnapshot(ev, room)
}

func UserLeft(room *domain.Room, id domain.UserID, now time.Time) Event {
	ev := newEvent(EventUserLeft, room, now)
	ev.UserID = id
	return withSnapshot(ev, room)
}

func VideoChanged(room *domain.Room, now time.Time) Event {
	ev := newEvent(EventVideoChanged, room, now)
	id := room.VideoID
	ev.VideoID = &id
	return withSnapshot(ev, room)
}

func PlaybackChanged(room *domain.Room, ctl domain.ControlEvent, now time.Time) Event {
	ev := newEvent(EventPlaybackChanged, room, now)
	ev.Control = &ctl
	return withSnapshot(ev, room)
}

func ChatPosted(room *domain.Room, msg domain.ChatMessage, now time.Time) Event {
	ev := newEvent(EventChatPosted, room, now)
	ev.Message = &msg
	return ev
}

func HostChanged(room *domain.Room, now time.Time) Event {
	ev := newEvent(EventHostChanged, room, now)
	ev.UserID = room.HostID
	return withSnapshot(ev, room)
}

func RoomClosed(room *domain.Room, reason string, now time.Time) Event {
	ev := newEvent(EventRoomClosed, room, now)
	ev.Reason = reason
	return ev
}
