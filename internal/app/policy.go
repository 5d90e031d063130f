package app

import (
	"github.com/dkeye/WatchParty/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Command names an intent checked by Policy.Authorize.
type Command string

const (
	CmdCreate          Command = "create"
	CmdJoin            Command = "join"
	CmdLeave           Command = "leave"
	CmdChangeVideo     Command = "change_video"
	CmdControlPlayback Command = "control"
	CmdSendChat        Command = "chat"
)

type Policy interface {
	// Authorize is called under the room lock, before any mutation.
	Authorize(room *domain.Room, userID domain.UserID, cmd Command) error
	OnBackPressure(roomID domain.RoomID, userID domain.UserID) BackpressureAction
}

// SimplePolicy: the host drives the player, members chat, capacity is hard.
type SimplePolicy struct{}

func (SimplePolicy) Authorize(room *domain.Room, userID domain.UserID, cmd Command) error {
	switch cmd {
	case CmdJoin:
		if room.Full() {
			return domain.ErrRoomFull
		}
	case CmdChangeVideo, CmdControlPlayback:
		if _, ok := room.Member(userID); !ok {
			return domain.ErrNotMember
		}
		if !room.IsHost(userID) {
			return domain.ErrForbidden
		}
	case CmdSendChat:
		if _, ok := room.Member(userID); !ok {
			return domain.ErrNotMember
		}
	case CmdLeave:
		// leaving is idempotent, a stranger leaving is a no-op
	}
	return nil
}

func (SimplePolicy) OnBackPressure(domain.RoomID, domain.UserID) BackpressureAction {
	return KickMember
}
