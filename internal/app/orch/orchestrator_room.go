package orch

import (
	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateRoom opens a room with the caller as its host.
func (o *Orchestrator) CreateRoom(name, hostName string, maxUsers int) (domain.Room, domain.User, error) {
	room, host, err := o.Registry.Create(name, hostName, maxUsers)
	if err != nil {
		return room, host, o.rejected(app.CmdCreate, "", "", err)
	}
	return room, host, nil
}

func (o *Orchestrator) JoinRoom(roomID domain.RoomID, userName string) (domain.Room, domain.User, error) {
	room, user, err := o.Registry.Join(roomID, userName)
	if err != nil {
		return room, user, o.rejected(app.CmdJoin, roomID, "", err)
	}
	return room, user, nil
}

// LeaveRoom is idempotent.
func (o *Orchestrator) LeaveRoom(roomID domain.RoomID, userID domain.UserID) {
	if !o.Registry.Leave(roomID, userID) {
		log.Debug().
			Str("module", "orch").
			Str("room", string(roomID)).
			Str("user", string(userID)).
			Msg("leave ignored, not a member")
	}
}
