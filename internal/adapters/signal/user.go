package signal

import (
	"github.com/dkeye/WatchParty/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(s *session) {
	resp := struct {
		Type     string          `json:"type"`
		User     *domain.User    `json:"user,omitempty"`
		Room     domain.RoomID   `json:"room,omitempty"`
		RoomName domain.RoomName `json:"room_name,omitempty"`
	}{
		Type: "whoami",
	}
	if roomID, user, ok := s.binding(); ok {
		resp.User = &user
		resp.Room = roomID
		if room, err := ctl.Orch.Room(roomID); err == nil {
			resp.RoomName = room.Name
			if u, ok := room.Member(user.ID); ok {
				resp.User = &u
			}
		}
	}
	ctl.sendJSON(s, resp)
}
