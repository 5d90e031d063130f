package signal

import (
	"encoding/json"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomStateFrame struct {
	Type    string               `json:"type"`
	Room    domain.Room          `json:"room"`
	You     *domain.User         `json:"you,omitempty"`
	History []domain.ChatMessage `json:"history,omitempty"`
}

func (ctl *SignalWSController) handleCreate(s *session, data []byte) {
	if _, _, ok := s.binding(); ok {
		ctl.sendError(s, "create", errInRoom)
		return
	}
	var p struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		MaxUsers int    `json:"max_users"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad create payload")
		ctl.sendError(s, "create", errBadPayload)
		return
	}

	room, host, err := ctl.Orch.CreateRoom(p.Name, p.Username, p.MaxUsers)
	if err != nil {
		ctl.sendError(s, "create", err)
		return
	}
	ctl.sendJSON(s, struct {
		Type string        `json:"type"`
		Room domain.RoomID `json:"room"`
		You  domain.User   `json:"you"`
	}{"room_created", room.ID, host})

	ctl.attach(s, room.ID, host)
}

func (ctl *SignalWSController) handleJoin(s *session, data []byte) {
	if _, _, ok := s.binding(); ok {
		ctl.sendError(s, "join", errInRoom)
		return
	}
	var p struct {
		Room     string `json:"room"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(s, "join", errBadPayload)
		return
	}

	room, user, err := ctl.Orch.JoinRoom(domain.NormalizeRoomID(p.Room), p.Username)
	if err != nil {
		ctl.sendError(s, "join", err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(s.sid)).Str("room", string(room.ID)).Msg("join")
	ctl.attach(s, room.ID, user)
}

// attach binds the identity to the connection and subscribes it to the
// room. room_state is queued before any event.
func (ctl *SignalWSController) attach(s *session, roomID domain.RoomID, user domain.User) {
	s.bind(roomID, user)
	you := user
	unsub, err := ctl.Orch.SubscribeWithSnapshot(roomID, func(room domain.Room) {
		ctl.sendJSON(s, roomStateFrame{
			Type:    "room_state",
			Room:    room,
			You:     &you,
			History: ctl.Orch.Chat.History(room.ID, ctl.opts.HistoryOnJoin),
		})
	}, ctl.roomHandler(s))
	if err != nil {
		s.unbind(roomID)
		ctl.sendError(s, "join", err)
		return
	}
	s.setUnsub(roomID, unsub)
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(s *session) {
	if !ctl.leave(s) {
		ctl.sendError(s, "leave", errNotInRoom)
		return
	}
	ctl.sendJSON(s, struct {
		Type string `json:"type"`
	}{"left"})
}

func (ctl *SignalWSController) leave(s *session) bool {
	roomID, user, ok := s.unbind("")
	if !ok {
		return false
	}
	log.Info().Str("module", "signal").Str("sid", string(s.sid)).Str("room", string(roomID)).Msg("leave")
	ctl.Orch.LeaveRoom(roomID, user.ID)
	return true
}

func (ctl *SignalWSController) handleSync(s *session) {
	roomID, user, ok := s.binding()
	if !ok {
		ctl.sendError(s, "sync", errNotInRoom)
		return
	}
	room, err := ctl.Orch.Room(roomID)
	if err != nil {
		ctl.sendError(s, "sync", err)
		return
	}
	ctl.sendJSON(s, roomStateFrame{Type: "room_state", Room: room, You: &user})
}
