package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleChat(s *session, data []byte) {
	roomID, user, ok := s.binding()
	if !ok {
		ctl.sendError(s, "chat", errNotInRoom)
		return
	}
	var p struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(s, "chat", errBadPayload)
		return
	}
	// the sender sees its own message through the room stream
	if _, err := ctl.Orch.SendMessage(roomID, user.ID, p.Body); err != nil {
		ctl.sendError(s, "chat", err)
	}
}
