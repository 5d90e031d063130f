package signal

import (
	"encoding/json"
	"time"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleChangeVideo(s *session, data []byte) {
	roomID, user, ok := s.binding()
	if !ok {
		ctl.sendError(s, "change_video", errNotInRoom)
		return
	}
	var p struct {
		Video string `json:"video"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad change_video payload")
		ctl.sendError(s, "change_video", errBadPayload)
		return
	}
	if _, err := ctl.Orch.ChangeVideo(roomID, user.ID, p.Video); err != nil {
		ctl.sendError(s, "change_video", err)
		return
	}
	ctl.sendOK(s, "change_video")
}

type controlPayload struct {
	Kind     string   `json:"kind"`
	Position *float64 `json:"position"`
	// IssuedAt is milliseconds since the epoch on the sender's clock.
	IssuedAt  int64  `json:"issued_at"`
	CommandID string `json:"command_id"`
}

func (p controlPayload) event(now time.Time) (domain.ControlEvent, error) {
	kind, err := domain.ParseControlKind(p.Kind)
	if err != nil {
		return domain.ControlEvent{}, err
	}
	issued := now
	if p.IssuedAt > 0 {
		issued = time.UnixMilli(p.IssuedAt).UTC()
	}
	return domain.ControlEvent{
		Kind:            kind,
		IssuedAt:        issued,
		PositionSeconds: p.Position,
		CommandID:       p.CommandID,
	}, nil
}

func (ctl *SignalWSController) handleControl(s *session, data []byte) {
	roomID, user, ok := s.binding()
	if !ok {
		ctl.sendError(s, "control", errNotInRoom)
		return
	}
	var p controlPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad control payload")
		ctl.sendError(s, "control", errBadPayload)
		return
	}
	ev, err := p.event(time.Now())
	if err != nil {
		ctl.sendError(s, "control", err)
		return
	}
	if _, err := ctl.Orch.ControlPlayback(roomID, user.ID, ev); err != nil {
		ctl.sendError(s, "control", err)
		return
	}
	ctl.sendOK(s, "control")
}
