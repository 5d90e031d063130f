package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/dkeye/WatchParty/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, s *session) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	c := s.conn
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(s.sid)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("sid", string(s.sid)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(ctl.opts.WriteWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, s *session) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump closing")
		ctl.leave(s)
		s.conn.Close()
		s.cancel()
		metrics.WSConnections.Dec()
	}()

	c := s.conn.conn
	c.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.SetReadDeadline(time.Now().Add(ctl.opts.pongWait()))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(ctl.opts.pongWait()))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(s, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(s *session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(s, "", errBadPayload)
		return
	}

	switch env.Type {
	case "create":
		ctl.handleCreate(s, data)
	case "join":
		ctl.handleJoin(s, data)
	case "leave":
		ctl.handleLeave(s)
	case "change_video":
		ctl.handleChangeVideo(s, data)
	case "control":
		ctl.handleControl(s, data)
	case "chat":
		ctl.handleChat(s, data)
	case "sync":
		ctl.handleSync(s)
	case "whoami":
		ctl.handleWhoAmI(s)
	case "ping":
		ctl.handlePing(s)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendError(s, env.Type, errUnknownType)
	}
}

var (
	errBadPayload  = fmt.Errorf("%w: bad payload", domain.ErrInvalidInput)
	errUnknownType = fmt.Errorf("%w: unknown message type", domain.ErrInvalidInput)
	errNotInRoom   = fmt.Errorf("%w: not in a room", domain.ErrForbidden)
	errInRoom      = fmt.Errorf("%w: already in a room", domain.ErrInvalidInput)
)

type errorFrame struct {
	Type  string      `json:"type"`
	Op    string      `json:"op,omitempty"`
	Code  domain.Code `json:"code"`
	Error string      `json:"error"`
}

// sendError replies to the caller only.
func (ctl *SignalWSController) sendError(s *session, op string, err error) {
	ctl.sendJSON(s, errorFrame{
		Type:  "error",
		Op:    op,
		Code:  domain.CodeOf(err),
		Error: err.Error(),
	})
}

func (ctl *SignalWSController) sendOK(s *session, op string) {
	ctl.sendJSON(s, struct {
		Type string `json:"type"`
		Op   string `json:"op"`
	}{"ok", op})
}

func (ctl *SignalWSController) sendJSON(s *session, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := s.conn.TrySend(b); err != nil {
		ctl.onSendError(s, err)
	}
}

// roomHandler forwards room events to the connection.
func (ctl *SignalWSController) roomHandler(s *session) core.Handler {
	return func(ev core.Event) error {
		b, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if ev.Type == core.EventRoomClosed {
			s.unbind(ev.RoomID)
		}
		if err := s.conn.TrySend(b); err != nil {
			ctl.onSendError(s, err)
			return err
		}
		return nil
	}
}

func (ctl *SignalWSController) onSendError(s *session, err error) {
	if !errors.Is(err, ErrBackpressure) {
		return
	}
	roomID, user, _ := s.binding()
	switch ctl.Policy.OnBackPressure(roomID, user.ID) {
	case app.KickMember:
		metrics.BackpressureKicks.Inc()
		log.Warn().
			Str("module", "signal").
			Str("sid", string(s.sid)).
			Str("room", string(roomID)).
			Msg("send queue full, closing connection")
		s.conn.Close()
	case app.MarkSlow:
		log.Warn().Str("module", "signal").Str("sid", string(s.sid)).Msg("slow consumer")
	case app.DropFrame, app.NoAction:
	}
}
