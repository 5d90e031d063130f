// Package orch is the command surface of the room engine. Transports call
// it with an already bound participant identity.
package orch

import (
	"errors"

	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/dkeye/WatchParty/internal/metrics"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Bus      core.EventBus
	Chat     *app.ChatLog
	Policy   app.Policy
	Resolver core.VideoResolver
	IDs      core.IDGenerator

	// ChatMaxLen caps message bodies in runes; zero means the domain default.
	ChatMaxLen int
}

// Subscribe attaches h to the room's event stream.
func (o *Orchestrator) Subscribe(roomID domain.RoomID, h core.Handler) (func(), error) {
	return o.SubscribeWithSnapshot(roomID, nil, h)
}

// SubscribeWithSnapshot calls snapshot with the current room state and
// then attaches h, both under the room lock. Every event h receives is
// newer than the snapshot.
func (o *Orchestrator) SubscribeWithSnapshot(
	roomID domain.RoomID,
	snapshot func(domain.Room),
	h core.Handler,
) (func(), error) {
	var unsub func()
	err := o.Registry.View(roomID, func(room domain.Room) error {
		if snapshot != nil {
			snapshot(room)
		}
		unsub = o.Bus.Subscribe(room.ID, h)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unsub, nil
}

func (o *Orchestrator) Room(roomID domain.RoomID) (domain.Room, error) {
	return o.Registry.Get(roomID)
}

func (o *Orchestrator) Rooms() []domain.RoomInfo {
	return o.Registry.List()
}

// History returns the last limit chat messages of a live room.
func (o *Orchestrator) History(roomID domain.RoomID, limit int) ([]domain.ChatMessage, error) {
	room, err := o.Registry.Get(roomID)
	if err != nil {
		return nil, err
	}
	return o.Chat.History(room.ID, limit), nil
}

// OnRoomDestroyed is registered with the registry to release per-room state.
func (o *Orchestrator) OnRoomDestroyed(roomID domain.RoomID) {
	o.Chat.Drop(roomID)
}

func (o *Orchestrator) rejected(cmd app.Command, roomID domain.RoomID, userID domain.UserID, err error) error {
	code := domain.CodeOf(err)
	metrics.CommandRejections.WithLabelValues(string(cmd), string(code)).Inc()
	ev := log.Info()
	if code == domain.CodeInternal && !errors.Is(err, app.ErrCodeSpaceExhausted) {
		ev = log.Error()
	}
	ev.Err(err).
		Str("module", "orch").
		Str("cmd", string(cmd)).
		Str("room", string(roomID)).
		Str("user", string(userID)).
		Str("code", string(code)).
		Msg("command rejected")
	return err
}
