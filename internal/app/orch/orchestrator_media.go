package orch

import (
	"strings"

	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/rs/zerolog/log"
)

// ChangeVideo selects the video for the room. An empty ref clears it.
// Authority is checked before the reference, so a viewer always gets
// Forbidden.
func (o *Orchestrator) ChangeVideo(roomID domain.RoomID, userID domain.UserID, ref string) (domain.Room, error) {
	var videoID string
	var resolveErr error
	if strings.TrimSpace(ref) != "" {
		videoID, resolveErr = o.Resolver.Resolve(ref)
	}

	room, err := o.Registry.Mutate(roomID, func(tx *app.Tx) error {
		if err := o.Policy.Authorize(tx.Room, userID, app.CmdChangeVideo); err != nil {
			return err
		}
		if resolveErr != nil {
			return resolveErr
		}
		tx.Room.VideoID = videoID
		core.SelectVideo(&tx.Room.Playback, videoID, tx.Now)
		tx.Emit(func() core.Event { return core.VideoChanged(tx.Room, tx.Now) })
		return nil
	})
	if err != nil {
		return domain.Room{}, o.rejected(app.CmdChangeVideo, roomID, userID, err)
	}

	log.Info().
		Str("module", "orch").
		Str("room", string(room.ID)).
		Str("video", videoID).
		Msg("video changed")
	return room, nil
}

// ControlPlayback applies play, pause or seek issued by the host.
func (o *Orchestrator) ControlPlayback(roomID domain.RoomID, userID domain.UserID, ev domain.ControlEvent) (domain.Room, error) {
	room, err := o.Registry.Mutate(roomID, func(tx *app.Tx) error {
		if err := o.Policy.Authorize(tx.Room, userID, app.CmdControlPlayback); err != nil {
			return err
		}
		if err := core.ApplyControl(&tx.Room.Playback, ev, tx.Now); err != nil {
			return err
		}
		tx.Emit(func() core.Event { return core.PlaybackChanged(tx.Room, ev, tx.Now) })
		return nil
	})
	if err != nil {
		return domain.Room{}, o.rejected(app.CmdControlPlayback, roomID, userID, err)
	}

	log.Debug().
		Str("module", "orch").
		Str("room", string(room.ID)).
		Str("kind", string(ev.Kind)).
		Float64("position", room.Playback.PositionSeconds).
		Msg("playback changed")
	return room, nil
}
