package orch

import (
	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
)

// SendMessage posts body to the room chat. A body that trims to nothing is
// dropped without error and returns a nil message.
func (o *Orchestrator) SendMessage(roomID domain.RoomID, userID domain.UserID, body string) (*domain.ChatMessage, error) {
	text, err := domain.NormalizeChatBody(body, o.ChatMaxLen)
	if err != nil {
		return nil, o.rejected(app.CmdSendChat, roomID, userID, err)
	}
	if text == "" {
		return nil, nil
	}

	var msg domain.ChatMessage
	_, err = o.Registry.Mutate(roomID, func(tx *app.Tx) error {
		if err := o.Policy.Authorize(tx.Room, userID, app.CmdSendChat); err != nil {
			return err
		}
		sender, _ := tx.Room.Member(userID)
		msg = domain.ChatMessage{
			ID:        o.IDs.NewMessageID(),
			RoomID:    tx.Room.ID,
			UserID:    sender.ID,
			UserName:  sender.Name,
			Body:      text,
			Timestamp: tx.Now,
		}
		o.Chat.Append(tx.Room.ID, msg)
		tx.Emit(func() core.Event { return core.ChatPosted(tx.Room, msg, tx.Now) })
		return nil
	})
	if err != nil {
		return nil, o.rejected(app.CmdSendChat, roomID, userID, err)
	}
	return &msg, nil
}
