package app

import (
	"fmt"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
)

// RoomCodeAlphabet is the character set of shareable room codes.
const RoomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const DefaultRoomCodeLength = 8

// RandomIDs issues nanoid room codes and uuid participant/message ids.
type RandomIDs struct {
	code func() string
}

var _ core.IDGenerator = (*RandomIDs)(nil)

func NewRandomIDs(codeLength int) (*RandomIDs, error) {
	if codeLength <= 0 {
		codeLength = DefaultRoomCodeLength
	}
	gen, err := nanoid.CustomASCII(RoomCodeAlphabet, codeLength)
	if err != nil {
		return nil, fmt.Errorf("room code generator: %w", err)
	}
	return &RandomIDs{code: gen}, nil
}

func (g *RandomIDs) NewRoomCode() domain.RoomID {
	return domain.RoomID(g.code())
}

func (g *RandomIDs) NewParticipantID() domain.UserID {
	return domain.UserID(uuid.NewString())
}

func (g *RandomIDs) NewMessageID() domain.MessageID {
	return domain.MessageID(uuid.NewString())
}
