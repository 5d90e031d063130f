package app

import (
	"sync"

	"github.com/dkeye/WatchParty/internal/domain"
)

// ChatLog keeps the append-only message history of each live room.
// Appends for one room happen under that room's lock, so the slice order
// is the publish order.
type ChatLog struct {
	mu   sync.RWMutex
	logs map[domain.RoomID][]domain.ChatMessage
}

func NewChatLog() *ChatLog {
	return &ChatLog{logs: make(map[domain.RoomID][]domain.ChatMessage)}
}

func (l *ChatLog) Append(roomID domain.RoomID, msg domain.ChatMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs[roomID] = append(l.logs[roomID], msg)
}

// History returns up to limit most recent messages, oldest first.
// limit <= 0 means everything.
func (l *ChatLog) History(roomID domain.RoomID, limit int) []domain.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	msgs := l.logs[roomID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

func (l *ChatLog) Len(roomID domain.RoomID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.logs[roomID])
}

func (l *ChatLog) Drop(roomID domain.RoomID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.logs, roomID)
}
