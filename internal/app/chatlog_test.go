package app

import (
	"fmt"
	"testing"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/stretchr/testify/assert"
)

func msg(i int) domain.ChatMessage {
	return domain.ChatMessage{ID: domain.MessageID(fmt.Sprintf("m%d", i)), Body: fmt.Sprintf("hello %d", i)}
}

func TestChatLog_AppendAndHistory(t *testing.T) {
	l := NewChatLog()
	for i := 1; i <= 5; i++ {
		l.Append("ROOM", msg(i))
	}

	all := l.History("ROOM", 0)
	assert.Len(t, all, 5)
	assert.Equal(t, domain.MessageID("m1"), all[0].ID)
	assert.Equal(t, domain.MessageID("m5"), all[4].ID)

	last := l.History("ROOM", 2)
	assert.Equal(t, []domain.ChatMessage{msg(4), msg(5)}, last)
	assert.Equal(t, 5, l.Len("ROOM"))
}

func TestChatLog_HistoryIsACopy(t *testing.T) {
	l := NewChatLog()
	l.Append("ROOM", msg(1))

	h := l.History("ROOM", 0)
	h[0].Body = "edited"

	assert.Equal(t, "hello 1", l.History("ROOM", 0)[0].Body)
}

func TestChatLog_Drop(t *testing.T) {
	l := NewChatLog()
	l.Append("ROOM", msg(1))
	l.Append("OTHER", msg(2))

	l.Drop("ROOM")

	assert.Empty(t, l.History("ROOM", 0))
	assert.Equal(t, 1, l.Len("OTHER"))
}
