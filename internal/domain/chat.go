package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxChatBodyLen = 500

var ErrMessageTooLong = fmt.Errorf("%w: message too long", ErrInvalidInput)

type MessageID string

// ChatMessage is immutable once appended. UserName is captured at send time.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	RoomID    RoomID    `json:"room_id"`
	UserID    UserID    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// NormalizeChatBody trims body. An empty result is not an error; callers
// drop such messages silently.
func NormalizeChatBody(body string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = MaxChatBodyLen
	}
	text := strings.TrimSpace(body)
	if utf8.RuneCountInString(text) > maxLen {
		return "", ErrMessageTooLong
	}
	return text, nil
}
