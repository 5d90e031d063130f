// Package domain contains entity without logic, just meta-data
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxUserIDLen   = 36
	MaxUsernameLen = 36
)

var (
	ErrUsernameTooLong = fmt.Errorf("%w: username too long", ErrInvalidInput)
	ErrUsernameEmpty   = fmt.Errorf("%w: username empty", ErrInvalidInput)
)

type UserID string

// User is a room participant. IDs are always issued by the server.
type User struct {
	ID       UserID    `json:"id"`
	Name     string    `json:"name"`
	IsHost   bool      `json:"is_host"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID, username string, isHost bool, now time.Time) (*User, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Name: name, IsHost: isHost, JoinedAt: now}, nil
}

// NormalizeUsername trims the name and checks its length.
func NormalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return "", ErrUsernameEmpty
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return "", ErrUsernameTooLong
	}
	return name, nil
}
