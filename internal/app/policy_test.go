package app

import (
	"testing"

	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testRoom() *domain.Room {
	return &domain.Room{
		ID:       "ROOM0001",
		Name:     "Movie Night",
		HostID:   "alice",
		MaxUsers: 2,
		Users: []domain.User{
			{ID: "alice", Name: "Alice", IsHost: true},
			{ID: "bob", Name: "Bob"},
		},
	}
}

func TestSimplePolicy_Authorize(t *testing.T) {
	tests := []struct {
		name    string
		user    domain.UserID
		cmd     Command
		wantErr error
	}{
		{name: "host changes video", user: "alice", cmd: CmdChangeVideo},
		{name: "host controls playback", user: "alice", cmd: CmdControlPlayback},
		{name: "viewer changes video", user: "bob", cmd: CmdChangeVideo, wantErr: domain.ErrForbidden},
		{name: "viewer controls playback", user: "bob", cmd: CmdControlPlayback, wantErr: domain.ErrForbidden},
		{name: "stranger controls playback", user: "eve", cmd: CmdControlPlayback, wantErr: domain.ErrNotMember},
		{name: "member chats", user: "bob", cmd: CmdSendChat},
		{name: "stranger chats", user: "eve", cmd: CmdSendChat, wantErr: domain.ErrNotMember},
		{name: "join full room", cmd: CmdJoin, wantErr: domain.ErrRoomFull},
		{name: "stranger leaves", user: "eve", cmd: CmdLeave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SimplePolicy{}.Authorize(testRoom(), tt.user, tt.cmd)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSimplePolicy_NotMemberIsForbidden(t *testing.T) {
	err := SimplePolicy{}.Authorize(testRoom(), "eve", CmdSendChat)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestSimplePolicy_JoinWithRoom(t *testing.T) {
	room := testRoom()
	room.MaxUsers = 3
	assert.NoError(t, SimplePolicy{}.Authorize(room, "", CmdJoin))
}

func TestSimplePolicy_OnBackPressure(t *testing.T) {
	assert.Equal(t, KickMember, SimplePolicy{}.OnBackPressure("ROOM", "bob"))
}
