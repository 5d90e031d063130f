package signal

import (
	"context"
	"sync"

	"github.com/dkeye/WatchParty/internal/domain"
)

// SessionID is the opaque client token of a browser, taken from its cookie.
type SessionID string

// session is one websocket connection and the room identity bound to it.
// The identity is only ever set by the server after create or join.
type session struct {
	sid    SessionID
	conn   *WsSignalConn
	cancel context.CancelFunc

	mu     sync.Mutex
	roomID domain.RoomID
	user   domain.User
	unsub  func()
}

func newSession(sid SessionID, conn *WsSignalConn, cancel context.CancelFunc) *session {
	return &session{sid: sid, conn: conn, cancel: cancel}
}

func (s *session) bind(roomID domain.RoomID, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomID = roomID
	s.user = user
}

func (s *session) setUnsub(roomID domain.RoomID, unsub func()) {
	s.mu.Lock()
	if s.roomID != roomID {
		s.mu.Unlock()
		unsub()
		return
	}
	s.unsub = unsub
	s.mu.Unlock()
}

func (s *session) binding() (domain.RoomID, domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID, s.user, s.roomID != ""
}

// unbind clears the binding if it still points at roomID (any room when
// roomID is empty) and stops the room subscription.
func (s *session) unbind(roomID domain.RoomID) (domain.RoomID, domain.User, bool) {
	s.mu.Lock()
	if s.roomID == "" || (roomID != "" && s.roomID != roomID) {
		s.mu.Unlock()
		return "", domain.User{}, false
	}
	id, user, unsub := s.roomID, s.user, s.unsub
	s.roomID, s.user, s.unsub = "", domain.User{}, nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	return id, user, true
}
