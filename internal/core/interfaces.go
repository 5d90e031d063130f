package core

import "github.com/dkeye/WatchParty/internal/domain"

// Handler consumes one room event. A returned error or panic is isolated
// to this subscriber.
type Handler func(Event) error

// EventBus fans room events out to subscribers, FIFO per room.
// Publish must never block on subscribers.
type EventBus interface {
	Subscribe(roomID domain.RoomID, h Handler) (unsubscribe func())
	Publish(roomID domain.RoomID, ev Event)
	// Drop detaches every subscriber of roomID once queued events drain.
	Drop(roomID domain.RoomID)
	Subscribers(roomID domain.RoomID) int
}

// VideoResolver turns a user-supplied reference into a canonical video id.
type VideoResolver interface {
	Resolve(ref string) (string, error)
}

// IDGenerator issues room codes and opaque participant/message ids.
type IDGenerator interface {
	NewRoomCode() domain.RoomID
	NewParticipantID() domain.UserID
	NewMessageID() domain.MessageID
}


// Frame is one serialized message for a transport connection.
type Frame []byte

// SignalConnection is the outbound half of a client connection. TrySend
// never blocks; the adapter owning the connection closes it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
