package app

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/dkeye/WatchParty/internal/metrics"
	"github.com/rs/zerolog/log"
)

// HostLeavePolicy decides what happens when the host leaves a room that
// still has other members. Leaving the room hostless would break the
// one-host-per-live-room rule, so the room is either closed or handed to
// the earliest-joined member; it never stays without a host.
type HostLeavePolicy string

const (
	HostLeaveClose    HostLeavePolicy = "close"
	HostLeaveTransfer HostLeavePolicy = "transfer"
)

const ReasonHostLeft = "host_left"

var ErrCodeSpaceExhausted = errors.New("no free room code")

type RegistryConfig struct {
	DefaultMaxUsers int
	MaxUsersLimit   int
	HostLeave       HostLeavePolicy
	CodeRetries     int
}

func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		DefaultMaxUsers: domain.DefaultMaxUsers,
		MaxUsersLimit:   domain.DefaultMaxUsers,
		HostLeave:       HostLeaveClose,
		CodeRetries:     16,
	}
}

type roomEntry struct {
	mu     sync.Mutex
	room   domain.Room
	closed bool
}

// Registry owns every live room. The map is guarded by mu, each room by
// its own entry lock. Lock order is entry, then registry.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomEntry

	ids    core.IDGenerator
	bus    core.EventBus
	policy Policy
	cfg    RegistryConfig
	now    func() time.Time

	onDestroy []func(domain.RoomID)
}

func NewRegistry(ids core.IDGenerator, bus core.EventBus, policy Policy, cfg RegistryConfig) *Registry {
	def := DefaultRegistryConfig()
	if cfg.MaxUsersLimit <= 0 {
		cfg.MaxUsersLimit = def.MaxUsersLimit
	}
	if cfg.DefaultMaxUsers <= 0 || cfg.DefaultMaxUsers > cfg.MaxUsersLimit {
		cfg.DefaultMaxUsers = cfg.MaxUsersLimit
	}
	if cfg.HostLeave == "" {
		cfg.HostLeave = def.HostLeave
	}
	if cfg.CodeRetries <= 0 {
		cfg.CodeRetries = def.CodeRetries
	}
	return &Registry{
		rooms:  make(map[domain.RoomID]*roomEntry),
		ids:    ids,
		bus:    bus,
		policy: policy,
		cfg:    cfg,
		now:    time.Now,
	}
}

// OnDestroy registers fn to run after a room is removed. Register hooks
// before the registry is shared.
func (r *Registry) OnDestroy(fn func(domain.RoomID)) {
	r.onDestroy = append(r.onDestroy, fn)
}

// Tx is the working copy handed to Mutate callbacks. Changes are committed
// only when the callback returns nil.
type Tx struct {
	Room *domain.Room
	Now  time.Time

	events  []core.Event
	destroy bool
}

// Emit bumps the room sequence and records the event built after it.
// Recorded events are published in order on commit.
func (tx *Tx) Emit(build func() core.Event) {
	tx.Room.Seq++
	tx.events = append(tx.events, build())
}

// Destroy removes the room on commit.
func (tx *Tx) Destroy() { tx.destroy = true }

func (r *Registry) Create(name, hostName string, maxUsers int) (domain.Room, domain.User, error) {
	roomName, err := domain.NormalizeRoomName(name)
	if err != nil {
		return domain.Room{}, domain.User{}, err
	}
	switch {
	case maxUsers == 0:
		maxUsers = r.cfg.DefaultMaxUsers
	case maxUsers < 0 || maxUsers > r.cfg.MaxUsersLimit:
		return domain.Room{}, domain.User{}, fmt.Errorf("%w: max users must be within 1..%d",
			domain.ErrInvalidInput, r.cfg.MaxUsersLimit)
	}

	now := r.now()
	host, err := domain.NewUser(r.ids.NewParticipantID(), hostName, true, now)
	if err != nil {
		return domain.Room{}, domain.User{}, err
	}
	room := domain.Room{
		Name:      roomName,
		HostID:    host.ID,
		Users:     []domain.User{*host},
		Playback:  core.NewPlayback(now),
		MaxUsers:  maxUsers,
		CreatedAt: now,
	}

	r.mu.Lock()
	id, err := r.allocateCode()
	if err != nil {
		r.mu.Unlock()
		return domain.Room{}, domain.User{}, err
	}
	room.ID = id
	r.rooms[id] = &roomEntry{room: room}
	total := len(r.rooms)
	r.mu.Unlock()

	metrics.Rooms.Set(float64(total))
	metrics.Participants.Inc()
	log.Info().
		Str("module", "app.registry").
		Str("room", string(id)).
		Str("host", string(host.ID)).
		Int("max_users", maxUsers).
		Msg("room created")
	return room.Clone(), *host, nil
}

// allocateCode must be called with r.mu held.
func (r *Registry) allocateCode() (domain.RoomID, error) {
	for i := 0; i < r.cfg.CodeRetries; i++ {
		code := domain.NormalizeRoomID(string(r.ids.NewRoomCode()))
		if code == "" {
			continue
		}
		if _, taken := r.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

func (r *Registry) Join(roomID domain.RoomID, userName string) (domain.Room, domain.User, error) {
	name, err := domain.NormalizeUsername(userName)
	if err != nil {
		return domain.Room{}, domain.User{}, err
	}

	var joined domain.User
	room, err := r.Mutate(roomID, func(tx *Tx) error {
		if err := r.policy.Authorize(tx.Room, "", CmdJoin); err != nil {
			return err
		}
		joined = domain.User{ID: r.ids.NewParticipantID(), Name: name, JoinedAt: tx.Now}
		tx.Room.Users = append(tx.Room.Users, joined)
		tx.Emit(func() core.Event { return core.UserJoined(tx.Room, joined, tx.Now) })
		return nil
	})
	if err != nil {
		return domain.Room{}, domain.User{}, err
	}
	log.Info().
		Str("module", "app.registry").
		Str("room", string(room.ID)).
		Str("user", string(joined.ID)).
		Int("members", len(room.Users)).
		Msg("user joined")
	return room, joined, nil
}

// Leave removes userID from the room. It is a no-op for unknown rooms or
// non-members and reports whether anything was removed.
func (r *Registry) Leave(roomID domain.RoomID, userID domain.UserID) bool {
	removed := false
	_, err := r.Mutate(roomID, func(tx *Tx) error {
		u, ok := tx.Room.RemoveMember(userID)
		if !ok {
			return nil
		}
		removed = true

		switch {
		case len(tx.Room.Users) == 0:
			tx.Destroy()
		case u.ID != tx.Room.HostID:
			tx.Emit(func() core.Event { return core.UserLeft(tx.Room, u.ID, tx.Now) })
		case r.cfg.HostLeave == HostLeaveTransfer:
			tx.Room.Users[0].IsHost = true
			tx.Room.HostID = tx.Room.Users[0].ID
			tx.Emit(func() core.Event { return core.UserLeft(tx.Room, u.ID, tx.Now) })
			tx.Emit(func() core.Event { return core.HostChanged(tx.Room, tx.Now) })
		default:
			tx.Room.Users = nil
			tx.Emit(func() core.Event { return core.RoomClosed(tx.Room, ReasonHostLeft, tx.Now) })
			tx.Destroy()
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Error().Err(err).Str("module", "app.registry").Str("room", string(roomID)).Msg("leave failed")
	}
	if removed {
		log.Info().
			Str("module", "app.registry").
			Str("room", string(roomID)).
			Str("user", string(userID)).
			Msg("user left")
	}
	return removed
}

// Mutate runs fn on a copy of the room under the room's exclusive lock.
// On success the copy replaces the room and the recorded events are
// published before the lock is released.
func (r *Registry) Mutate(roomID domain.RoomID, fn func(tx *Tx) error) (domain.Room, error) {
	e, ok := r.entry(roomID)
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.Room{}, domain.ErrNotFound
	}

	work := e.room.Clone()
	tx := &Tx{Room: &work, Now: r.now()}
	if err := fn(tx); err != nil {
		return domain.Room{}, err
	}

	delta := len(work.Users) - len(e.room.Users)
	e.room = work
	for _, ev := range tx.events {
		r.bus.Publish(work.ID, ev)
	}
	if delta != 0 {
		metrics.Participants.Add(float64(delta))
	}
	if tx.destroy {
		e.closed = true
		r.destroy(work.ID)
	}
	return e.room.Clone(), nil
}

// View runs fn with a snapshot of the room while holding its lock, so no
// event for the room can be published until fn returns.
func (r *Registry) View(roomID domain.RoomID, fn func(room domain.Room) error) error {
	e, ok := r.entry(roomID)
	if !ok {
		return domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrNotFound
	}
	return fn(e.room.Clone())
}

func (r *Registry) Get(roomID domain.RoomID) (domain.Room, error) {
	var out domain.Room
	err := r.View(roomID, func(room domain.Room) error {
		out = room
		return nil
	})
	return out, err
}

// List returns summaries of live rooms, oldest first.
func (r *Registry) List() []domain.RoomInfo {
	r.mu.RLock()
	entries := make([]*roomEntry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	type row struct {
		info    domain.RoomInfo
		created time.Time
	}
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.closed {
			rows = append(rows, row{info: e.room.Info(), created: e.room.CreatedAt})
		}
		e.mu.Unlock()
	}
	slices.SortFunc(rows, func(a, b row) int {
		if c := a.created.Compare(b.created); c != 0 {
			return c
		}
		return cmp.Compare(a.info.ID, b.info.ID)
	})

	out := make([]domain.RoomInfo, len(rows))
	for i, rw := range rows {
		out[i] = rw.info
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) entry(roomID domain.RoomID) (*roomEntry, bool) {
	id := domain.NormalizeRoomID(string(roomID))
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[id]
	return e, ok
}

// destroy is called with the room's entry lock held.
func (r *Registry) destroy(roomID domain.RoomID) {
	r.mu.Lock()
	delete(r.rooms, roomID)
	total := len(r.rooms)
	r.mu.Unlock()

	r.bus.Drop(roomID)
	for _, fn := range r.onDestroy {
		fn(roomID)
	}
	metrics.Rooms.Set(float64(total))
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room destroyed")
}
