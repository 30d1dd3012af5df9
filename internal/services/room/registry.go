// Package room implements the authoritative room registry and the per-room
// state machine. Every room mutation runs under that room's lock for the
// full duration of the transition, which restores the exclusivity a
// single-threaded event loop would give for free. Matchmaking and rate
// limiting have their own locks and never touch a room's.
package room

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/partypop/partypop/internal/dependencies/clock"
	"github.com/partypop/partypop/internal/dependencies/random"
	"github.com/partypop/partypop/internal/model"
)

// Notifier is the outbound side of the registry: the transport hub.
// RoomUpdated receives a snapshot clone, so the hub can marshal it outside
// any room lock.
type Notifier interface {
	RoomUpdated(room *model.Room)
	RoomClosed(code model.RoomCode, reason model.ServerError)
}

// Registry owns every active room. It is constructed once at process start
// and holds the single source of truth; there is no module-level state.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[model.RoomCode]*entry
	notifier Notifier
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

type entry struct {
	mu   sync.Mutex
	room *model.Room

	// notifyMu serializes outbound snapshots per room. It is acquired
	// before mu is released, so broadcasts leave in mutation order even
	// though they run outside the state lock.
	notifyMu sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry(notifier Notifier, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		rooms:    make(map[model.RoomCode]*entry),
		notifier: notifier,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "registry")),
	}
}

// Defaults for a freshly created room.
const (
	DefaultMaxRounds    = 5
	DefaultRoundSeconds = 60
	DefaultFreePlays    = 3
	MaxPlayers          = 8
)

// Create constructs a room in the lobby phase with the given host and
// registers it under a fresh 4-digit code, retrying on collision.
func (r *Registry) Create(host *model.Player, origin model.RoomOrigin) *model.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code model.RoomCode
	for {
		code = model.RoomCode(strconv.Itoa(1000 + r.random.Intn(9000)))
		if _, exists := r.rooms[code]; !exists {
			break
		}
	}

	host.IsHost = true
	host.Connected = true

	room := &model.Room{
		Code:               code,
		Origin:             origin,
		HostID:             host.ID,
		Phase:              model.PhaseLobby,
		Round:              0,
		MaxRounds:          DefaultMaxRounds,
		RoundSeconds:       DefaultRoundSeconds,
		Pools:              []model.PoolKey{model.PoolWissen},
		Players:            []*model.Player{host},
		Submissions:        make(map[model.PlayerID]string),
		FreePlaysRemaining: DefaultFreePlays,
		CreatedAt:          r.clock.Now(),
	}
	r.rooms[code] = &entry{room: room}

	r.logger.Info("room created",
		slog.String("code", string(code)),
		slog.String("origin", string(origin)),
		slog.String("host_id", string(host.ID)))

	return cloneRoom(room)
}

// Update runs fn on the room under its lock, then broadcasts a snapshot to
// the room unconditionally on success. This is the only write path clients
// observe, so the broadcast is never skipped or coalesced. Snapshots carry a
// version stamped under the lock and are delivered in version order: the
// notify lock is taken before the state lock is released, so a second
// mutation cannot overtake the first one's broadcast.
func (r *Registry) Update(code model.RoomCode, fn func(room *model.Room) error) error {
	r.mu.RLock()
	e, ok := r.rooms[code]
	r.mu.RUnlock()
	if !ok {
		return model.ErrRoomNotFound
	}

	e.mu.Lock()
	err := fn(e.room)
	var snapshot *model.Room
	if err == nil {
		e.room.Version++
		snapshot = cloneRoom(e.room)
		e.notifyMu.Lock()
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	r.notifier.RoomUpdated(snapshot)
	e.notifyMu.Unlock()
	return nil
}

// Snapshot returns a clone of the room for unicast delivery.
func (r *Registry) Snapshot(code model.RoomCode) (*model.Room, error) {
	r.mu.RLock()
	e, ok := r.rooms[code]
	r.mu.RUnlock()
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRoom(e.room), nil
}

// Destroy removes the room and notifies all members with a terminal error.
// The room's idempotency set dies with it.
func (r *Registry) Destroy(code model.RoomCode, reason model.ServerError) error {
	r.mu.Lock()
	_, ok := r.rooms[code]
	delete(r.rooms, code)
	r.mu.Unlock()
	if !ok {
		return model.ErrRoomNotFound
	}

	r.logger.Info("room destroyed",
		slog.String("code", string(code)),
		slog.String("reason", reason.Message))
	r.notifier.RoomClosed(code, reason)
	return nil
}

// Exists reports whether a room is registered under the code.
func (r *Registry) Exists(code model.RoomCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[code]
	return ok
}

// Count returns the number of active rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// cloneRoom deep-copies the parts of a room that outbound delivery reads,
// so marshaling never races a later mutation. The award set is internal and
// not cloned.
func cloneRoom(room *model.Room) *model.Room {
	c := *room
	c.Awards = model.AwardSet{}

	c.Players = make([]*model.Player, len(room.Players))
	for i, p := range room.Players {
		cp := *p
		c.Players[i] = &cp
	}

	c.Pools = append([]model.PoolKey(nil), room.Pools...)
	c.GuessLog = append([]model.GuessEntry(nil), room.GuessLog...)

	c.Submissions = make(map[model.PlayerID]string, len(room.Submissions))
	for k, v := range room.Submissions {
		c.Submissions[k] = v
	}

	if room.Content != nil {
		cc := *room.Content
		c.Content = &cc
	}
	if room.Category != nil {
		cat := *room.Category
		cat.Bids = make(map[model.PlayerID]int, len(room.Category.Bids))
		for k, v := range room.Category.Bids {
			cat.Bids[k] = v
		}
		cat.Eligible = append([]model.PlayerID(nil), room.Category.Eligible...)
		cat.Words = append([]string(nil), room.Category.Words...)
		c.Category = &cat
	}

	return &c
}
