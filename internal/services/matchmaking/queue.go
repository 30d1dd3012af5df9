// Package matchmaking groups waiting players into random-origin rooms.
// Entries are bucketed by (region, language); grouping is first-fit over a
// bounded window and respects mutual blocks. The queue has its own lock and
// never reaches into a room's.
package matchmaking

import (
	"context"
	"log/slog"
	"sync"

	"github.com/partypop/partypop/internal/model"
	"github.com/partypop/partypop/internal/services/room"
)

// Entry is one waiting player.
type Entry struct {
	Client   model.ClientID
	PlayerID model.PlayerID
	Name     string
	Region   string
	Language string
}

type bucketKey struct {
	region   string
	language string
}

// Blocklist answers mutual-block queries; implemented by the abuse service.
type Blocklist interface {
	MutuallyBlocked(ctx context.Context, a, b model.PlayerID) (bool, error)
}

// Notifier delivers queue status to waiting connections and the room
// snapshot to each matched connection individually.
type Notifier interface {
	QueueStatus(clients []model.ClientID, status model.QueueStatusPayload)
	Matched(client model.ClientID, playerID model.PlayerID, snapshot *model.Room)
}

// Config holds the grouping parameters.
type Config struct {
	// GroupSize is the target room size.
	GroupSize int
	// Window caps how many entries per bucket a grouping attempt scans.
	// Grouping is O(window²) by construction; the cap keeps it bounded.
	Window int
}

// DefaultConfig returns the standard matchmaking parameters.
func DefaultConfig() Config {
	return Config{
		GroupSize: 4,
		Window:    12,
	}
}

// Queue holds the waiting entries and runs grouping after every enqueue.
type Queue struct {
	mu       sync.Mutex
	buckets  map[bucketKey][]Entry
	rooms    *room.Controller
	blocks   Blocklist
	notifier Notifier
	logger   *slog.Logger
	cfg      Config
}

// NewQueue creates an empty matchmaking queue.
func NewQueue(rooms *room.Controller, blocks Blocklist, notifier Notifier, logger *slog.Logger, cfg Config) *Queue {
	return &Queue{
		buckets:  make(map[bucketKey][]Entry),
		rooms:    rooms,
		blocks:   blocks,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "matchmaking")),
		cfg:      cfg,
	}
}

// Enqueue adds an entry to its bucket (replacing any previous entry for the
// same connection), attempts grouping, and pushes queue status to everyone
// still waiting in the bucket.
func (q *Queue) Enqueue(ctx context.Context, e Entry) {
	if e.PlayerID == "" {
		return
	}
	k := bucketKey{region: e.Region, language: e.Language}

	q.mu.Lock()
	q.removeClientLocked(e.Client)
	q.buckets[k] = append(q.buckets[k], e)
	matched := q.tryMatchLocked(ctx, k)
	waiting := q.statusLocked(k)
	q.mu.Unlock()

	q.deliver(k, matched, waiting)
}

// Dequeue removes the connection from every bucket and updates the buckets
// it left.
func (q *Queue) Dequeue(client model.ClientID) {
	q.mu.Lock()
	touched := q.removeClientLocked(client)
	statuses := make(map[bucketKey][]model.ClientID, len(touched))
	for _, k := range touched {
		statuses[k] = q.statusLocked(k)
	}
	q.mu.Unlock()

	for k, waiting := range statuses {
		q.notifyStatus(k, waiting)
	}
}

// Waiting returns the number of entries in a bucket.
func (q *Queue) Waiting(region, language string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buckets[bucketKey{region: region, language: language}])
}

// removeClientLocked drops the client from all buckets, preserving arrival
// order of the rest. Returns the buckets it was removed from.
func (q *Queue) removeClientLocked(client model.ClientID) []bucketKey {
	var touched []bucketKey
	for k, entries := range q.buckets {
		kept := entries[:0]
		removed := false
		for _, e := range entries {
			if e.Client == client {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		if removed {
			touched = append(touched, k)
		}
		if len(kept) == 0 {
			delete(q.buckets, k)
		} else {
			q.buckets[k] = kept
		}
	}
	return touched
}

// tryMatchLocked greedily grows a mutually-compatible group from each
// window position. First full-size group wins; its entries leave the queue
// and the remainder keeps its arrival order. Not optimal matching, only
// first-fit-compatible.
func (q *Queue) tryMatchLocked(ctx context.Context, k bucketKey) []Entry {
	entries := q.buckets[k]
	window := entries
	if len(window) > q.cfg.Window {
		window = window[:q.cfg.Window]
	}
	if len(window) < q.cfg.GroupSize {
		return nil
	}

	for start := range window {
		group := []Entry{window[start]}
		for j, candidate := range window {
			if len(group) >= q.cfg.GroupSize {
				break
			}
			if j == start {
				continue
			}
			if q.compatible(ctx, group, candidate) {
				group = append(group, candidate)
			}
		}
		if len(group) == q.cfg.GroupSize {
			q.buckets[k] = removeEntries(entries, group)
			if len(q.buckets[k]) == 0 {
				delete(q.buckets, k)
			}
			return group
		}
	}
	return nil
}

// compatible reports whether the candidate is not mutually blocked with any
// current group member. Errors from the blocklist are treated as blocked:
// better to skip a pairing than to force one past an unreadable ledger.
func (q *Queue) compatible(ctx context.Context, group []Entry, candidate Entry) bool {
	for _, member := range group {
		blocked, err := q.blocks.MutuallyBlocked(ctx, member.PlayerID, candidate.PlayerID)
		if err != nil {
			q.logger.Warn("blocklist lookup failed",
				slog.String("error", err.Error()))
			return false
		}
		if blocked {
			return false
		}
	}
	return true
}

func removeEntries(entries []Entry, group []Entry) []Entry {
	inGroup := make(map[model.ClientID]struct{}, len(group))
	for _, g := range group {
		inGroup[g.Client] = struct{}{}
	}
	kept := entries[:0]
	for _, e := range entries {
		if _, ok := inGroup[e.Client]; !ok {
			kept = append(kept, e)
		}
	}
	return kept
}

// statusLocked returns the clients still waiting in a bucket.
func (q *Queue) statusLocked(k bucketKey) []model.ClientID {
	entries := q.buckets[k]
	clients := make([]model.ClientID, len(entries))
	for i, e := range entries {
		clients[i] = e.Client
	}
	return clients
}

// deliver creates the matched room (outside the queue lock) and notifies
// everyone involved.
func (q *Queue) deliver(k bucketKey, matched []Entry, waiting []model.ClientID) {
	if len(matched) > 0 {
		members := make([]*model.Player, len(matched))
		for i, e := range matched {
			members[i] = &model.Player{ID: e.PlayerID, Name: e.Name}
		}
		snapshot := q.rooms.CreateMatchedRoom(members)

		q.logger.Info("match made",
			slog.String("region", k.region),
			slog.String("language", k.language),
			slog.String("code", string(snapshot.Code)),
			slog.Int("players", len(matched)))

		for _, e := range matched {
			q.notifier.Matched(e.Client, e.PlayerID, snapshot)
		}
	}

	q.notifyStatus(k, waiting)
}

func (q *Queue) notifyStatus(k bucketKey, waiting []model.ClientID) {
	if len(waiting) == 0 {
		return
	}
	q.notifier.QueueStatus(waiting, model.QueueStatusPayload{
		Waiting:  len(waiting),
		Region:   k.region,
		Language: k.language,
	})
}
