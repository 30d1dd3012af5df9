// Package content provides read-only lookup of round content (questions,
// words, prompts, emoji riddles). Selection is deterministic in
// (room code, round, mode) so a reconnecting client can be served identical
// content without consulting any ordering-sensitive state.
package content

import (
	"context"
	"strconv"

	"github.com/partypop/partypop/internal/model"
)

// Provider selects one content item for a round, or returns
// model.ErrNoContent when the pools hold nothing for the mode.
type Provider interface {
	Lookup(ctx context.Context, code model.RoomCode, round int, mode model.GameMode, pools []model.PoolKey) (*model.RoundContent, error)

	// CheckHealth reports whether the backing source is reachable.
	CheckHealth(ctx context.Context) error
}

// Seed derives the deterministic selection seed for a round.
func Seed(code model.RoomCode, round int, mode model.GameMode) uint32 {
	raw := string(code) + ":" + strconv.Itoa(round) + ":" + string(mode)
	var h uint32
	for i := 0; i < len(raw); i++ {
		h = h*31 + uint32(raw[i])
	}
	return h
}

// pickIndex maps a seed onto a slice index, or -1 for an empty slice.
func pickIndex(seed uint32, n int) int {
	if n <= 0 {
		return -1
	}
	return int(seed % uint32(n))
}

// normalizePools substitutes the default pool when none are selected, and
// applies the emoji-mode preference for film/gaming pools.
func normalizePools(mode model.GameMode, pools []model.PoolKey) []model.PoolKey {
	if len(pools) == 0 {
		pools = []model.PoolKey{model.PoolWissen}
	}
	if mode != model.ModeEmoji {
		return pools
	}
	var preferred []model.PoolKey
	for _, p := range pools {
		if p == model.PoolFilm || p == model.PoolGaming {
			preferred = append(preferred, p)
		}
	}
	if len(preferred) > 0 {
		return preferred
	}
	return pools
}
