package content

import (
	"context"

	"github.com/partypop/partypop/internal/model"
)

// StaticProvider serves content from in-memory pools. It backs tests and
// deployments without a database. The zero value serves nothing; tests can
// populate individual maps directly.
type StaticProvider struct {
	Quiz     map[model.PoolKey][]model.QuizQuestion
	Drawing  map[model.PoolKey][]model.DrawingWord
	Voting   map[model.PoolKey][]model.VotingPrompt
	Emoji    map[model.PoolKey][]model.EmojiRiddle
	Category map[model.PoolKey][]model.CategoryPrompt
}

var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider creates a provider preloaded with the built-in pools.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		Quiz:     builtinQuiz(),
		Drawing:  builtinDrawing(),
		Voting:   builtinVoting(),
		Emoji:    builtinEmoji(),
		Category: builtinCategory(),
	}
}

// Lookup picks the seed-selected item from the concatenation of the selected
// pools, in pool order.
func (p *StaticProvider) Lookup(_ context.Context, code model.RoomCode, round int, mode model.GameMode, pools []model.PoolKey) (*model.RoundContent, error) {
	pools = normalizePools(mode, pools)
	seed := Seed(code, round, mode)

	switch mode {
	case model.ModeQuiz:
		var items []model.QuizQuestion
		for _, pool := range pools {
			items = append(items, p.Quiz[pool]...)
		}
		idx := pickIndex(seed, len(items))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		q := items[idx]
		return &model.RoundContent{Mode: mode, Quiz: &q}, nil

	case model.ModeDrawing:
		var items []model.DrawingWord
		for _, pool := range pools {
			items = append(items, p.Drawing[pool]...)
		}
		idx := pickIndex(seed, len(items))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		w := items[idx]
		return &model.RoundContent{Mode: mode, Drawing: &w}, nil

	case model.ModeVoting:
		var items []model.VotingPrompt
		for _, pool := range pools {
			items = append(items, p.Voting[pool]...)
		}
		idx := pickIndex(seed, len(items))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		v := items[idx]
		return &model.RoundContent{Mode: mode, Voting: &v}, nil

	case model.ModeEmoji:
		var items []model.EmojiRiddle
		for _, pool := range pools {
			items = append(items, p.Emoji[pool]...)
		}
		idx := pickIndex(seed, len(items))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		e := items[idx]
		return &model.RoundContent{Mode: mode, Emoji: &e}, nil

	case model.ModeCategory:
		var items []model.CategoryPrompt
		for _, pool := range pools {
			items = append(items, p.Category[pool]...)
		}
		idx := pickIndex(seed, len(items))
		if idx < 0 {
			return nil, model.ErrNoContent
		}
		c := items[idx]
		return &model.RoundContent{Mode: mode, Category: &c}, nil
	}

	return nil, model.ErrUnknownMode
}

// CheckHealth always succeeds; static pools are always reachable.
func (p *StaticProvider) CheckHealth(_ context.Context) error {
	return nil
}
