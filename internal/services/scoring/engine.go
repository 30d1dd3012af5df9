// Package scoring computes score deltas for each game mode. All functions
// are pure: they read round state and return the awards that would apply,
// each tagged with its idempotency key. The room state machine applies only
// awards whose key is not already in the room's award set, which is what
// makes duplicate event delivery harmless.
package scoring

import (
	"sort"
	"strconv"

	"github.com/partypop/partypop/internal/model"
)

// Award is one pending score delta for a player.
type Award struct {
	Player model.PlayerID
	Delta  int
	Key    model.AwardKey
}

// Engine holds the scoring rule constants. The zero value is not usable;
// construct with New.
type Engine struct {
	cfg Config
}

// Config holds the tunable scoring constants.
type Config struct {
	QuizAward int

	DrawingFirstAward int
	DrawingAwardStep  int
	DrawerBonus       int

	VotingAward int

	EmojiFirstAward int
	EmojiAwardStep  int
	EmojiAwardFloor int

	CategoryBidBonus int // multiplied by the winning bid on success
	CategoryPenalty  int // flat deduction on failure
}

// DefaultConfig returns the standard ruleset.
func DefaultConfig() Config {
	return Config{
		QuizAward:         100,
		DrawingFirstAward: 100,
		DrawingAwardStep:  20,
		DrawerBonus:       40,
		VotingAward:       50,
		EmojiFirstAward:   120,
		EmojiAwardStep:    20,
		EmojiAwardFloor:   40,
		CategoryBidBonus:  50,
		CategoryPenalty:   50,
	}
}

// New creates a scoring engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Award kind tags. Combined with (mode, round, player) they form the
// idempotency key for a scoring event.
const (
	kindAnswer      = "answer"
	kindGuess       = "guess"
	kindDrawerBonus = "drawer_bonus"
	kindNotChosen   = "not_chosen"
	kindResult      = "result"
)

// QuizAnswer returns the award for a player submitting an answer index.
// Only a correct answer earns points; resubmissions share the same key.
func (e *Engine) QuizAnswer(room *model.Room, player model.PlayerID, answerIndex int) []Award {
	if room.Content == nil || room.Content.Quiz == nil {
		return nil
	}
	if answerIndex != room.Content.Quiz.CorrectIndex {
		return nil
	}
	return []Award{{
		Player: player,
		Delta:  e.cfg.QuizAward,
		Key:    model.NewAwardKey(model.ModeQuiz, room.Round, player, kindAnswer),
	}}
}

// DrawingGuess returns the awards for a correct drawing guess: a decreasing
// award for the guesser by scoring order, and the drawer's one-time bonus
// the first time anyone scores. rank is the number of distinct guessers who
// already scored this round.
func (e *Engine) DrawingGuess(room *model.Room, drawer, guesser model.PlayerID, rank int) []Award {
	delta := e.cfg.DrawingFirstAward - rank*e.cfg.DrawingAwardStep
	if delta < 0 {
		delta = 0
	}
	awards := []Award{{
		Player: guesser,
		Delta:  delta,
		Key:    model.NewAwardKey(model.ModeDrawing, room.Round, guesser, kindGuess),
	}}
	awards = append(awards, Award{
		Player: drawer,
		Delta:  e.cfg.DrawerBonus,
		Key:    model.NewAwardKey(model.ModeDrawing, room.Round, drawer, kindDrawerBonus),
	})
	return awards
}

// EmojiGuess returns the award for a correct emoji guess at the given
// scoring rank, decreasing with a floor.
func (e *Engine) EmojiGuess(room *model.Room, player model.PlayerID, rank int) []Award {
	delta := e.cfg.EmojiFirstAward - rank*e.cfg.EmojiAwardStep
	if delta < e.cfg.EmojiAwardFloor {
		delta = e.cfg.EmojiAwardFloor
	}
	return []Award{{
		Player: player,
		Delta:  delta,
		Key:    model.NewAwardKey(model.ModeEmoji, room.Round, player, kindGuess),
	}}
}

// VotingResult tallies the votes in room.Submissions and, once every
// connected player has voted, awards every player who is not the single
// most-voted target. Ties between targets are broken deterministically: the
// target whose display name sorts first is "the chosen one".
func (e *Engine) VotingResult(room *model.Room) []Award {
	connected := room.ConnectedPlayers()
	if len(connected) == 0 {
		return nil
	}
	for _, p := range connected {
		if _, ok := room.Submissions[p.ID]; !ok {
			return nil
		}
	}

	tally := make(map[model.PlayerID]int)
	for _, target := range room.Submissions {
		tally[model.PlayerID(target)]++
	}

	chosen := chooseMostVoted(room, tally)
	if chosen == "" {
		return nil
	}

	var awards []Award
	for _, p := range room.Players {
		if p.ID == chosen {
			continue
		}
		awards = append(awards, Award{
			Player: p.ID,
			Delta:  e.cfg.VotingAward,
			Key:    model.NewAwardKey(model.ModeVoting, room.Round, p.ID, kindNotChosen),
		})
	}
	return awards
}

// chooseMostVoted returns the plurality target, breaking ties by whichever
// target's display name sorts first.
func chooseMostVoted(room *model.Room, tally map[model.PlayerID]int) model.PlayerID {
	best := 0
	for _, n := range tally {
		if n > best {
			best = n
		}
	}
	if best == 0 {
		return ""
	}

	var tied []model.PlayerID
	for id, n := range tally {
		if n == best {
			tied = append(tied, id)
		}
	}
	sort.Slice(tied, func(i, j int) bool {
		a, b := room.GetPlayer(tied[i]), room.GetPlayer(tied[j])
		an, bn := string(tied[i]), string(tied[j])
		if a != nil {
			an = a.Name
		}
		if b != nil {
			bn = b.Name
		}
		if an == bn {
			return tied[i] < tied[j]
		}
		return an < bn
	})
	return tied[0]
}

// CategoryResult returns the winner's final award once validation is done:
// a bonus scaled by the winning bid when enough words were accepted, or a
// flat penalty otherwise.
func (e *Engine) CategoryResult(room *model.Room) []Award {
	cat := room.Category
	if cat == nil || !cat.Validated || cat.WinnerID == "" {
		return nil
	}
	delta := -e.cfg.CategoryPenalty
	if cat.Succeeded {
		delta = e.cfg.CategoryBidBonus * cat.WinningBid
	}
	return []Award{{
		Player: cat.WinnerID,
		Delta:  delta,
		Key:    model.NewAwardKey(model.ModeCategory, room.Round, cat.WinnerID, kindResult+":"+strconv.Itoa(cat.WinningBid)),
	}}
}
