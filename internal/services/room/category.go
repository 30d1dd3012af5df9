package room

import (
	"fmt"
	"sort"

	"github.com/partypop/partypop/internal/model"
)

// Category battle runs a sub-protocol inside a round: secret bidding (with
// re-bids among tied subsets), a time-boxed word submission by the winner,
// and a single validation pass that settles the score. All control state is
// explicit on model.CategoryRound; the guess log only carries the
// player-visible result line at the end.

// categoryBid accepts one immutable secret bid from an eligible bidder.
// When the last eligible bid lands, the round resolves or re-enters bidding
// restricted to the tied subset.
func (c *Controller) categoryBid(code model.RoomCode, playerID model.PlayerID, bid int) error {
	return c.registry.Update(code, func(r *model.Room) error {
		if !c.inRound(r, model.ModeCategory) || r.Category == nil {
			return nil
		}
		cat := r.Category
		if cat.WinnerID != "" || !cat.IsEligible(playerID) {
			return nil
		}
		if bid < 1 || bid > cat.MaxBid {
			return model.ErrInvalidBid
		}
		if _, already := cat.Bids[playerID]; already {
			return nil // bids are immutable once placed
		}
		cat.Bids[playerID] = bid

		for _, id := range cat.Eligible {
			if _, ok := cat.Bids[id]; !ok {
				return nil // still waiting on someone
			}
		}
		c.resolveBidding(r)
		return nil
	})
}

// resolveBidding inspects the complete eligible bid set. A unique maximum
// declares the winner; a tie clears only the tied players' bids and
// restricts bidding to them. Equal secret bids can in principle repeat
// forever, so after TieRetryLimit consecutive unresolved ties the lowest
// player ID among the tied bidders wins.
func (c *Controller) resolveBidding(r *model.Room) {
	cat := r.Category

	max := 0
	for _, id := range cat.Eligible {
		if cat.Bids[id] > max {
			max = cat.Bids[id]
		}
	}
	var holders []model.PlayerID
	for _, id := range cat.Eligible {
		if cat.Bids[id] == max {
			holders = append(holders, id)
		}
	}

	if len(holders) > 1 {
		cat.TieRetries++
		if cat.TieRetries < c.cfg.TieRetryLimit {
			// Re-bid restricted to the tied subset. Broadcast of this
			// intermediate state happens via the enclosing Update.
			for _, id := range holders {
				delete(cat.Bids, id)
			}
			cat.Eligible = holders
			return
		}
		sort.Slice(holders, func(i, j int) bool { return holders[i] < holders[j] })
		holders = holders[:1]
	}

	c.declareWinner(r, holders[0], max)
}

// declareWinner fixes the winner and picks the validator: the host, unless
// the host won, in which case a pseudo-random other connected player. If the
// winner is the only connected player, they validate themselves.
func (c *Controller) declareWinner(r *model.Room, winner model.PlayerID, bid int) {
	cat := r.Category
	cat.WinnerID = winner
	cat.WinningBid = bid

	if r.HostID != winner {
		cat.Validator = r.HostID
	} else {
		var others []model.PlayerID
		for _, p := range r.ConnectedPlayers() {
			if p.ID != winner {
				others = append(others, p.ID)
			}
		}
		if len(others) > 0 {
			cat.Validator = others[c.random.Intn(len(others))]
		} else {
			cat.Validator = winner
		}
	}

	c.scheduleWordTimer(r)
}

// scheduleWordTimer arms the word-submission time box. Expiry goes through
// the same finalize path as a manual submission.
func (c *Controller) scheduleWordTimer(r *model.Room) {
	seconds := r.RoundSeconds
	if seconds <= 0 {
		seconds = DefaultRoundSeconds
	}
	code, round := r.Code, r.Round
	c.afterSeconds(seconds, func() {
		_ = c.registry.Update(code, func(r *model.Room) error {
			if r.Phase != model.PhaseInGame || r.Round != round || r.Category == nil {
				return nil
			}
			c.finalizeCategoryWords(r, nil, true)
			return nil
		})
	})
}

// categoryWords accepts the winner's word list, once.
func (c *Controller) categoryWords(code model.RoomCode, playerID model.PlayerID, words []string) error {
	return c.registry.Update(code, func(r *model.Room) error {
		if !c.inRound(r, model.ModeCategory) || r.Category == nil {
			return nil
		}
		cat := r.Category
		if cat.WinnerID == "" || cat.WinnerID != playerID {
			return nil
		}
		c.finalizeCategoryWords(r, words, false)
		return nil
	})
}

// finalizeCategoryWords settles the word list exactly once; the manual path
// and the timer path both land here, so they converge on identical state.
// auto keeps whatever was already stored (possibly nothing) when the timer
// fires first. Must be called with the room lock held.
func (c *Controller) finalizeCategoryWords(r *model.Room, words []string, auto bool) {
	cat := r.Category
	if cat == nil || cat.WinnerID == "" || cat.WordsFinal {
		return
	}
	if !auto {
		if len(words) > cat.WinningBid {
			words = words[:cat.WinningBid]
		}
		cat.Words = append([]string(nil), words...)
	}
	cat.WordsFinal = true
}

// categoryValidate applies the validator's accept/reject decisions, once,
// and immediately settles the score through the idempotency-token path.
func (c *Controller) categoryValidate(code model.RoomCode, playerID model.PlayerID, accepted []bool) error {
	return c.registry.Update(code, func(r *model.Room) error {
		if !c.inRound(r, model.ModeCategory) || r.Category == nil {
			return nil
		}
		cat := r.Category
		if cat.Validator == "" || cat.Validator != playerID || !cat.WordsFinal {
			return nil
		}
		if cat.Validated {
			return nil
		}

		count := 0
		for i, ok := range accepted {
			if i >= len(cat.Words) {
				break
			}
			if ok {
				count++
			}
		}
		cat.Accepted = count
		cat.Succeeded = count >= cat.WinningBid
		cat.Validated = true

		c.applyAwards(r, c.engine.CategoryResult(r))
		r.RoundComplete = true

		// Player-visible terminal line; clients treat it as "round over".
		succeeded := cat.Succeeded
		r.GuessLog = append(r.GuessLog, model.GuessEntry{
			PlayerID: cat.WinnerID,
			Value:    fmt.Sprintf("%d/%d words accepted", count, cat.WinningBid),
			Correct:  &succeeded,
		})
		return nil
	})
}
