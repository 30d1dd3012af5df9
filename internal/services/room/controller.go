package room

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/partypop/partypop/internal/content"
	"github.com/partypop/partypop/internal/dependencies/clock"
	"github.com/partypop/partypop/internal/dependencies/random"
	"github.com/partypop/partypop/internal/model"
	"github.com/partypop/partypop/internal/services/scoring"
)

// Config holds tunables for the room state machine.
type Config struct {
	MaxPlayers     int
	CategoryMaxBid int
	// TieRetryLimit bounds consecutive unresolved full-subset re-bids in
	// category battle before the lowest player ID among the tied bidders
	// wins deterministically.
	TieRetryLimit  int
	ContentTimeout time.Duration
	MaxNameLength  int
}

// DefaultConfig returns the standard room configuration.
func DefaultConfig() Config {
	return Config{
		MaxPlayers:     MaxPlayers,
		CategoryMaxBid: 10,
		TieRetryLimit:  3,
		ContentTimeout: 3 * time.Second,
		MaxNameLength:  24,
	}
}

// Controller is the room state machine: it validates authority and phase,
// invokes the scoring engine, mutates room state and schedules round timers.
// All mutations go through Registry.Update, so they are serialized per room
// and every change is followed by a broadcast.
type Controller struct {
	registry *Registry
	content  content.Provider
	engine   *scoring.Engine
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config
}

// NewController creates a room controller.
func NewController(
	registry *Registry,
	provider content.Provider,
	engine *scoring.Engine,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	return &Controller{
		registry: registry,
		content:  provider,
		engine:   engine,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "room")),
		cfg:      cfg,
	}
}

// Registry exposes the underlying registry.
func (c *Controller) Registry() *Registry {
	return c.registry
}

// ValidateName checks a display name: trimmed, non-empty, bounded length.
func (c *Controller) ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > c.cfg.MaxNameLength {
		return "", model.ErrInvalidName
	}
	return name, nil
}

// CreateRoom creates a private room hosted by the given player. A missing
// player ID is minted server-side.
func (c *Controller) CreateRoom(name string, playerID model.PlayerID) (*model.Room, error) {
	name, err := c.ValidateName(name)
	if err != nil {
		return nil, err
	}
	if playerID == "" {
		playerID = model.PlayerID(uuid.NewString())
	}

	host := &model.Player{ID: playerID, Name: name}
	return c.registry.Create(host, model.OriginPrivate), nil
}

// CreateMatchedRoom builds a random-origin room from matched queue members.
// The first member becomes host.
func (c *Controller) CreateMatchedRoom(members []*model.Player) *model.Room {
	host := members[0]
	room := c.registry.Create(host, model.OriginRandom)

	// Host is already in; append the rest under the room lock.
	_ = c.registry.Update(room.Code, func(r *model.Room) error {
		for _, m := range members[1:] {
			m.Connected = true
			m.IsHost = false
			r.Players = append(r.Players, m)
		}
		return nil
	})

	snap, _ := c.registry.Snapshot(room.Code)
	return snap
}

// JoinRoom adds a player to an existing room, or restores a previous
// identity: a matching player ID always reconnects, and a matching display
// name reconnects while that player is disconnected. Returns a snapshot for
// the room-joined unicast.
func (c *Controller) JoinRoom(code model.RoomCode, name string, playerID model.PlayerID) (*model.Room, model.PlayerID, error) {
	name, err := c.ValidateName(name)
	if err != nil {
		return nil, "", err
	}

	var joined model.PlayerID
	err = c.registry.Update(code, func(r *model.Room) error {
		if p := r.GetPlayer(playerID); p != nil {
			p.Connected = true
			joined = p.ID
			return nil
		}
		if p := r.GetPlayerByName(name); p != nil && !p.Connected {
			p.Connected = true
			joined = p.ID
			return nil
		}
		if len(r.Players) >= c.cfg.MaxPlayers {
			return model.ErrRoomFull
		}
		if playerID == "" {
			playerID = model.PlayerID(uuid.NewString())
		}
		r.Players = append(r.Players, &model.Player{
			ID:        playerID,
			Name:      name,
			Connected: true,
		})
		joined = playerID
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	snap, err := c.registry.Snapshot(code)
	if err != nil {
		return nil, "", err
	}
	return snap, joined, nil
}

// Leave handles an explicit leave or a dropped connection. The host leaving
// is fatal for the room; anyone else is marked disconnected in place so a
// rejoin can resume the same identity and score.
func (c *Controller) Leave(code model.RoomCode, playerID model.PlayerID) error {
	isHost := false
	err := c.registry.Update(code, func(r *model.Room) error {
		p := r.GetPlayer(playerID)
		if p == nil {
			return nil
		}
		if r.IsHost(playerID) {
			isHost = true
			return nil
		}
		p.Connected = false
		return nil
	})
	if err != nil {
		return err
	}

	if isHost {
		return c.registry.Destroy(code, model.ServerError{
			Code:    model.ErrCodeServerError,
			Message: "host left, room closed",
		})
	}
	return nil
}

// StartGame transitions lobby (or session_end, for a fresh session) into
// in_game round 1. Host only.
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode, playerID model.PlayerID, mode model.GameMode) error {
	if !model.ValidMode(mode) {
		return model.ErrUnknownMode
	}

	// Resolve content before publishing the transition; failure degrades to
	// a contentless round rather than blocking it.
	seedSnap, err := c.registry.Snapshot(code)
	if err != nil {
		return err
	}
	roundContent := c.fetchContent(ctx, code, 1, mode, seedSnap.Pools)

	var roundSeconds int
	err = c.registry.Update(code, func(r *model.Room) error {
		if !r.IsHost(playerID) {
			return model.ErrNotHost
		}
		if r.Phase == model.PhaseInGame {
			return nil // duplicate start, silent no-op
		}
		r.Phase = model.PhaseInGame
		r.Mode = mode
		r.Round = 1
		r.ResetRound()
		r.Content = roundContent
		if r.FreePlaysRemaining > 0 {
			r.FreePlaysRemaining--
		}
		c.initRoundState(r)
		roundSeconds = r.RoundSeconds
		return nil
	})
	if err != nil {
		return err
	}

	c.scheduleRoundTimer(code, 1, roundSeconds, mode)
	return nil
}

// AdvanceRound moves to the next round, switching mode if requested, or
// transitions to session_end once the configured round count is exhausted.
// Host only.
func (c *Controller) AdvanceRound(ctx context.Context, code model.RoomCode, playerID model.PlayerID, nextMode model.GameMode) error {
	snap, err := c.registry.Snapshot(code)
	if err != nil {
		return err
	}
	if snap.Phase != model.PhaseInGame {
		return nil
	}

	mode := snap.Mode
	if nextMode != "" && model.ValidMode(nextMode) {
		mode = nextMode
	}
	nextRound := snap.Round + 1

	var roundContent *model.RoundContent
	if snap.Round < snap.MaxRounds {
		roundContent = c.fetchContent(ctx, code, nextRound, mode, snap.Pools)
	}

	finished := false
	var roundSeconds int
	err = c.registry.Update(code, func(r *model.Room) error {
		if !r.IsHost(playerID) {
			return model.ErrNotHost
		}
		if r.Phase != model.PhaseInGame {
			return nil
		}
		if r.Round >= r.MaxRounds {
			r.Phase = model.PhaseSessionEnd
			r.ResetRound()
			finished = true
			return nil
		}
		r.Round++
		r.Mode = mode
		r.ResetRound()
		r.Content = roundContent
		c.initRoundState(r)
		roundSeconds = r.RoundSeconds
		return nil
	})
	if err != nil || finished {
		return err
	}

	c.scheduleRoundTimer(code, nextRound, roundSeconds, mode)
	return nil
}

// initRoundState sets up mode-specific sub-state at round start. Must be
// called with the room lock held (inside Update).
func (c *Controller) initRoundState(r *model.Room) {
	switch r.Mode {
	case model.ModeDrawing:
		// The drawer is pinned for the whole round: rotation by round
		// index over the connected set as it stands at round start. A
		// mid-round connect or disconnect never shifts the drawer.
		connected := r.ConnectedPlayers()
		if len(connected) > 0 {
			r.DrawerID = connected[(r.Round-1)%len(connected)].ID
		}
	case model.ModeCategory:
		cat := &model.CategoryRound{
			MaxBid: c.cfg.CategoryMaxBid,
			Bids:   make(map[model.PlayerID]int),
		}
		for _, p := range r.ConnectedPlayers() {
			cat.Eligible = append(cat.Eligible, p.ID)
		}
		r.Category = cat
	}
}

// fetchContent resolves round content with a bounded timeout, degrading to
// nil on any failure.
func (c *Controller) fetchContent(ctx context.Context, code model.RoomCode, round int, mode model.GameMode, pools []model.PoolKey) *model.RoundContent {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ContentTimeout)
	defer cancel()

	rc, err := c.content.Lookup(ctx, code, round, mode, pools)
	if err != nil {
		c.logger.Warn("no content for round",
			slog.String("code", string(code)),
			slog.Int("round", round),
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()))
		return nil
	}
	return rc
}

// scheduleRoundTimer arms the shared countdown for emoji rounds. Category
// battle has no round-start countdown: the word time box is armed at winner
// declaration so bidding time never eats into it. The expiry is delivered as
// an ordinary event: it re-checks phase and round under the room lock, so
// racing a near-simultaneous client event is safe.
func (c *Controller) scheduleRoundTimer(code model.RoomCode, round int, seconds int, mode model.GameMode) {
	if mode != model.ModeEmoji {
		return
	}
	if seconds <= 0 {
		seconds = DefaultRoundSeconds
	}
	c.afterSeconds(seconds, func() {
		c.onRoundTimeout(code, round)
	})
}

// afterSeconds schedules fn on a background timer through the injected
// clock. Timer expiries are ordinary events; everything they touch re-checks
// phase and round under the room lock.
func (c *Controller) afterSeconds(seconds int, fn func()) {
	c.clock.AfterFunc(time.Duration(seconds)*time.Second, fn)
}

// onRoundTimeout force-ends an emoji round regardless of completion.
func (c *Controller) onRoundTimeout(code model.RoomCode, round int) {
	err := c.registry.Update(code, func(r *model.Room) error {
		if r.Phase != model.PhaseInGame || r.Round != round || r.RoundComplete {
			return nil
		}
		if r.Mode == model.ModeEmoji {
			r.RoundComplete = true
		}
		return nil
	})
	if err != nil && err != model.ErrRoomNotFound {
		c.logger.Warn("round timer update failed",
			slog.String("code", string(code)),
			slog.String("error", err.Error()))
	}
}

// HandleAction dispatches a decoded player action. Authority and phase
// gates live here; duplicate or phase-mismatched submissions are silent
// no-ops, because they are expected under retried delivery.
func (c *Controller) HandleAction(ctx context.Context, code model.RoomCode, playerID model.PlayerID, action model.PlayerAction) error {
	switch a := action.(type) {
	case model.HostNextRound:
		return c.AdvanceRound(ctx, code, playerID, a.NextMode)
	case model.HostSetRoundSeconds:
		return c.hostSetRoundSeconds(code, playerID, a.RoundSeconds)
	case model.HostSetPools:
		return c.hostSetPools(code, playerID, a.Pools)
	case model.HostSetMaxRounds:
		return c.hostSetMaxRounds(code, playerID, a.MaxRounds)
	case model.QuizSubmit:
		return c.quizSubmit(code, playerID, a.AnswerIndex)
	case model.VotingSubmit:
		return c.votingSubmit(code, playerID, a.Target)
	case model.DrawingGuess:
		return c.drawingGuess(code, playerID, a.Guess)
	case model.EmojiSubmit:
		return c.emojiSubmit(code, playerID, a.Guess)
	case model.CategoryBid:
		return c.categoryBid(code, playerID, a.Bid)
	case model.CategoryWords:
		return c.categoryWords(code, playerID, a.Words)
	case model.CategoryValidate:
		return c.categoryValidate(code, playerID, a.Accepted)
	}
	return model.ErrInvalidPayload
}

func (c *Controller) hostSetRoundSeconds(code model.RoomCode, playerID model.PlayerID, seconds int) error {
	if seconds < 10 || seconds > 600 {
		return model.ErrInvalidPayload
	}
	return c.registry.Update(code, func(r *model.Room) error {
		if !r.IsHost(playerID) {
			return model.ErrNotHost
		}
		r.RoundSeconds = seconds
		return nil
	})
}

func (c *Controller) hostSetPools(code model.RoomCode, playerID model.PlayerID, pools []model.PoolKey) error {
	for _, p := range pools {
		if !model.ValidPool(p) {
			return model.ErrInvalidPayload
		}
	}
	return c.registry.Update(code, func(r *model.Room) error {
		if !r.IsHost(playerID) {
			return model.ErrNotHost
		}
		r.Pools = append([]model.PoolKey(nil), pools...)
		return nil
	})
}

func (c *Controller) hostSetMaxRounds(code model.RoomCode, playerID model.PlayerID, n int) error {
	if n < 1 || n > 20 {
		return model.ErrInvalidPayload
	}
	return c.registry.Update(code, func(r *model.Room) error {
		if !r.IsHost(playerID) {
			return model.ErrNotHost
		}
		r.MaxRounds = n
		return nil
	})
}

// quizSubmit records an answer and awards a first-time correct submission.
// The latest index is recorded, but the award key is per (round, player), so
// points can never be granted twice.
func (c *Controller) quizSubmit(code model.RoomCode, playerID model.PlayerID, answerIndex int) error {
	return c.registry.Update(code, func(r *model.Room) error {
		if !c.inRound(r, model.ModeQuiz) || r.GetPlayer(playerID) == nil {
			return nil
		}
		r.Submissions[playerID] = strconv.Itoa(answerIndex)
		c.applyAwards(r, c.engine.QuizAnswer(r, playerID, answerIndex))

		// Reveal once every connected player has answered.
		allIn := true
		for _, p := range r.ConnectedPlayers() {
			if _, ok := r.Submissions[p.ID]; !ok {
				allIn = false
				break
			}
		}
		if allIn {
			r.RoundComplete = true
		}
		return nil
	})
}

// votingSubmit records a vote; the first vote per player is sticky. Scoring
// fires exactly once, when the last connected player votes.
func (c *Controller) votingSubmit(code model.RoomCode, playerID model.PlayerID, target model.PlayerID) error {
	return c.registry.Update(code, func(r *model.Room) error {
		if !c.inRound(r, model.ModeVoting) || r.GetPlayer(playerID) == nil {
			return nil
		}
		if r.GetPlayer(target) == nil {
			return model.ErrInvalidPayload
		}
		if _, voted := r.Submissions[playerID]; voted {
			return nil
		}
		r.Submissions[playerID] = string(target)

		c.applyAwards(r, c.engine.VotingResult(r))

		// Completion depends on votes, not awards: a tally where everyone
		// was chosen (a lone player voting for themself) still ends the
		// round, just with nothing credited.
		allVoted := true
		for _, p := range r.ConnectedPlayers() {
			if _, ok := r.Submissions[p.ID]; !ok {
				allVoted = false
				break
			}
		}
		if allVoted {
			r.RoundComplete = true
		}
		return nil
	})
}

// drawingDrawer returns the drawer pinned at round start, or nil.
func drawingDrawer(r *model.Room) *model.Player {
	if r.DrawerID == "" {
		return nil
	}
	return r.GetPlayer(r.DrawerID)
}

// drawingGuess logs a guess, checks it server-side against the secret word
// and awards by scoring order. The drawer's bonus applies once, on the first
// scoring guess.
func (c *Controller) drawingGuess(code model.RoomCode, playerID model.PlayerID, guess string) error {
	return c.registry.Update(code, func(r *model.Room) error {
		if !c.inRound(r, model.ModeDrawing) || r.GetPlayer(playerID) == nil {
			return nil
		}
		drawer := drawingDrawer(r)
		if drawer == nil || drawer.ID == playerID {
			return nil
		}

		secret := ""
		if r.Content != nil && r.Content.Drawing != nil {
			secret = r.Content.Drawing.Word
		}
		correct := secret != "" && scoring.GuessMatches(guess, secret)

		// Rank by distinct players who scored before this guess.
		rank := len(correctGuessers(r))

		r.GuessLog = append(r.GuessLog, model.GuessEntry{
			PlayerID: playerID,
			Value:    guess,
			Correct:  &correct,
		})

		if correct {
			c.applyAwards(r, c.engine.DrawingGuess(r, drawer.ID, playerID, rank))
		}

		// Round auto-completes once every connected non-drawer has scored.
		scored := correctGuessers(r)
		done := true
		for _, p := range r.ConnectedPlayers() {
			if p.ID == drawer.ID {
				continue
			}
			if _, ok := scored[p.ID]; !ok {
				done = false
				break
			}
		}
		if done {
			r.RoundComplete = true
		}
		return nil
	})
}

// correctGuessers returns the distinct players with a correct entry in the
// round log.
func correctGuessers(r *model.Room) map[model.PlayerID]struct{} {
	out := make(map[model.PlayerID]struct{})
	for _, e := range r.GuessLog {
		if e.Correct != nil && *e.Correct {
			out[e.PlayerID] = struct{}{}
		}
	}
	return out
}

// emojiSubmit records a guess (latest overwrites) and awards first-time
// correct guesses in submission order. The shared countdown force-ends the
// round regardless of completion.
func (c *Controller) emojiSubmit(code model.RoomCode, playerID model.PlayerID, guess string) error {
	return c.registry.Update(code, func(r *model.Room) error {
		if !c.inRound(r, model.ModeEmoji) || r.GetPlayer(playerID) == nil {
			return nil
		}
		answer := ""
		if r.Content != nil && r.Content.Emoji != nil {
			answer = r.Content.Emoji.Answer
		}
		correct := answer != "" && scoring.GuessMatches(guess, answer)

		rank := len(correctGuessers(r))

		r.Submissions[playerID] = guess
		r.GuessLog = append(r.GuessLog, model.GuessEntry{
			PlayerID: playerID,
			Value:    guess,
			Correct:  &correct,
		})

		if correct {
			c.applyAwards(r, c.engine.EmojiGuess(r, playerID, rank))
		}

		// Early completion when every connected player has guessed right.
		scored := correctGuessers(r)
		done := true
		for _, p := range r.ConnectedPlayers() {
			if _, ok := scored[p.ID]; !ok {
				done = false
				break
			}
		}
		if done {
			r.RoundComplete = true
		}
		return nil
	})
}

// inRound reports whether submissions for the given mode are currently
// accepted. Mismatches are not errors; callers no-op on false.
func (c *Controller) inRound(r *model.Room, mode model.GameMode) bool {
	return r.Phase == model.PhaseInGame && r.Mode == mode && !r.RoundComplete
}

// applyAwards credits every award whose key has not fired this round, and
// skips the rest. Cumulative scores never drop below zero.
func (c *Controller) applyAwards(r *model.Room, awards []scoring.Award) {
	for _, a := range awards {
		if !r.Awards.Grant(a.Key) {
			continue
		}
		p := r.GetPlayer(a.Player)
		if p == nil {
			continue
		}
		p.Score += a.Delta
		if p.Score < 0 {
			p.Score = 0
		}
	}
}
