package model

import "time"

// RoomCode is the 4-digit human-enterable join code for a room.
type RoomCode string

// RoomOrigin records how a room came to exist.
type RoomOrigin string

const (
	OriginPrivate RoomOrigin = "private" // created explicitly by a host
	OriginRandom  RoomOrigin = "random"  // created by the matchmaking queue
)

// GameMode identifies one of the playable modes.
type GameMode string

const (
	ModeQuiz     GameMode = "quiz"
	ModeDrawing  GameMode = "drawing"
	ModeVoting   GameMode = "voting"
	ModeEmoji    GameMode = "emoji"
	ModeCategory GameMode = "category"
)

// Modes lists all playable modes.
var Modes = []GameMode{ModeQuiz, ModeDrawing, ModeVoting, ModeEmoji, ModeCategory}

// ValidMode reports whether m names a known game mode.
func ValidMode(m GameMode) bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// GamePhase is the coarse room lifecycle state.
type GamePhase string

const (
	PhaseLobby      GamePhase = "lobby"
	PhaseInGame     GamePhase = "in_game"
	PhaseSessionEnd GamePhase = "session_end"
)

// PoolKey selects a content pool (edition) for round content.
type PoolKey string

const (
	PoolFussball   PoolKey = "fussball"
	PoolWissen     PoolKey = "wissen"
	PoolRomantisch PoolKey = "romantisch"
	PoolGaming     PoolKey = "gaming"
	PoolFilm       PoolKey = "film"
)

// ValidPool reports whether k names a known content pool.
func ValidPool(k PoolKey) bool {
	switch k {
	case PoolFussball, PoolWissen, PoolRomantisch, PoolGaming, PoolFilm:
		return true
	}
	return false
}

// GuessEntry is one line in the player-visible round log.
type GuessEntry struct {
	PlayerID PlayerID `json:"playerId"`
	Value    string   `json:"value"`
	Correct  *bool    `json:"correct,omitempty"`
}

// CategoryRound holds the category-battle sub-protocol state for one round.
// All control state is explicit here; the guess log stays presentational.
type CategoryRound struct {
	MaxBid     int                `json:"maxBid"`
	Bids       map[PlayerID]int   `json:"bids"`
	Eligible   []PlayerID         `json:"eligible"`
	TieRetries int                `json:"tieRetries"`
	WinnerID   PlayerID           `json:"winnerId,omitempty"`
	WinningBid int                `json:"winningBid"`
	Validator  PlayerID           `json:"validatorId,omitempty"`
	Words      []string           `json:"words,omitempty"`
	WordsFinal bool               `json:"wordsFinal"`
	Validated  bool               `json:"validated"`
	Accepted   int                `json:"accepted"`
	Succeeded  bool               `json:"succeeded"`
}

// IsEligible reports whether p may bid in the current bidding phase.
func (c *CategoryRound) IsEligible(p PlayerID) bool {
	for _, id := range c.Eligible {
		if id == p {
			return true
		}
	}
	return false
}

// Room is one play session: a join code, a host, and its players, plus the
// state of the round in flight. A Room is only ever mutated under its
// registry entry's lock.
type Room struct {
	Code               RoomCode             `json:"code"`
	Origin             RoomOrigin           `json:"origin"`
	HostID             PlayerID             `json:"hostId"`
	Mode               GameMode             `json:"mode,omitempty"`
	Phase              GamePhase            `json:"phase"`
	Round              int                  `json:"round"`
	MaxRounds          int                  `json:"maxRounds"`
	RoundSeconds       int                  `json:"roundSeconds"`
	Pools              []PoolKey            `json:"selectedEditions"`
	Players            []*Player            `json:"players"`
	Submissions        map[PlayerID]string  `json:"roundSubmissions"`
	GuessLog           []GuessEntry         `json:"roundGuessLog"`
	Content            *RoundContent        `json:"content,omitempty"`
	Category           *CategoryRound       `json:"category,omitempty"`
	DrawerID           PlayerID             `json:"drawerId,omitempty"`
	RoundComplete      bool                 `json:"roundComplete"`
	FreePlaysRemaining int                  `json:"freePlaysRemaining"`
	CreatedAt          time.Time            `json:"createdAt"`

	// Version increases on every mutation, so clients can discard a
	// snapshot that arrives after a newer one.
	Version int64 `json:"version"`

	// Awards is the per-round idempotency set; scoring never fires twice
	// for a key already present. Not part of the client snapshot.
	Awards AwardSet `json:"-"`
}

// GetPlayer returns the player with the given ID, or nil.
func (r *Room) GetPlayer(id PlayerID) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// GetPlayerByName returns the player with the given display name, or nil.
func (r *Room) GetPlayerByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ConnectedPlayers returns the currently connected players in join order.
func (r *Room) ConnectedPlayers() []*Player {
	var out []*Player
	for _, p := range r.Players {
		if p.Connected {
			out = append(out, p)
		}
	}
	return out
}

// IsHost reports whether the given player is the room's host.
func (r *Room) IsHost(id PlayerID) bool {
	return id != "" && id == r.HostID
}

// ResetRound clears all round-scoped state ahead of a new round.
func (r *Room) ResetRound() {
	r.Submissions = make(map[PlayerID]string)
	r.GuessLog = nil
	r.Content = nil
	r.Category = nil
	r.DrawerID = ""
	r.RoundComplete = false
	r.Awards.Reset()
}
