package model

import (
	"encoding/json"
	"fmt"
)

// Inbound event types (client → server).
const (
	EventJoinRoom        = "join-room"
	EventLeaveRoom       = "leave-room"
	EventJoinQueue       = "join-random-queue"
	EventLeaveQueue      = "leave-random-queue"
	EventReportPlayer    = "report-player"
	EventBlockPlayer     = "block-player"
	EventStartGame       = "start-game"
	EventPlayerAction    = "player-action"
)

// Outbound event types (server → client).
const (
	EventRoomJoined      = "room-joined"
	EventGameStateUpdate = "game-state-update"
	EventQueueStatus     = "random-queue-status"
	EventError           = "error"
)

// Wire error codes.
const (
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeInvalidPayload = "INVALID_PAYLOAD"
	ErrCodeServerError    = "SERVER_ERROR"
)

// Envelope is the outer shape of every websocket message in either direction.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerError is the payload of an outbound error event.
type ServerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JoinRoomPayload asks to create a room (IsHost) or join one by code.
type JoinRoomPayload struct {
	Code     RoomCode `json:"code,omitempty"`
	Name     string   `json:"name"`
	IsHost   bool     `json:"isHost"`
	PlayerID PlayerID `json:"playerId,omitempty"`
}

// JoinQueuePayload asks to enter the random matchmaking queue.
// All three consent flags must be true.
type JoinQueuePayload struct {
	Name            string   `json:"name"`
	Region          string   `json:"region"`
	Language        string   `json:"language"`
	PlayerID        PlayerID `json:"playerId,omitempty"`
	ConsentRules    bool     `json:"consentRules"`
	ConsentConduct  bool     `json:"consentConduct"`
	ConsentStranger bool     `json:"consentStranger"`
}

// ReportPlayerPayload reports another player for abusive behavior.
type ReportPlayerPayload struct {
	Target PlayerID `json:"targetPlayerId"`
	Reason string   `json:"reason"`
}

// BlockPlayerPayload adds a player to the sender's mutual block set.
type BlockPlayerPayload struct {
	Target PlayerID `json:"targetPlayerId"`
}

// StartGamePayload starts the first round in the given mode (host only).
type StartGamePayload struct {
	Code RoomCode `json:"code"`
	Mode GameMode `json:"mode"`
}

// QueueStatusPayload is broadcast to every waiting member of a bucket.
type QueueStatusPayload struct {
	Waiting  int    `json:"waiting"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

// GameStateUpdate carries a full room snapshot.
type GameStateUpdate struct {
	Room *Room `json:"room"`
}

// PlayerActionPayload wraps a tagged action targeting a room.
type PlayerActionPayload struct {
	Code   RoomCode        `json:"code"`
	Action json.RawMessage `json:"action"`
}

// PlayerAction is the sum type of all in-round actions. Concrete actions are
// decoded from the wire by DecodeAction and matched exhaustively at the
// dispatch boundary.
type PlayerAction interface {
	actionType() string
}

// Host controls.

// HostNextRound advances to the next round, or ends the session.
type HostNextRound struct {
	NextMode GameMode `json:"nextMode,omitempty"`
}

// HostSetRoundSeconds changes the configured round duration.
type HostSetRoundSeconds struct {
	RoundSeconds int `json:"roundSeconds"`
}

// HostSetPools changes the selected content pools.
type HostSetPools struct {
	Pools []PoolKey `json:"editions"`
}

// HostSetMaxRounds changes the configured round count.
type HostSetMaxRounds struct {
	MaxRounds int `json:"maxRounds"`
}

// Per-mode submissions.

// QuizSubmit records the player's answer index for the current question.
type QuizSubmit struct {
	AnswerIndex int `json:"answerIndex"`
}

// VotingSubmit records the player's vote for a target player.
type VotingSubmit struct {
	Target PlayerID `json:"targetPlayerId"`
}

// DrawingGuess is a free-text guess at the drawer's secret word.
type DrawingGuess struct {
	Guess string `json:"guess"`
}

// EmojiSubmit is a free-text guess at the emoji riddle; the latest guess
// per player overwrites earlier ones.
type EmojiSubmit struct {
	Guess string `json:"guess"`
}

// Category battle sub-protocol.

// CategoryBid submits the player's secret bid.
type CategoryBid struct {
	Bid int `json:"bid"`
}

// CategoryWords submits the winner's words. The round timer submits the same
// action on expiry, so both paths converge on identical state.
type CategoryWords struct {
	Words []string `json:"words"`
}

// CategoryValidate carries the validator's per-word accept/reject decisions.
type CategoryValidate struct {
	Accepted []bool `json:"accepted"`
}

func (HostNextRound) actionType() string       { return "host_next_round" }
func (HostSetRoundSeconds) actionType() string { return "host_set_round_seconds" }
func (HostSetPools) actionType() string        { return "host_set_editions" }
func (HostSetMaxRounds) actionType() string    { return "host_set_max_rounds" }
func (QuizSubmit) actionType() string          { return "quiz_submit" }
func (VotingSubmit) actionType() string        { return "voting_submit" }
func (DrawingGuess) actionType() string        { return "drawing_guess" }
func (EmojiSubmit) actionType() string         { return "emoji_submit" }
func (CategoryBid) actionType() string         { return "category_bid" }
func (CategoryWords) actionType() string       { return "category_words" }
func (CategoryValidate) actionType() string    { return "category_validate" }

// ActionType returns the wire tag for an action.
func ActionType(a PlayerAction) string {
	return a.actionType()
}

// DecodeAction decodes a tagged action payload into its concrete type.
func DecodeAction(raw json.RawMessage) (PlayerAction, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var (
		action PlayerAction
		err    error
	)
	switch tag.Type {
	case "host_next_round":
		var a HostNextRound
		err = json.Unmarshal(raw, &a)
		action = a
	case "host_set_round_seconds":
		var a HostSetRoundSeconds
		err = json.Unmarshal(raw, &a)
		action = a
	case "host_set_editions":
		var a HostSetPools
		err = json.Unmarshal(raw, &a)
		action = a
	case "host_set_max_rounds":
		var a HostSetMaxRounds
		err = json.Unmarshal(raw, &a)
		action = a
	case "quiz_submit":
		var a QuizSubmit
		err = json.Unmarshal(raw, &a)
		action = a
	case "voting_submit":
		var a VotingSubmit
		err = json.Unmarshal(raw, &a)
		action = a
	case "drawing_guess":
		var a DrawingGuess
		err = json.Unmarshal(raw, &a)
		action = a
	case "emoji_submit":
		var a EmojiSubmit
		err = json.Unmarshal(raw, &a)
		action = a
	case "category_bid":
		var a CategoryBid
		err = json.Unmarshal(raw, &a)
		action = a
	case "category_words":
		var a CategoryWords
		err = json.Unmarshal(raw, &a)
		action = a
	case "category_validate":
		var a CategoryValidate
		err = json.Unmarshal(raw, &a)
		action = a
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidPayload, tag.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return action, nil
}
