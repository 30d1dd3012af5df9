package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/partypop/partypop/internal/model"
	"github.com/partypop/partypop/internal/services/abuse"
	"github.com/partypop/partypop/internal/services/matchmaking"
	"github.com/partypop/partypop/internal/services/ratelimit"
	"github.com/partypop/partypop/internal/services/room"
)

// Dispatcher validates inbound envelopes, applies per-kind rate limits and
// routes events to the room controller, matchmaking queue and abuse ledger.
type Dispatcher struct {
	hub     *Hub
	rooms   *room.Controller
	queue   *matchmaking.Queue
	abuse   *abuse.Service
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewDispatcher creates the event dispatcher.
func NewDispatcher(
	hub *Hub,
	rooms *room.Controller,
	queue *matchmaking.Queue,
	abuseService *abuse.Service,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		hub:     hub,
		rooms:   rooms,
		queue:   queue,
		abuse:   abuseService,
		limiter: limiter,
		logger:  logger.With(slog.String("component", "dispatch")),
	}
}

// HandleMessage processes one inbound wire message from a connection.
func (d *Dispatcher) HandleMessage(c *Client, raw []byte) {
	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "malformed message")
		return
	}

	if !d.limiter.Allow(c.ID, env.Type) {
		d.hub.SendError(c.ID, model.ErrCodeServerError, "rate limited, slow down")
		return
	}

	ctx := context.Background()

	switch env.Type {
	case model.EventJoinRoom:
		d.joinRoom(ctx, c, env.Payload)
	case model.EventLeaveRoom:
		d.leaveRoom(c)
	case model.EventJoinQueue:
		d.joinQueue(ctx, c, env.Payload)
	case model.EventLeaveQueue:
		d.queue.Dequeue(c.ID)
	case model.EventReportPlayer:
		d.reportPlayer(ctx, c, env.Payload)
	case model.EventBlockPlayer:
		d.blockPlayer(ctx, c, env.Payload)
	case model.EventStartGame:
		d.startGame(ctx, c, env.Payload)
	case model.EventPlayerAction:
		d.playerAction(ctx, c, env.Payload)
	default:
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "unknown event type")
	}
}

// HandleDisconnect cleans up everything a dropped connection held: queue
// membership, rate-limit state and room presence.
func (d *Dispatcher) HandleDisconnect(c *Client) {
	d.queue.Dequeue(c.ID)
	d.limiter.Forget(c.ID)

	code, playerID := c.session()
	if code == "" {
		return
	}
	d.hub.LeaveRoom(c.ID, code)
	c.clearRoom(code)
	if err := d.rooms.Leave(code, playerID); err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		d.logger.Warn("leave on disconnect failed",
			slog.String("code", string(code)),
			slog.String("error", err.Error()))
	}
}

func (d *Dispatcher) joinRoom(_ context.Context, c *Client, raw json.RawMessage) {
	var p model.JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "bad join-room payload")
		return
	}

	var (
		snapshot *model.Room
		playerID model.PlayerID
		err      error
	)
	if p.IsHost {
		snapshot, err = d.rooms.CreateRoom(p.Name, p.PlayerID)
		if snapshot != nil {
			playerID = snapshot.HostID
		}
	} else {
		snapshot, playerID, err = d.rooms.JoinRoom(p.Code, p.Name, p.PlayerID)
	}
	if err != nil {
		d.sendErr(c, err)
		return
	}

	c.setRoom(snapshot.Code, playerID)
	d.hub.JoinRoom(c.ID, snapshot.Code)
	d.hub.Send(c.ID, model.EventRoomJoined, snapshot)
}

func (d *Dispatcher) leaveRoom(c *Client) {
	code, playerID := c.session()
	if code == "" {
		return
	}
	d.hub.LeaveRoom(c.ID, code)
	c.clearRoom(code)
	if err := d.rooms.Leave(code, playerID); err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		d.sendErr(c, err)
	}
}

func (d *Dispatcher) joinQueue(ctx context.Context, c *Client, raw json.RawMessage) {
	var p model.JoinQueuePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "bad join-random-queue payload")
		return
	}
	if !p.ConsentRules || !p.ConsentConduct || !p.ConsentStranger {
		d.sendErr(c, model.ErrMissingConsent)
		return
	}
	name, err := d.rooms.ValidateName(p.Name)
	if err != nil {
		d.sendErr(c, err)
		return
	}
	playerID := p.PlayerID
	if playerID == "" {
		playerID = model.PlayerID(uuid.NewString())
	}

	d.queue.Enqueue(ctx, matchmaking.Entry{
		Client:   c.ID,
		PlayerID: playerID,
		Name:     name,
		Region:   p.Region,
		Language: p.Language,
	})
}

func (d *Dispatcher) reportPlayer(ctx context.Context, c *Client, raw json.RawMessage) {
	var p model.ReportPlayerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "bad report-player payload")
		return
	}
	_, reporter := c.session()
	if err := d.abuse.Report(ctx, reporter, p.Target, p.Reason); err != nil {
		d.sendErr(c, err)
	}
}

func (d *Dispatcher) blockPlayer(ctx context.Context, c *Client, raw json.RawMessage) {
	var p model.BlockPlayerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "bad block-player payload")
		return
	}
	_, blocker := c.session()
	if err := d.abuse.Block(ctx, blocker, p.Target); err != nil {
		d.sendErr(c, err)
	}
}

func (d *Dispatcher) startGame(ctx context.Context, c *Client, raw json.RawMessage) {
	var p model.StartGamePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "bad start-game payload")
		return
	}
	_, playerID := c.session()
	if err := d.rooms.StartGame(ctx, p.Code, playerID, p.Mode); err != nil {
		d.sendErr(c, err)
	}
}

func (d *Dispatcher) playerAction(ctx context.Context, c *Client, raw json.RawMessage) {
	var p model.PlayerActionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.hub.SendError(c.ID, model.ErrCodeInvalidPayload, "bad player-action payload")
		return
	}
	action, err := model.DecodeAction(p.Action)
	if err != nil {
		d.sendErr(c, err)
		return
	}
	_, playerID := c.session()
	if err := d.rooms.HandleAction(ctx, p.Code, playerID, action); err != nil {
		d.sendErr(c, err)
	}
}

// sendErr maps a service error onto the wire error codes and unicasts it.
func (d *Dispatcher) sendErr(c *Client, err error) {
	code := model.ErrCodeServerError
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		code = model.ErrCodeRoomNotFound
	case errors.Is(err, model.ErrRoomFull):
		code = model.ErrCodeRoomFull
	case errors.Is(err, model.ErrInvalidPayload),
		errors.Is(err, model.ErrInvalidName),
		errors.Is(err, model.ErrMissingConsent),
		errors.Is(err, model.ErrReasonTooShort),
		errors.Is(err, model.ErrInvalidBid),
		errors.Is(err, model.ErrUnknownMode),
		errors.Is(err, model.ErrNotHost),
		errors.Is(err, model.ErrNotEligible),
		errors.Is(err, model.ErrNotInRoom),
		errors.Is(err, model.ErrWrongPhase),
		errors.Is(err, model.ErrWrongMode):
		code = model.ErrCodeInvalidPayload
	}
	d.hub.SendError(c.ID, code, err.Error())
}
