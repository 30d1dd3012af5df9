package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrNotHost      = errors.New("player is not the host")
	ErrNotInRoom    = errors.New("player is not in the room")

	// Payload validation errors
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidName    = errors.New("display name is not allowed")
	ErrMissingConsent = errors.New("consent not confirmed")
	ErrReasonTooShort = errors.New("report reason too short")

	// Phase / protocol errors
	ErrWrongPhase     = errors.New("action not valid in current phase")
	ErrWrongMode      = errors.New("action not valid for current mode")
	ErrUnknownMode    = errors.New("unknown game mode")
	ErrNotEligible    = errors.New("player not eligible for this action")
	ErrInvalidBid     = errors.New("bid out of range")

	// Rate limiting
	ErrRateLimited = errors.New("rate limit exceeded")

	// Content errors
	ErrNoContent = errors.New("no content available")
)
