// Package abuse records player reports and per-player mutual block sets.
// Blocks are append-only and consulted only at matchmaking time; they never
// break an existing room retroactively.
package abuse

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/partypop/partypop/internal/dependencies/clock"
	"github.com/partypop/partypop/internal/model"
)

// MinReasonLength is the shortest accepted report reason.
const MinReasonLength = 10

// Report is one recorded abuse report.
type Report struct {
	Reporter  model.PlayerID `json:"reporter"`
	Target    model.PlayerID `json:"target"`
	Reason    string         `json:"reason"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Store persists reports and block sets.
type Store interface {
	AddReport(ctx context.Context, report Report) error
	AddBlock(ctx context.Context, blocker, target model.PlayerID) error
	IsBlocked(ctx context.Context, blocker, target model.PlayerID) (bool, error)
}

// Service validates and records abuse signals.
type Service struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates the abuse ledger service.
func NewService(store Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger.With(slog.String("component", "abuse")),
	}
}

// Report records a report after validating the free-text reason.
func (s *Service) Report(ctx context.Context, reporter, target model.PlayerID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reporter == "" || target == "" {
		return model.ErrInvalidPayload
	}
	if len([]rune(reason)) < MinReasonLength {
		return model.ErrReasonTooShort
	}

	report := Report{
		Reporter:  reporter,
		Target:    target,
		Reason:    reason,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.AddReport(ctx, report); err != nil {
		return err
	}
	s.logger.Info("player reported",
		slog.String("reporter", string(reporter)),
		slog.String("target", string(target)))
	return nil
}

// Block adds target to the blocker's block set. Blocks are never removed.
func (s *Service) Block(ctx context.Context, blocker, target model.PlayerID) error {
	if blocker == "" || target == "" || blocker == target {
		return model.ErrInvalidPayload
	}
	return s.store.AddBlock(ctx, blocker, target)
}

// MutuallyBlocked reports whether either player has blocked the other.
func (s *Service) MutuallyBlocked(ctx context.Context, a, b model.PlayerID) (bool, error) {
	blocked, err := s.store.IsBlocked(ctx, a, b)
	if err != nil || blocked {
		return blocked, err
	}
	return s.store.IsBlocked(ctx, b, a)
}
