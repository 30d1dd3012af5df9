package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/partypop/partypop/internal/content"
	"github.com/partypop/partypop/internal/dependencies/mocks"
	"github.com/partypop/partypop/internal/model"
	"github.com/partypop/partypop/internal/services/scoring"
	"github.com/partypop/partypop/internal/testutil"
)

type CategorySuite struct {
	suite.Suite
	ctx        context.Context
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	code       model.RoomCode
}

func TestCategorySuite(t *testing.T) {
	suite.Run(t, new(CategorySuite))
}

func (s *CategorySuite) SetupTest() {
	s.ctx = context.Background()
	s.random = mocks.NewMockRandom()

	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(testTime())
	registry := NewRegistry(&stubNotifier{}, s.clock, s.random, logger)
	engine := scoring.New(scoring.DefaultConfig())
	s.controller = NewController(registry, content.NewStaticProvider(), engine, s.clock, s.random, logger, DefaultConfig())

	// Host plus three players, category mode running.
	room, err := s.controller.CreateRoom("Anna", "host")
	s.Require().NoError(err)
	s.code = room.Code
	for _, p := range []struct {
		id   model.PlayerID
		name string
	}{{"p2", "Ben"}, {"p3", "Cleo"}, {"p4", "Dana"}} {
		_, _, err := s.controller.JoinRoom(s.code, p.name, p.id)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.controller.StartGame(s.ctx, s.code, "host", model.ModeCategory))
}

func (s *CategorySuite) snapshot() *model.Room {
	snap, err := s.controller.Registry().Snapshot(s.code)
	s.Require().NoError(err)
	return snap
}

func (s *CategorySuite) bid(player model.PlayerID, bid int) {
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, player, model.CategoryBid{Bid: bid}))
}

func (s *CategorySuite) TestRoundStartsWithBiddingState() {
	snap := s.snapshot()
	s.Require().NotNil(snap.Category)
	s.Equal(10, snap.Category.MaxBid)
	s.Len(snap.Category.Eligible, 4)
	s.Empty(snap.Category.Bids)
	s.NotNil(snap.Content.Category)
}

func (s *CategorySuite) TestBidValidation() {
	err := s.controller.HandleAction(s.ctx, s.code, "host", model.CategoryBid{Bid: 0})
	s.ErrorIs(err, model.ErrInvalidBid)
	err = s.controller.HandleAction(s.ctx, s.code, "host", model.CategoryBid{Bid: 11})
	s.ErrorIs(err, model.ErrInvalidBid)

	// A stranger's bid is silently ignored.
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "ghost", model.CategoryBid{Bid: 5}))
	s.Empty(s.snapshot().Category.Bids)
}

func (s *CategorySuite) TestBidsAreImmutable() {
	s.bid("host", 3)
	s.bid("host", 9)

	s.Equal(3, s.snapshot().Category.Bids["host"])
}

func (s *CategorySuite) TestUniqueMaxWins() {
	s.bid("host", 3)
	s.bid("p2", 7)
	s.bid("p3", 5)
	s.bid("p4", 2)

	cat := s.snapshot().Category
	s.Equal(model.PlayerID("p2"), cat.WinnerID)
	s.Equal(7, cat.WinningBid)
	s.Equal(model.PlayerID("host"), cat.Validator)
}

func (s *CategorySuite) TestTieTriggersRebidAmongTiedSubset() {
	s.bid("host", 3)
	s.bid("p2", 5)
	s.bid("p3", 5)
	s.bid("p4", 2)

	cat := s.snapshot().Category
	s.Empty(cat.WinnerID)
	s.Equal(1, cat.TieRetries)
	s.ElementsMatch([]model.PlayerID{"p2", "p3"}, cat.Eligible)
	// Only the tied players' bids were cleared.
	s.NotContains(cat.Bids, model.PlayerID("p2"))
	s.NotContains(cat.Bids, model.PlayerID("p3"))
	s.Equal(3, cat.Bids["host"])

	// Players outside the tied subset cannot bid in the re-bid.
	s.bid("host", 9)
	s.NotEqual(9, s.snapshot().Category.Bids["host"])

	// The re-bid resolves normally.
	s.bid("p2", 4)
	s.bid("p3", 6)

	cat = s.snapshot().Category
	s.Equal(model.PlayerID("p3"), cat.WinnerID)
	s.Equal(6, cat.WinningBid)
}

func (s *CategorySuite) TestRepeatedTiesFallBackToLowestID() {
	s.bid("host", 1)
	s.bid("p4", 1)
	// Three consecutive full ties between p2 and p3.
	s.bid("p2", 5)
	s.bid("p3", 5)
	s.bid("p2", 5)
	s.bid("p3", 5)
	s.bid("p2", 5)
	s.bid("p3", 5)

	cat := s.snapshot().Category
	s.Equal(model.PlayerID("p2"), cat.WinnerID)
	s.Equal(5, cat.WinningBid)
}

func (s *CategorySuite) TestHostWinnerGetsOtherValidator() {
	s.random.QueueIntn(0) // validator pick among the other connected players

	s.bid("host", 8)
	s.bid("p2", 3)
	s.bid("p3", 2)
	s.bid("p4", 1)

	cat := s.snapshot().Category
	s.Equal(model.PlayerID("host"), cat.WinnerID)
	s.Equal(model.PlayerID("p2"), cat.Validator)
}

func (s *CategorySuite) TestWordsOnlyFromWinnerAndTruncated() {
	s.bid("host", 1)
	s.bid("p2", 3)
	s.bid("p3", 2)
	s.bid("p4", 1)

	// Non-winner submission is ignored.
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "p3", model.CategoryWords{Words: []string{"x"}}))
	s.False(s.snapshot().Category.WordsFinal)

	err := s.controller.HandleAction(s.ctx, s.code, "p2", model.CategoryWords{
		Words: []string{"Bayern", "Dortmund", "Leipzig", "Bremen"},
	})
	s.Require().NoError(err)

	cat := s.snapshot().Category
	s.True(cat.WordsFinal)
	s.Equal([]string{"Bayern", "Dortmund", "Leipzig"}, cat.Words)

	// Words settle exactly once.
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "p2", model.CategoryWords{Words: []string{"Köln"}}))
	s.Equal([]string{"Bayern", "Dortmund", "Leipzig"}, s.snapshot().Category.Words)
}

func (s *CategorySuite) TestValidateSuccessScoresBidBonus() {
	s.bid("host", 1)
	s.bid("p2", 3)
	s.bid("p3", 2)
	s.bid("p4", 1)
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "p2", model.CategoryWords{
		Words: []string{"Bayern", "Dortmund", "Leipzig"},
	}))

	// Only the validator may validate.
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "p3", model.CategoryValidate{Accepted: []bool{true, true, true}}))
	s.False(s.snapshot().Category.Validated)

	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "host", model.CategoryValidate{Accepted: []bool{true, true, true}}))

	snap := s.snapshot()
	s.True(snap.Category.Validated)
	s.True(snap.Category.Succeeded)
	s.True(snap.RoundComplete)
	s.Equal(150, snap.GetPlayer("p2").Score)
	s.Require().NotEmpty(snap.GuessLog)
	s.Equal("3/3 words accepted", snap.GuessLog[len(snap.GuessLog)-1].Value)

	// Validation settles exactly once.
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "host", model.CategoryValidate{Accepted: []bool{true, true, true}}))
	s.Equal(150, s.snapshot().GetPlayer("p2").Score)
}

func (s *CategorySuite) TestValidateFailureFloorsAtZero() {
	s.bid("host", 1)
	s.bid("p2", 3)
	s.bid("p3", 2)
	s.bid("p4", 1)
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "p2", model.CategoryWords{
		Words: []string{"Bayern", "Kartoffel", "Banane"},
	}))

	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "host", model.CategoryValidate{Accepted: []bool{true, false, false}}))

	snap := s.snapshot()
	s.True(snap.Category.Validated)
	s.False(snap.Category.Succeeded)
	s.Equal(1, snap.Category.Accepted)
	// Penalty applies but cumulative scores never go negative.
	s.Equal(0, snap.GetPlayer("p2").Score)
}

func (s *CategorySuite) TestWordTimerAutoFinalizesEmptyWords() {
	s.bid("host", 1)
	s.bid("p2", 3)
	s.bid("p3", 2)
	s.bid("p4", 1)

	s.clock.Advance(60 * time.Second)

	cat := s.snapshot().Category
	s.True(cat.WordsFinal)
	s.Empty(cat.Words)

	// A late manual submission does not reopen the settled list.
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "p2", model.CategoryWords{Words: []string{"Bayern"}}))
	cat = s.snapshot().Category
	s.True(cat.WordsFinal)
	s.Empty(cat.Words)

	// Validation proceeds on the empty list and fails the bid.
	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "host", model.CategoryValidate{Accepted: nil}))
	snap := s.snapshot()
	s.True(snap.Category.Validated)
	s.False(snap.Category.Succeeded)
	s.Equal(0, snap.GetPlayer("p2").Score)
}

func (s *CategorySuite) TestBiddingTimeDoesNotShrinkWordBox() {
	// Round start arms no countdown of its own in category mode.
	s.Equal(0, s.clock.PendingTimers())

	// Bidding drags on for most of a round length before resolving.
	s.clock.Advance(50 * time.Second)
	s.bid("host", 1)
	s.bid("p2", 3)
	s.bid("p3", 2)
	s.bid("p4", 1)

	// The winner gets the full word box from the moment of declaration,
	// regardless of how long bidding took.
	s.clock.Advance(10 * time.Second)
	s.False(s.snapshot().Category.WordsFinal)
	s.clock.Advance(49 * time.Second)
	s.False(s.snapshot().Category.WordsFinal)
	s.clock.Advance(time.Second)
	s.True(s.snapshot().Category.WordsFinal)
}

func (s *CategorySuite) TestValidateRequiresFinalWords() {
	s.bid("host", 1)
	s.bid("p2", 3)
	s.bid("p3", 2)
	s.bid("p4", 1)

	s.Require().NoError(s.controller.HandleAction(s.ctx, s.code, "host", model.CategoryValidate{Accepted: []bool{true, true, true}}))
	s.False(s.snapshot().Category.Validated)
}
