package matchmaking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/partypop/partypop/internal/content"
	"github.com/partypop/partypop/internal/dependencies/mocks"
	"github.com/partypop/partypop/internal/model"
	"github.com/partypop/partypop/internal/services/room"
	"github.com/partypop/partypop/internal/services/scoring"
	"github.com/partypop/partypop/internal/testutil"
)

type roomNotifier struct{}

func (roomNotifier) RoomUpdated(*model.Room)                      {}
func (roomNotifier) RoomClosed(model.RoomCode, model.ServerError) {}

// stubBlocklist blocks the configured unordered pairs.
type stubBlocklist struct {
	pairs map[[2]model.PlayerID]bool
}

func (b *stubBlocklist) block(a, c model.PlayerID) {
	if b.pairs == nil {
		b.pairs = map[[2]model.PlayerID]bool{}
	}
	b.pairs[[2]model.PlayerID{a, c}] = true
	b.pairs[[2]model.PlayerID{c, a}] = true
}

func (b *stubBlocklist) MutuallyBlocked(_ context.Context, a, c model.PlayerID) (bool, error) {
	return b.pairs[[2]model.PlayerID{a, c}], nil
}

// queueNotifier records status pushes and match deliveries.
type queueNotifier struct {
	statuses []model.QueueStatusPayload
	matched  map[model.ClientID]*model.Room
}

func (n *queueNotifier) QueueStatus(_ []model.ClientID, status model.QueueStatusPayload) {
	n.statuses = append(n.statuses, status)
}

func (n *queueNotifier) Matched(client model.ClientID, _ model.PlayerID, snapshot *model.Room) {
	if n.matched == nil {
		n.matched = map[model.ClientID]*model.Room{}
	}
	n.matched[client] = snapshot
}

type QueueSuite struct {
	suite.Suite
	ctx      context.Context
	blocks   *stubBlocklist
	notifier *queueNotifier
	rooms    *room.Controller
	queue    *Queue
}

func TestQueueSuite(t *testing.T) {
	suite.Run(t, new(QueueSuite))
}

func (s *QueueSuite) SetupTest() {
	s.ctx = context.Background()
	s.blocks = &stubBlocklist{}
	s.notifier = &queueNotifier{}

	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	registry := room.NewRegistry(roomNotifier{}, clk, rnd, logger)
	engine := scoring.New(scoring.DefaultConfig())
	s.rooms = room.NewController(registry, content.NewStaticProvider(), engine, clk, rnd, logger, room.DefaultConfig())

	s.queue = NewQueue(s.rooms, s.blocks, s.notifier, logger, DefaultConfig())
}

func (s *QueueSuite) enqueue(client, player, region, language string) {
	s.queue.Enqueue(s.ctx, Entry{
		Client:   model.ClientID(client),
		PlayerID: model.PlayerID(player),
		Name:     "Player " + player,
		Region:   region,
		Language: language,
	})
}

func (s *QueueSuite) TestFourCompatiblePlayersMatch() {
	s.enqueue("c1", "p1", "DE", "de")
	s.enqueue("c2", "p2", "DE", "de")
	s.enqueue("c3", "p3", "DE", "de")

	s.Equal(3, s.queue.Waiting("DE", "de"))
	s.Empty(s.notifier.matched)

	s.enqueue("c4", "p4", "DE", "de")

	s.Equal(0, s.queue.Waiting("DE", "de"))
	s.Require().Len(s.notifier.matched, 4)

	snap := s.notifier.matched["c1"]
	s.Require().NotNil(snap)
	s.Equal(model.OriginRandom, snap.Origin)
	s.Len(snap.Players, 4)
	// The first queued member hosts the matched room.
	s.Equal(model.PlayerID("p1"), snap.HostID)
	s.Equal(1, s.rooms.Registry().Count())
}

func (s *QueueSuite) TestBucketsAreIsolated() {
	s.enqueue("c1", "p1", "DE", "de")
	s.enqueue("c2", "p2", "AT", "de")
	s.enqueue("c3", "p3", "DE", "en")
	s.enqueue("c4", "p4", "DE", "de")

	s.Empty(s.notifier.matched)
	s.Equal(2, s.queue.Waiting("DE", "de"))
	s.Equal(1, s.queue.Waiting("AT", "de"))
	s.Equal(1, s.queue.Waiting("DE", "en"))
}

func (s *QueueSuite) TestBlockedPairNeverGrouped() {
	s.blocks.block("p1", "p2")

	s.enqueue("c1", "p1", "DE", "de")
	s.enqueue("c2", "p2", "DE", "de")
	s.enqueue("c3", "p3", "DE", "de")
	s.enqueue("c4", "p4", "DE", "de")

	// Only four candidates and two of them exclude each other.
	s.Empty(s.notifier.matched)
	s.Equal(4, s.queue.Waiting("DE", "de"))

	// A fifth compatible player completes a group around the block.
	s.enqueue("c5", "p5", "DE", "de")

	s.Require().Len(s.notifier.matched, 4)
	s.Equal(1, s.queue.Waiting("DE", "de"))

	snap := s.notifier.matched["c1"]
	s.Require().NotNil(snap)
	s.Nil(snap.GetPlayer("p2"))
}

func (s *QueueSuite) TestRequeueReplacesEarlierEntry() {
	s.enqueue("c1", "p1", "DE", "de")
	s.enqueue("c1", "p1", "DE", "de")

	s.Equal(1, s.queue.Waiting("DE", "de"))

	// Changing buckets moves the entry rather than duplicating it.
	s.enqueue("c1", "p1", "AT", "de")

	s.Equal(0, s.queue.Waiting("DE", "de"))
	s.Equal(1, s.queue.Waiting("AT", "de"))
}

func (s *QueueSuite) TestDequeueRemovesAndNotifies() {
	s.enqueue("c1", "p1", "DE", "de")
	s.enqueue("c2", "p2", "DE", "de")
	before := len(s.notifier.statuses)

	s.queue.Dequeue("c1")

	s.Equal(1, s.queue.Waiting("DE", "de"))
	s.Greater(len(s.notifier.statuses), before)
	last := s.notifier.statuses[len(s.notifier.statuses)-1]
	s.Equal(1, last.Waiting)
}

func (s *QueueSuite) TestStatusPushedToWaitingBucket() {
	s.enqueue("c1", "p1", "DE", "de")

	s.Require().NotEmpty(s.notifier.statuses)
	last := s.notifier.statuses[len(s.notifier.statuses)-1]
	s.Equal(1, last.Waiting)
	s.Equal("DE", last.Region)
	s.Equal("de", last.Language)
}

func (s *QueueSuite) TestEntryWithoutPlayerIDIgnored() {
	s.queue.Enqueue(s.ctx, Entry{Client: "c1", Region: "DE", Language: "de"})
	s.Equal(0, s.queue.Waiting("DE", "de"))
}
