package factory

import (
	"time"

	"github.com/partypop/partypop/internal/content"
	"github.com/partypop/partypop/internal/dependencies/mocks"
	"github.com/partypop/partypop/internal/services/abuse"
	"github.com/partypop/partypop/internal/services/room"
	"github.com/partypop/partypop/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// MemoryStore exposes the in-memory abuse ledger for assertions
	MemoryStore *abuse.MemoryStore
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	provider := content.NewStaticProvider()
	store := abuse.NewMemoryStore()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(provider, store, mockClock, mockRandom, room.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MemoryStore: store,
	}
}
