package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partypop/partypop/internal/dependencies/mocks"
	"github.com/partypop/partypop/internal/model"
	"github.com/partypop/partypop/internal/testutil"
)

// orderNotifier records the version of every snapshot in delivery order.
type orderNotifier struct {
	mu       sync.Mutex
	versions []int64
}

func (n *orderNotifier) RoomUpdated(r *model.Room) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.versions = append(n.versions, r.Version)
}

func (n *orderNotifier) RoomClosed(model.RoomCode, model.ServerError) {}

func TestUpdateBroadcastsInVersionOrder(t *testing.T) {
	notifier := &orderNotifier{}
	registry := NewRegistry(notifier, mocks.NewMockClock(testTime()), mocks.NewMockRandom(), testutil.NopLogger())
	created := registry.Create(&model.Player{ID: "host", Name: "Anna"}, model.OriginPrivate)

	const workers = 4
	const updates = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < updates; j++ {
				_ = registry.Update(created.Code, func(r *model.Room) error { return nil })
			}
		}()
	}
	wg.Wait()

	// Every mutation broadcast exactly once, and no snapshot overtook an
	// older one on the way out.
	require.Len(t, notifier.versions, workers*updates)
	assert.Equal(t, int64(1), notifier.versions[0])
	for i := 1; i < len(notifier.versions); i++ {
		assert.Equal(t, notifier.versions[i-1]+1, notifier.versions[i])
	}
}

func TestFailedUpdateBroadcastsNothing(t *testing.T) {
	notifier := &orderNotifier{}
	registry := NewRegistry(notifier, mocks.NewMockClock(testTime()), mocks.NewMockRandom(), testutil.NopLogger())
	created := registry.Create(&model.Player{ID: "host", Name: "Anna"}, model.OriginPrivate)

	before := len(notifier.versions)
	err := registry.Update(created.Code, func(r *model.Room) error { return model.ErrInvalidPayload })
	require.ErrorIs(t, err, model.ErrInvalidPayload)
	assert.Len(t, notifier.versions, before)
}
