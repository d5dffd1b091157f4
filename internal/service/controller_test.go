package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/transfraud/internal/models"
)

func TestController_Initialize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5, 2)

	status, err := f.ctrl.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotInitialized, status)

	require.NoError(t, f.ctrl.Initialize(ctx))
	assert.True(t, f.ctrl.IsInitialized())

	stats, err := f.ctrl.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{TotalCustomers: 5, ActiveCards: 10}, stats)

	status, err = f.ctrl.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, status)
}

func TestController_InitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(4, 1)

	require.NoError(t, f.ctrl.Initialize(ctx))
	require.NoError(t, f.ctrl.Initialize(ctx))

	stats, err := f.ctrl.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalCustomers)
	assert.Equal(t, int64(4), stats.ActiveCards)
}

func TestController_InitializeDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5, 2)
	f.ctrl.cfg.Enabled = false

	require.NoError(t, f.ctrl.Initialize(ctx))
	assert.False(t, f.ctrl.IsInitialized())

	n, err := f.store.CountCustomers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestController_InitializeSkipsFailedCustomers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, 2)
	f.store.saveCardErr = errors.New("disk full")

	require.NoError(t, f.ctrl.Initialize(ctx))
	assert.True(t, f.ctrl.IsInitialized())

	status, err := f.ctrl.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInitializedButNoData, status)
}

func TestController_StatusWithoutCustomers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, 1)
	require.NoError(t, f.ctrl.Initialize(ctx))
	require.NoError(t, f.store.DeleteAllCustomers(ctx))

	active, err := f.store.CountActiveCards(ctx)
	require.NoError(t, err)
	require.Positive(t, active)

	status, err := f.ctrl.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInitializedButNoData, status)
}

func TestController_Reinitialize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, 2)
	require.NoError(t, f.ctrl.Initialize(ctx))

	_, err := f.synth.GenerateAndPublishOne(ctx)
	require.NoError(t, err)
	require.NoError(t, f.store.SaveTransaction(ctx, &models.Transaction{ID: "tx-old"}))
	require.Equal(t, 1, f.activity.Len())

	oldCards, err := f.store.FindActiveCards(ctx)
	require.NoError(t, err)

	require.NoError(t, f.ctrl.Reinitialize(ctx))

	stats, err := f.ctrl.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{TotalCustomers: 3, ActiveCards: 6}, stats)
	assert.Zero(t, f.activity.Len())
	assert.True(t, f.ctrl.IsInitialized())

	newCards, err := f.store.FindActiveCards(ctx)
	require.NoError(t, err)
	for _, c := range newCards {
		for _, old := range oldCards {
			assert.NotEqual(t, old.ID, c.ID)
		}
	}
}

func TestController_ReinitializeExcludesPoolReaders(t *testing.T) {
	f := newFixture(1, 1)
	reader := f.ctrl.ReadLocker()

	reader.Lock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.ctrl.Reinitialize(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("reinitialize ran while the card pool was being read")
	case <-time.After(50 * time.Millisecond):
	}
	reader.Unlock()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reinitialize did not finish")
	}
}
