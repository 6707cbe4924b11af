package counter

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpWithoutRedisWritesThrough(t *testing.T) {
	svc := NewCounterService(nil)

	flushed := make(map[uuid.UUID]int)
	svc.RegisterFlusher(MaterialDownloads, func(_ context.Context, id uuid.UUID, delta int) error {
		flushed[id] += delta
		return nil
	})

	id := uuid.New()
	require.NoError(t, svc.Bump(context.Background(), MaterialDownloads, id))
	require.NoError(t, svc.Bump(context.Background(), MaterialDownloads, id))

	assert.Equal(t, 2, flushed[id])
}

func TestBumpWithoutFlusherFails(t *testing.T) {
	svc := NewCounterService(nil)

	err := svc.Bump(context.Background(), PresentationViews, uuid.New())
	assert.Error(t, err)
}

func TestStartSyncWorkerWithoutRedisReturns(t *testing.T) {
	svc := NewCounterService(nil)

	done := make(chan struct{})
	go func() {
		svc.StartSyncWorker(context.Background(), 0)
		close(done)
	}()

	// Returns immediately with no Redis backend.
	<-done
}
