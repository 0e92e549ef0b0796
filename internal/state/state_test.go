package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"dryfruto/storefront/internal/domain"
)

func TestLocalSeedLockExclusive(t *testing.T) {
	lock := NewLocalSeedLock()

	release, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := lock.Acquire(context.Background()); !errors.Is(err, domain.ErrSeedInProgress) {
		t.Fatalf("expected ErrSeedInProgress, got %v", err)
	}

	release()
	release() // second call is a no-op

	again, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestLocalSeedLockCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLocalSeedLock().Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLocalSeedLockSingleWinner(t *testing.T) {
	lock := NewLocalSeedLock()

	var winners atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := lock.Acquire(context.Background()); err == nil {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if winners.Load() != 1 {
		t.Fatalf("expected exactly one holder, got %d", winners.Load())
	}
}
