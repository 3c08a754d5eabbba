package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) DeleteExpired(*gorm.DB) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestTokenWorker_RunsUntilCancelled(t *testing.T) {
	cleaner := &countingCleaner{}
	w := NewTokenWorker(nil, cleaner, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	assert.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestTokenWorker_CleanupErrorIsLogged(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("db down")}
	w := NewTokenWorker(nil, cleaner, 0)

	assert.Equal(t, time.Hour, w.interval)
	w.cleanup()
	assert.Equal(t, int32(1), cleaner.calls.Load())
}
