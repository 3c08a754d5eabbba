package workers

import (
	"context"
	"time"

	"jobza_backend/internal/logger"

	"gorm.io/gorm"
)

type expiredTokenCleaner interface {
	DeleteExpired(db *gorm.DB) (int64, error)
}

// TokenWorker периодически удаляет истекшие refresh-токены
type TokenWorker struct {
	db       *gorm.DB
	tokens   expiredTokenCleaner
	interval time.Duration
}

func NewTokenWorker(db *gorm.DB, tokens expiredTokenCleaner, interval time.Duration) *TokenWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenWorker{db: db, tokens: tokens, interval: interval}
}

func (w *TokenWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *TokenWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *TokenWorker) cleanup() {
	removed, err := w.tokens.DeleteExpired(w.db)
	if err != nil {
		logger.Error("Error deleting expired refresh tokens", "error", err)
		return
	}
	if removed > 0 {
		logger.Info("Deleted expired refresh tokens", "count", removed)
	}
}
