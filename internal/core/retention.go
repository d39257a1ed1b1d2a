package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RecordPruner deletes records analyzed before a cutoff.
type RecordPruner interface {
	DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionService periodically deletes stored screenings older than MaxAge.
type RetentionService struct {
	store    RecordPruner
	maxAge   time.Duration
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewRetentionService(store RecordPruner, maxAge, interval time.Duration, logger *zap.Logger) *RetentionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionService{store: store, maxAge: maxAge, interval: interval, logger: logger, now: time.Now}
}

// Start prunes once immediately and then every interval until ctx ends.
func (s *RetentionService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *RetentionService) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Prune(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Prune(ctx)
		}
	}
}

func (s *RetentionService) Prune(ctx context.Context) (int64, error) {
	count, err := s.store.DeleteRecordsBefore(ctx, s.now().Add(-s.maxAge))
	if err != nil {
		s.logger.Error("retention cleanup failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("retention cleanup", zap.Int64("deleted", count))
	return count, nil
}
