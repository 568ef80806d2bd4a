package service

import (
	"context"
	"sync"
	"time"

	"github.com/lumohealth/lumo/internal/domain"
	"go.uber.org/zap"
)

const defaultRetentionInterval = 24 * time.Hour

// RetentionService prunes check-in history past the retention window on a
// periodic schedule.
type RetentionService struct {
	records domain.RecordStore
	logger  *zap.Logger

	interval      time.Duration
	retentionDays int
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

func NewRetentionService(records domain.RecordStore, logger *zap.Logger) *RetentionService {
	return &RetentionService{
		records:       records,
		logger:        logger,
		interval:      defaultRetentionInterval,
		retentionDays: DefaultRetentionDays,
		stopCh:        make(chan struct{}),
	}
}

func (s *RetentionService) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *RetentionService) SetRetentionDays(days int) {
	s.retentionDays = days
}

// Start runs the pruner in a background goroutine.
func (s *RetentionService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("retention pruner started",
			zap.Duration("interval", s.interval),
			zap.Int("retention_days", s.retentionDays))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("retention pruner stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the pruner.
func (s *RetentionService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *RetentionService) run(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.records.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to prune old records", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("pruned records past retention",
			zap.Int64("count", deleted),
			zap.Time("cutoff", cutoff))
	}
}
