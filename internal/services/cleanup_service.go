package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCleanupInterval is how often expired challenges are removed
const DefaultCleanupInterval = time.Hour

// ExpiredCleaner removes expired records and reports how many were deleted
type ExpiredCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// CleanupService handles periodic cleanup of expired OTP challenges
type CleanupService struct {
	cleaner  ExpiredCleaner
	interval time.Duration
	log      *zap.Logger
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(cleaner ExpiredCleaner, interval time.Duration, log *zap.Logger) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &CleanupService{
		cleaner:  cleaner,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start runs a cleanup immediately and then once per interval
func (s *CleanupService) Start() {
	s.runCleanup()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.runCleanup()
			case <-s.done:
				s.log.Info("cleanup service stopped")
				return
			}
		}
	}()

	s.log.Info("cleanup service started", zap.Duration("interval", s.interval))
}

// Stop stops the cleanup service. Safe to call more than once.
func (s *CleanupService) Stop() {
	s.stopOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
}

// RunCleanupNow triggers an immediate cleanup and returns the number of rows removed
func (s *CleanupService) RunCleanupNow() int64 {
	return s.runCleanup()
}

func (s *CleanupService) runCleanup() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.cleaner.CleanupExpired(ctx)
	if err != nil {
		s.log.Error("failed to cleanup expired otp challenges", zap.Error(err))
		return 0
	}

	s.log.Info("expired otp challenges removed", zap.Int64("count", count))
	return count
}
