package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/store"
)

// HousekeepingService periodically removes expired one-time codes and flips
// stale invites to expired, so neither table grows without bound. Sweeps are
// storage hygiene only; request paths never depend on them for correctness.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 15 minutes.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep performs the actual cleanup. Each step is independent; a failure in
// one won't stop the others, and never touches the request-serving path.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	now := time.Now().UTC()

	deleted, err := s.Store.OTPCodes().DeleteExpiredOTPs(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired verification codes", "error", err)
	} else if deleted > 0 {
		s.Logger.Debug("deleted expired verification codes", "count", deleted)
	}

	expired, err := s.Store.Invites().ExpireInvites(ctx, now)
	if err != nil {
		s.Logger.Error("failed to expire stale invites", "error", err)
	} else if expired > 0 {
		s.Logger.Debug("expired stale invites", "count", expired)
	}
}
