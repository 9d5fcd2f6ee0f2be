package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
)

// HousekeepingService periodically drops expired CSRF records and guest
// carts nobody touched for AnonymousTTL. Neither is needed for correctness.
type HousekeepingService struct {
	Store        store.Store
	CSRF         *CSRFGuard
	Logger       *slog.Logger
	Interval     time.Duration
	AnonymousTTL time.Duration
	Now          func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to 10 minutes.
func NewHousekeepingService(s store.Store, csrf *CSRFGuard, logger *slog.Logger, interval, anonymousTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &HousekeepingService{
		Store:        s,
		CSRF:         csrf,
		Logger:       logger,
		Interval:     interval,
		AnonymousTTL: anonymousTTL,
		Now:          time.Now,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-flight cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. A failing step does not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	if s.CSRF != nil {
		if n, err := s.CSRF.Sweep(ctx); err != nil {
			s.Logger.Error("failed to sweep csrf records", "error", err)
		} else {
			s.Logger.Debug("swept csrf records", "deleted", n)
		}
	}

	if s.Store != nil && s.AnonymousTTL > 0 {
		now := time.Now()
		if s.Now != nil {
			now = s.Now()
		}
		cutoff := now.Add(-s.AnonymousTTL)
		if n, err := s.Store.CartItems().DeleteAnonymousItemsBefore(ctx, cutoff); err != nil {
			s.Logger.Error("failed to delete abandoned guest carts", "error", err)
		} else {
			s.Logger.Debug("deleted abandoned guest cart items", "deleted", n)
		}
	}
}
