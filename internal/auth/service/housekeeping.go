package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/store"
)

// HousekeepingService periodically repairs invite links that the sign-in
// callback could not write and purges signing keys no token can still use.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// KeyRetention is how long a key is kept after it stops signing. Zero
	// keeps keys forever.
	KeyRetention time.Duration
	Now          func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a worker. A non-positive interval defaults
// to one hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, keyRetention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:        store,
		Logger:       logger,
		Interval:     interval,
		KeyRetention: keyRetention,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start runs one pass immediately and then one per Interval until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-flight pass finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single pass. Each step is independent.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	linked, err := s.Store.Invites().LinkRedeemedInviteCodes(ctx)
	if err != nil {
		s.Logger.Error("failed to link redeemed invite codes", "error", err)
	} else if linked > 0 {
		s.Logger.Info("linked redeemed invite codes", "count", linked)
	}

	if s.KeyRetention <= 0 {
		return
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	purged, err := s.Store.SigningKeys().DeleteSigningKeysExpiredBefore(ctx, now.Add(-s.KeyRetention))
	if err != nil {
		s.Logger.Error("failed to purge signing keys", "error", err)
	} else if purged > 0 {
		s.Logger.Info("purged retired signing keys", "count", purged)
	}
}
