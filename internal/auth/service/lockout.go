package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/store"
)

const (
	// DefaultLockoutThreshold is how many consecutive failures trip a block.
	DefaultLockoutThreshold = 3

	// DefaultLockoutDuration is how long a tripped block lasts.
	DefaultLockoutDuration = 1 * time.Minute

	// DefaultLockoutSweepInterval is how often the background sweep runs.
	DefaultLockoutSweepInterval = 1 * time.Minute
)

// LockoutService counts consecutive failed logins per phone and blocks the
// phone once the threshold is hit. Blocks expire after a fixed duration and
// are lifted lazily on the next check, with a background sweep catching
// accounts nobody retries. Block state is mirrored into the user store so a
// restart does not silently unlock accounts that were blocked.
type LockoutService struct {
	Store     store.Store
	Logger    *slog.Logger
	Threshold int
	BlockFor  time.Duration
	Interval  time.Duration

	// Now is the clock used for block expiry. Tests override it.
	Now func() time.Time

	mu       sync.Mutex
	attempts map[string]int
	blocked  map[string]time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewLockoutService creates a lockout service. Zero or negative settings
// fall back to the defaults.
func NewLockoutService(st store.Store, logger *slog.Logger, threshold int, blockFor, interval time.Duration) *LockoutService {
	if threshold <= 0 {
		threshold = DefaultLockoutThreshold
	}
	if blockFor <= 0 {
		blockFor = DefaultLockoutDuration
	}
	if interval <= 0 {
		interval = DefaultLockoutSweepInterval
	}

	return &LockoutService{
		Store:     st,
		Logger:    logger,
		Threshold: threshold,
		BlockFor:  blockFor,
		Interval:  interval,
		Now:       time.Now,
		attempts:  make(map[string]int),
		blocked:   make(map[string]time.Time),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// RecordFailure notes a failed login for the phone. It returns true when
// this failure tripped the threshold and the phone has just been blocked.
// Failures during an active block are not counted again.
func (s *LockoutService) RecordFailure(ctx context.Context, phone string) bool {
	if s.IsBlocked(ctx, phone) {
		return false
	}

	s.mu.Lock()
	s.attempts[phone]++
	tripped := s.attempts[phone] >= s.Threshold
	if tripped {
		s.blocked[phone] = s.Now().Add(s.BlockFor)
		delete(s.attempts, phone)
	}
	s.mu.Unlock()

	if !tripped {
		return false
	}

	if err := s.Store.Users().UpdateStatus(ctx, phone, domain.StatusBlocked); err != nil {
		s.Logger.Error("failed to persist block status", "phone", phone, "error", err)
	}
	s.Logger.Warn("account blocked after repeated failures", "phone", phone, "block_for", s.BlockFor)
	return true
}

// RecordSuccess clears the failure counter and any block for the phone.
// If a block was mirrored into the store it is lifted as well.
func (s *LockoutService) RecordSuccess(ctx context.Context, phone string) {
	s.mu.Lock()
	delete(s.attempts, phone)
	_, wasBlocked := s.blocked[phone]
	delete(s.blocked, phone)
	s.mu.Unlock()

	if wasBlocked {
		s.unblockStored(ctx, phone)
	}
}

// IsBlocked reports whether the phone is currently blocked. An expired
// block is lifted on the spot, including the mirrored store status.
func (s *LockoutService) IsBlocked(ctx context.Context, phone string) bool {
	s.mu.Lock()
	until, ok := s.blocked[phone]
	if ok && !s.Now().Before(until) {
		delete(s.blocked, phone)
		delete(s.attempts, phone)
		s.mu.Unlock()
		s.unblockStored(ctx, phone)
		return false
	}
	s.mu.Unlock()
	return ok
}

// Start begins the background sweep that lifts expired blocks.
// Non-blocking; call Stop to shut the worker down.
func (s *LockoutService) Start() {
	go s.run()
	s.Logger.Info("lockout sweep started", "interval", s.Interval)
}

// Stop shuts down the background sweep. Blocks until any in-progress
// sweep finishes.
func (s *LockoutService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("lockout sweep stopped")
}

func (s *LockoutService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep lifts every expired block in one pass.
func (s *LockoutService) Sweep(ctx context.Context) {
	now := s.Now()

	s.mu.Lock()
	var expired []string
	for phone, until := range s.blocked {
		if !now.Before(until) {
			expired = append(expired, phone)
			delete(s.blocked, phone)
			delete(s.attempts, phone)
		}
	}
	s.mu.Unlock()

	for _, phone := range expired {
		s.unblockStored(ctx, phone)
	}

	if len(expired) > 0 {
		s.Logger.Info("lockout sweep lifted expired blocks", "count", len(expired))
	}
}

// unblockStored flips the mirrored store status back to active, but only
// for accounts that are actually blocked there. Accounts that were never
// verified keep their status untouched elsewhere.
func (s *LockoutService) unblockStored(ctx context.Context, phone string) {
	u, err := s.Store.Users().GetUserByPhone(ctx, phone)
	if err != nil {
		s.Logger.Error("failed to load user for unblock", "phone", phone, "error", err)
		return
	}
	if u.Status != domain.StatusBlocked {
		return
	}
	if err := s.Store.Users().UpdateStatus(ctx, phone, domain.StatusActive); err != nil {
		s.Logger.Error("failed to lift block status", "phone", phone, "error", err)
		return
	}
	s.Logger.Info("account unblocked", "phone", phone)
}
