// Package worker runs the campaign lifecycle scheduler. It polls storage
// for campaigns whose scheduled time has arrived and walks them through
// scheduled -> running -> completed. Interaction recording is independent
// of the lifecycle; a click against a completed campaign still counts.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ignite/phishdrill/internal/domain"
	"github.com/ignite/phishdrill/internal/pkg/distlock"
	"github.com/ignite/phishdrill/internal/pkg/logger"
	"github.com/ignite/phishdrill/internal/service/campaign"
)

const (
	// DefaultPollInterval is how often the scheduler checks for due campaigns.
	DefaultPollInterval = 30 * time.Second

	// DefaultRunWindow is how long a campaign stays running before it is
	// marked completed. One week covers the usual drill cadence.
	DefaultRunWindow = 168 * time.Hour
)

// Scheduler polls for due campaigns and advances their lifecycle status.
type Scheduler struct {
	repo         campaign.Repository
	lock         distlock.Lock // optional; nil means single-instance
	pollInterval time.Duration
	runWindow    time.Duration

	// Stats
	started   int64
	completed int64
	errors    int64

	// Control
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewScheduler creates a scheduler over the given repository. Zero values
// for pollInterval and runWindow take the defaults.
func NewScheduler(repo campaign.Repository, pollInterval, runWindow time.Duration) *Scheduler {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if runWindow <= 0 {
		runWindow = DefaultRunWindow
	}
	return &Scheduler{
		repo:         repo,
		pollInterval: pollInterval,
		runWindow:    runWindow,
	}
}

// SetLock installs a distributed lock so that with multiple server
// instances only one advances campaign lifecycles per tick.
func (s *Scheduler) SetLock(lock distlock.Lock) {
	s.lock = lock
}

// Start begins the polling loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	logger.Info("scheduler starting",
		"poll_interval", s.pollInterval.String(),
		"run_window", s.runWindow.String(),
	)

	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	logger.Info("scheduler stopped",
		"started", fmt.Sprintf("%d", atomic.LoadInt64(&s.started)),
		"completed", fmt.Sprintf("%d", atomic.LoadInt64(&s.completed)),
	)
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.ctx)
		}
	}
}

// Tick runs one scheduling pass: start due campaigns, then complete
// expired ones. Exported so tests and one-shot invocations can drive the
// scheduler without the polling loop.
func (s *Scheduler) Tick(ctx context.Context) {
	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx)
		if err != nil {
			atomic.AddInt64(&s.errors, 1)
			logger.Warn("scheduler: lock acquire failed", "error", err.Error())
			return
		}
		if !ok {
			// Another instance owns this tick.
			return
		}
		defer s.lock.Release(ctx)
	}

	now := time.Now().UTC()
	s.startDue(ctx, now)
	s.completeExpired(ctx, now)
}

// startDue moves scheduled campaigns whose time has arrived to running.
func (s *Scheduler) startDue(ctx context.Context, now time.Time) {
	due, err := s.repo.ListDueCampaigns(ctx, domain.CampaignScheduled, now)
	if err != nil {
		atomic.AddInt64(&s.errors, 1)
		logger.Error("scheduler: list due campaigns failed", "error", err.Error())
		return
	}

	for _, c := range due {
		if err := s.repo.UpdateCampaignStatus(ctx, c.TenantID, c.ID, domain.CampaignRunning); err != nil {
			atomic.AddInt64(&s.errors, 1)
			logger.Error("scheduler: start campaign failed", "campaign", c.ID, "error", err.Error())
			continue
		}
		atomic.AddInt64(&s.started, 1)
		logger.Info("campaign started", "campaign", c.ID, "tenant", c.TenantID)
	}
}

// completeExpired moves running campaigns past their run window to
// completed. The window is measured from the scheduled time, which is
// also when startDue flips the status.
func (s *Scheduler) completeExpired(ctx context.Context, now time.Time) {
	cutoff := now.Add(-s.runWindow)
	expired, err := s.repo.ListDueCampaigns(ctx, domain.CampaignRunning, cutoff)
	if err != nil {
		atomic.AddInt64(&s.errors, 1)
		logger.Error("scheduler: list running campaigns failed", "error", err.Error())
		return
	}

	for _, c := range expired {
		if err := s.repo.UpdateCampaignStatus(ctx, c.TenantID, c.ID, domain.CampaignCompleted); err != nil {
			atomic.AddInt64(&s.errors, 1)
			logger.Error("scheduler: complete campaign failed", "campaign", c.ID, "error", err.Error())
			continue
		}
		atomic.AddInt64(&s.completed, 1)
		logger.Info("campaign completed", "campaign", c.ID, "tenant", c.TenantID)
	}
}
