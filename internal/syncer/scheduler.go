package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/najeeb67/my-money-mat/internal/logger"
)

// Scheduler triggers sync work in the background: a periodic pass while
// online, and a pass whenever the connectivity probe sees the server return.
type Scheduler struct {
	orch                *Orchestrator
	syncInterval        time.Duration
	onlineCheckInterval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler. Non-positive intervals fall back to
// 5 minutes and 15 seconds.
func NewScheduler(orch *Orchestrator, syncInterval, onlineCheckInterval time.Duration) *Scheduler {
	if syncInterval <= 0 {
		syncInterval = 5 * time.Minute
	}
	if onlineCheckInterval <= 0 {
		onlineCheckInterval = 15 * time.Second
	}
	return &Scheduler{
		orch:                orch,
		syncInterval:        syncInterval,
		onlineCheckInterval: onlineCheckInterval,
	}
}

// Start probes connectivity once and launches the background loops. It
// returns immediately; call Stop or cancel ctx to shut down.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	logger.Get().Infow("starting sync scheduler",
		"sync_interval", s.syncInterval.String(),
		"online_check_interval", s.onlineCheckInterval.String(),
	)

	s.wg.Add(2)
	go s.watchConnectivity(ctx)
	go s.runPeriodic(ctx)
}

// Stop cancels the loops and waits for an in-flight pass to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	logger.Get().Info("sync scheduler stopped")
}

func (s *Scheduler) watchConnectivity(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.onlineCheckInterval)
	defer ticker.Stop()

	for {
		if s.orch.CheckConnectivity(ctx) {
			s.runPass(ctx, "reconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runPeriodic(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.orch.Online() {
				s.runPass(ctx, "scheduled")
			}
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context, trigger string) {
	syncResult, replayResult := s.orch.SyncAll(ctx)
	logger.Get().Infow("background sync finished",
		"trigger", trigger,
		"success", syncResult.Success,
		"pushed", syncResult.Pushed,
		"conflicts", syncResult.Conflicts,
		"sync_error", syncResult.Error,
		"replayed", replayResult.Succeeded,
		"replay_failed", replayResult.Failed,
	)
}
