package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/screenyapp/screeny/internal/manager"
	"github.com/screenyapp/screeny/internal/placement"
	"github.com/screenyapp/screeny/internal/screen"
)

// SchedulerConfig holds configuration for the reconciliation scheduler.
type SchedulerConfig struct {
	ApplyInterval  time.Duration
	DetectInterval time.Duration
	Logger         *slog.Logger
}

// Status is a point-in-time report of the scheduler's recent activity.
type Status struct {
	Paused     bool             `json:"paused"`
	LastApply  time.Time        `json:"last_apply"`
	LastResult placement.Result `json:"last_result"`
}

// Scheduler drives the daemon's two periodic loops from a single goroutine:
// screen detection on a slow cadence and placement passes on a fast one.
// Requests for an immediate pass coalesce through a one-slot channel, so
// passes never run concurrently.
type Scheduler struct {
	applyInterval  time.Duration
	detectInterval time.Duration

	manager  *manager.Manager
	detector *screen.Detector
	engine   *placement.Engine
	logger   *slog.Logger

	applyNow chan struct{}

	mu         sync.Mutex
	paused     bool
	lastApply  time.Time
	lastResult placement.Result
}

// NewScheduler creates a scheduler with the given configuration.
func NewScheduler(cfg SchedulerConfig, mgr *manager.Manager, det *screen.Detector, eng *placement.Engine) *Scheduler {
	applyInterval := cfg.ApplyInterval
	if applyInterval <= 0 {
		applyInterval = 5 * time.Second
	}
	detectInterval := cfg.DetectInterval
	if detectInterval <= 0 {
		detectInterval = 30 * time.Second
	}

	return &Scheduler{
		applyInterval:  applyInterval,
		detectInterval: detectInterval,
		manager:        mgr,
		detector:       det,
		engine:         eng,
		logger:         cfg.Logger,
		applyNow:       make(chan struct{}, 1),
	}
}

// Run starts the scheduling loop. Blocks until context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	applyTicker := time.NewTicker(s.applyInterval)
	defer applyTicker.Stop()
	detectTicker := time.NewTicker(s.detectInterval)
	defer detectTicker.Stop()

	s.logger.Info("scheduler started",
		"apply_interval", s.applyInterval, "detect_interval", s.detectInterval)

	// Populate the snapshot before the first placement pass.
	s.detect()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-detectTicker.C:
			s.detect()
		case <-applyTicker.C:
			s.apply()
		case <-s.applyNow:
			s.apply()
		}
	}
}

// ApplyNow requests an immediate placement pass. Never blocks; a request
// made while one is already queued is absorbed.
func (s *Scheduler) ApplyNow() {
	select {
	case s.applyNow <- struct{}{}:
	default:
	}
}

// Pause suspends placement passes and auto-deactivation. Detection keeps
// running so the snapshot stays fresh.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		s.paused = true
		s.logger.Info("scheduler paused")
	}
}

// Resume re-enables placement passes and requests one immediately.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	wasPaused := s.paused
	s.paused = false
	s.mu.Unlock()

	if wasPaused {
		s.logger.Info("scheduler resumed")
		s.ApplyNow()
	}
}

// Paused reports whether placement passes are suspended.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Status returns the scheduler's pause state and the outcome of the most
// recent placement pass.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Paused:     s.paused,
		LastApply:  s.lastApply,
		LastResult: s.lastResult,
	}
}

// detect performs a single detection pass.
func (s *Scheduler) detect() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("detection panic recovered", "error", err)
		}
	}()

	snap, err := s.detector.Detect()
	if err != nil {
		s.logger.Error("detection pass failed", "error", err)
		return
	}

	if !s.Paused() {
		s.manager.CheckValidity(snap)
	}
}

// apply performs a single placement pass.
func (s *Scheduler) apply() {
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("placement panic recovered", "error", err)
		}
	}()

	if s.Paused() {
		return
	}

	resolved, err := s.manager.ActiveRules()
	if err != nil {
		s.logger.Error("failed to resolve active rules", "error", err)
		return
	}
	if len(resolved) == 0 {
		return
	}

	windows, err := s.detector.Windows()
	if err != nil {
		s.logger.Error("failed to list windows", "error", err)
		return
	}

	res := s.engine.Apply(resolved, windows, s.detector.Current())

	s.mu.Lock()
	s.lastApply = time.Now()
	s.lastResult = res
	s.mu.Unlock()

	if res.Applied > 0 || res.Failed > 0 {
		s.logger.Info("placement pass finished",
			"applied", res.Applied,
			"skipped_no_monitor", res.SkippedNoMonitor,
			"skipped_no_window", res.SkippedNoWindow,
			"failed", res.Failed)
	}
}
