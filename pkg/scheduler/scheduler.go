// Package scheduler keeps the knowledge base current by running the
// collector periodically and on demand.
//
// A cycle collects a new snapshot, persists it (when a backend is
// configured) and only then publishes it to the store, so readers never
// see a snapshot that was not saved. Failed attempts are retried with a
// fixed backoff. At most one cycle runs at a time: a forced update while a
// cycle is running is refused with UPDATE_IN_PROGRESS, and a periodic tick
// that finds a cycle running is skipped.
//
// Status is served from its own lock and never waits for a running cycle.
package scheduler

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/httputil"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
	"github.com/julicq/is-deprecated-or-not/pkg/observability"
	"github.com/julicq/is-deprecated-or-not/pkg/storage"
)

// Updater produces a fresh snapshot. *collector.Collector implements it.
type Updater interface {
	Collect(ctx context.Context) (*kb.Snapshot, error)
}

// Publisher holds the snapshot in service. *kb.Store implements it.
type Publisher interface {
	Current() *kb.Snapshot
	Publish(snap *kb.Snapshot)
}

// State is the scheduler's externally visible state.
type State struct {
	IsRunning   bool       `json:"is_running" yaml:"is_running"`
	LastUpdate  *time.Time `json:"last_update,omitempty" yaml:"last_update,omitempty"`
	NextUpdate  *time.Time `json:"next_update,omitempty" yaml:"next_update,omitempty"`
	LastError   string     `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	LastCycleID string     `json:"last_cycle_id,omitempty" yaml:"last_cycle_id,omitempty"`
}

// Status is a point-in-time copy of the scheduler state and settings.
type Status struct {
	State           `yaml:",inline"`
	Config          UpdateConfig `json:"config" yaml:"config"`
	CycleInProgress bool         `json:"cycle_in_progress" yaml:"cycle_in_progress"`
}

// Scheduler runs update cycles.
type Scheduler struct {
	cfg     UpdateConfig
	updater Updater
	store   Publisher
	backend storage.Backend
	logger  *log.Logger
	now     func() time.Time

	cycleMu    sync.Mutex
	inProgress atomic.Bool

	stateMu sync.RWMutex
	state   State

	lifeMu sync.Mutex
	stopCh chan struct{}
	ticker *time.Ticker
	wg     sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithBackend persists every new snapshot before it is published.
func WithBackend(b storage.Backend) Option {
	return func(s *Scheduler) { s.backend = b }
}

// WithLogger sets the logger for cycle progress.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for state timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a stopped scheduler. LastUpdate starts from the metadata of
// the snapshot currently in service.
func New(cfg UpdateConfig, updater Updater, store Publisher, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:     cfg.WithDefaults(),
		updater: updater,
		store:   store,
		logger:  log.New(io.Discard),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if cur := store.Current(); cur != nil {
		if t := cur.Metadata().LastUpdated; !t.IsZero() {
			s.state.LastUpdate = &t
		}
	}
	return s
}

// Config returns the effective configuration.
func (s *Scheduler) Config() UpdateConfig { return s.cfg }

// Start begins periodic updates every IntervalHours. Calling Start on a
// running scheduler does nothing.
func (s *Scheduler) Start() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.stopCh != nil {
		return
	}

	stop := make(chan struct{})
	s.stopCh = stop
	interval := s.cfg.Interval()
	s.ticker = time.NewTicker(interval)

	next := s.now().Add(interval)
	s.stateMu.Lock()
	s.state.IsRunning = true
	s.state.NextUpdate = &next
	s.stateMu.Unlock()

	s.wg.Add(1)
	go s.loop(stop, s.ticker)
	s.logger.Info("scheduler started", "interval", interval, "retries", s.cfg.RetryAttempts, "backoff", s.cfg.Backoff())
}

// Stop halts periodic updates. A cycle already running finishes its
// current attempt; pending retries are abandoned. No tick fires after Stop
// returns. Calling Stop on a stopped scheduler does nothing.
func (s *Scheduler) Stop() {
	s.lifeMu.Lock()
	stop := s.stopCh
	s.stopCh = nil
	s.ticker = nil
	s.lifeMu.Unlock()
	if stop == nil {
		return
	}

	close(stop)
	s.wg.Wait()

	s.stateMu.Lock()
	s.state.IsRunning = false
	s.state.NextUpdate = nil
	s.stateMu.Unlock()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(stop <-chan struct{}, ticker *time.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			err := s.runCycle(context.Background(), "tick", stop)
			if errors.Is(err, errors.ErrCodeUpdateInProgress) {
				s.logger.Debug("periodic update skipped, a cycle is already running")
			}
		}
	}
}

// ForceUpdate runs a cycle now and reports whether it succeeded. It
// returns false immediately when a cycle is already running.
func (s *Scheduler) ForceUpdate(ctx context.Context) bool {
	return s.Update(ctx) == nil
}

// Update runs a cycle now. It returns an UPDATE_IN_PROGRESS error without
// collecting when a cycle is already running, and the last attempt's
// error when every attempt fails.
func (s *Scheduler) Update(ctx context.Context) error {
	s.lifeMu.Lock()
	stop := s.stopCh
	s.lifeMu.Unlock()
	return s.runCycle(ctx, "manual", stop)
}

func (s *Scheduler) runCycle(ctx context.Context, trigger string, stop <-chan struct{}) error {
	hooks := observability.Scheduler()
	if !s.cycleMu.TryLock() {
		hooks.OnSkipped(ctx, trigger)
		return errors.New(errors.ErrCodeUpdateInProgress, "a knowledge base update is already running")
	}
	defer s.cycleMu.Unlock()
	s.inProgress.Store(true)
	defer s.inProgress.Store(false)

	id := uuid.NewString()
	logger := s.logger.With("cycle", id, "trigger", trigger)
	start := time.Now()
	logger.Info("update started")

	var attempt int
	policy := httputil.Policy{
		Attempts: 1 + s.cfg.RetryAttempts,
		Delay:    s.cfg.Backoff(),
		RetryAll: true,
		Stop:     stop,
		OnAttempt: func(n int, err error) {
			attempt = n
			hooks.OnAttempt(ctx, id, n, err)
			if err != nil {
				logger.Warn("update attempt failed", "attempt", n, "of", 1+s.cfg.RetryAttempts, "err", err)
			}
		},
	}
	err := policy.Do(ctx, s.attempt)
	if err != nil && attempt < policy.Attempts && stop != nil && isClosed(stop) {
		logger.Info("scheduler stopping, remaining retries abandoned")
	}
	hooks.OnCycleComplete(ctx, id, attempt, time.Since(start), err)

	s.finishCycle(id, err)
	if err != nil {
		logger.Error("update failed", "attempts", attempt, "err", err)
		return err
	}
	logger.Info("update complete", "attempts", attempt, "packages", s.store.Current().Len(), "duration", time.Since(start))
	return nil
}

// attempt collects, persists and publishes one snapshot.
func (s *Scheduler) attempt(ctx context.Context) error {
	snap, err := s.updater.Collect(ctx)
	if err != nil {
		return err
	}
	if s.backend != nil {
		if err := s.backend.Save(ctx, snap); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "persist snapshot to %s backend", s.backend.Name())
		}
	}
	s.store.Publish(snap)
	return nil
}

// finishCycle records the outcome and, while the scheduler runs, restarts
// the ticker so the next tick fires a full interval after this cycle, at
// the time NextUpdate reports.
func (s *Scheduler) finishCycle(id string, err error) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	now := s.now()
	if s.ticker != nil {
		s.ticker.Reset(s.cfg.Interval())
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.LastCycleID = id
	if err != nil {
		s.state.LastError = err.Error()
	} else {
		s.state.LastError = ""
		s.state.LastUpdate = &now
	}
	if s.ticker != nil {
		next := now.Add(s.cfg.Interval())
		s.state.NextUpdate = &next
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Status returns a copy of the current state. It never blocks on a
// running cycle.
func (s *Scheduler) Status() Status {
	s.stateMu.RLock()
	st := s.state
	s.stateMu.RUnlock()

	st.LastUpdate = copyTime(st.LastUpdate)
	st.NextUpdate = copyTime(st.NextUpdate)
	return Status{State: st, Config: s.cfg, CycleInProgress: s.inProgress.Load()}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
