// Package scheduler runs registered jobs on cron schedules inside one process.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/domain"
)

// Job is one scheduled unit of work. Returned errors are logged, never retried.
type Job func(ctx context.Context) error

// Firing outcomes, also used as the result label of the job runs metric.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultPanic   = "panic"
	ResultSkipped = "skipped"
)

var ErrUnknownJob = errors.New("job not registered")

type entry struct {
	id     string
	spec   string
	job    Job
	cronID cron.EntryID
}

// Scheduler wraps a cron instance keyed by job identity.
type Scheduler struct {
	cron    *cron.Cron
	locker  domain.Locker // optional
	lockTTL time.Duration

	mu      sync.Mutex
	jobs    map[string]*entry
	running bool

	base   context.Context
	cancel context.CancelFunc
}

// New builds a stopped scheduler evaluating schedules in loc. A nil locker
// disables cross-process exclusion.
func New(loc *time.Location, locker domain.Locker, lockTTL time.Duration) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Minute
	}
	base, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		locker:  locker,
		lockTTL: lockTTL,
		jobs:    make(map[string]*entry),
		base:    base,
		cancel:  cancel,
	}
}

// DailySpec is the five-field cron expression for hour:minute every day.
func DailySpec(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

// Register adds job under id. Registering an id again replaces the previous entry.
func (s *Scheduler) Register(id, spec string, job Job) error {
	if id == "" {
		return fmt.Errorf("job id is required")
	}
	if job == nil {
		return fmt.Errorf("job %s: nil func", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.jobs[id]; ok {
		s.cron.Remove(prev.cronID)
		delete(s.jobs, id)
		log.Info().Str("job", id).Str("schedule", prev.spec).Msg("replacing registered job")
	}

	e := &entry{id: id, spec: spec, job: job}
	cronID, err := s.cron.AddFunc(spec, func() { s.fire(id) })
	if err != nil {
		return fmt.Errorf("job %s: invalid schedule %q: %w", id, spec, err)
	}
	e.cronID = cronID
	s.jobs[id] = e

	log.Info().Str("job", id).Str("schedule", spec).Msg("job registered")
	return nil
}

// Entries lists registered job ids.
func (s *Scheduler) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Next reports the next firing time of id, zero if unknown or not started.
func (s *Scheduler) Next(id string) time.Time {
	s.mu.Lock()
	e, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(e.cronID).Next
}

// Start begins firing. Calling it on a running scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	log.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Stop prevents new firings and waits for in-flight ones until ctx is done,
// at which point their context is cancelled.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		log.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		log.Warn().Msg("scheduler stopped before in-flight jobs finished")
		return ctx.Err()
	}
}

// Trigger runs id once, synchronously, with the same locking and recovery as a
// scheduled firing. It returns the firing result.
func (s *Scheduler) Trigger(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	e, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	return s.execute(ctx, e), nil
}

func (s *Scheduler) fire(id string) {
	s.mu.Lock()
	e, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.execute(s.base, e)
}

func (s *Scheduler) execute(ctx context.Context, e *entry) (result string) {
	l := observability.Component(log.Logger, "scheduler").With().Str("job", e.id).Logger()

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, e.id, s.lockTTL)
		switch {
		case err != nil:
			l.Warn().Err(err).Msg("run lock unavailable, firing without it")
		case !ok:
			l.Info().Msg("job is already running elsewhere, skipping firing")
			observability.ObserveJob(e.id, ResultSkipped)
			return ResultSkipped
		default:
			defer release()
		}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			l.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Bytes("stack", debug.Stack()).
				Msg("job panicked")
			result = ResultPanic
		}
		logResult(l, result, time.Since(start))
		observability.ObserveJob(e.id, result)
	}()

	if err := e.job(ctx); err != nil {
		l.Error().Err(err).Msg("job failed")
		return ResultError
	}
	return ResultSuccess
}

func logResult(l zerolog.Logger, result string, dur time.Duration) {
	l.Info().Str("result", result).Dur("duration", dur).Msg("job finished")
}
