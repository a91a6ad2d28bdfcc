package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/workdeck/workdeck/internal/jobs"
)

// Snapshot keeps the most recent good copy of the job collection so page
// renders never wait on the record store. A background cron refreshes it;
// until the first refresh succeeds, Jobs fetches inline through the
// per-request cache.
type Snapshot struct {
	repo   *jobs.Repository
	logger *slog.Logger

	mu        sync.RWMutex
	jobs      []jobs.Job
	loaded    bool
	fetchedAt time.Time

	cron *cron.Cron
}

func NewSnapshot(repo *jobs.Repository, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapshot{repo: repo, logger: logger}
}

// Refresh fetches the collection and replaces the cached copy. The old copy
// is kept when the fetch fails so a flaky store dims nothing.
func (s *Snapshot) Refresh(ctx context.Context) error {
	list, err := s.repo.GetJobs(ctx)
	if err != nil {
		if errors.Is(err, jobs.ErrNotConfigured) {
			s.logger.Warn("job store not configured, serving empty collection")
		} else {
			s.logger.Error("snapshot refresh failed", slog.String("error", err.Error()))
		}
		return err
	}

	s.mu.Lock()
	s.jobs = list
	s.loaded = true
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("snapshot refreshed", slog.Int("jobs", len(list)))
	return nil
}

// Jobs returns the cached collection, fetching inline when no refresh has
// succeeded yet. Errors degrade to an empty slice; pages render without jobs
// rather than failing.
func (s *Snapshot) Jobs(ctx context.Context) []jobs.Job {
	s.mu.RLock()
	if s.loaded {
		list := s.jobs
		s.mu.RUnlock()
		return list
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs
}

// Start schedules periodic refreshes. It returns immediately; Stop tears the
// schedule down.
func (s *Snapshot) Start(every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}

	s.cron = cron.New()
	s.cron.Schedule(cron.Every(every), cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), every)
		defer cancel()
		_ = s.Refresh(ctx)
	}))
	s.cron.Start()
}

func (s *Snapshot) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
