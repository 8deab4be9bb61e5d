// Package scheduler periodically releases scheduled posts whose publication time has passed.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the release sweep every minute.
const DefaultSpec = "@every 1m"

var ErrSpecRequired = errors.New("release schedule cron expression is required")

// Releaser publishes every due scheduled post and reports how many were released.
type Releaser interface {
	ReleaseAll(ctx context.Context) (int, error)
}

type ReleaseScheduler struct {
	spec     string
	releaser Releaser
	logger   *slog.Logger
	timeout  time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

func NewReleaseScheduler(spec string, releaser Releaser, logger *slog.Logger) (*ReleaseScheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}

	if err := Validate(spec); err != nil {
		return nil, err
	}

	return &ReleaseScheduler{
		spec:     spec,
		releaser: releaser,
		timeout:  time.Minute,
		logger:   logger.With("module", "release_scheduler", "cron", spec),
	}, nil
}

// Validate checks a cron expression, descriptors such as "@every 1m" included.
func Validate(spec string) error {
	if spec == "" {
		return ErrSpecRequired
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	return nil
}

func (s *ReleaseScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	logger := cronLogger{logger: s.logger}

	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.SkipIfStillRunning(logger),
		cron.Recover(logger),
	))

	id, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) })
	if err != nil {
		return fmt.Errorf("failed to add release job: %w", err)
	}

	s.logger.InfoContext(ctx, "starting release scheduler", "entry_id", id)

	c.Start()
	s.cron = c

	return nil
}

// RunOnce performs a single release sweep.
func (s *ReleaseScheduler) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	released, err := s.releaser.ReleaseAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "release sweep finished with errors", "released", released, "error", err)

		return released
	}

	if released > 0 {
		s.logger.InfoContext(ctx, "release sweep finished", "released", released)
	} else {
		s.logger.DebugContext(ctx, "release sweep finished", "released", 0)
	}

	return released
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *ReleaseScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}

	s.logger.InfoContext(ctx, "stopping release scheduler")

	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
