// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/table"
	"github.com/moodlehq/moodleapp-sub049/models"
)

const (
	// DefaultCronInterval is used by handlers without an interval of their own.
	DefaultCronInterval = time.Hour
	// MinCronInterval is the shortest interval between two executions of a
	// handler, and the retry delay after a failed execution.
	MinCronInterval = 4 * time.Minute
	// MaxCronExecution is how long an execution may block the queue. An
	// execution that takes longer is considered finished.
	MaxCronExecution = 2 * time.Minute
)

const lastExecutionPrefix = "last_execution_"

// CronScheduler runs [CronHandler]s periodically. Executions never overlap;
// the last execution time of each handler survives restarts.
type CronScheduler struct {
	handlers   *Registry[CronHandler]
	executions *table.Table[models.CronExecution]
	network    Connectivity

	defaultInterval time.Duration
	minInterval     time.Duration
	maxExecution    time.Duration

	now    func() time.Time
	logger *logger.Logger

	// queue serializes executions
	queue sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCronScheduler creates an idle scheduler. defaultInterval replaces
// [DefaultCronInterval] when positive.
func NewCronScheduler(executions *table.Table[models.CronExecution], network Connectivity, defaultInterval time.Duration, logger *logger.Logger) *CronScheduler {
	if defaultInterval <= 0 {
		defaultInterval = DefaultCronInterval
	}

	return &CronScheduler{
		handlers:        NewRegistry[CronHandler]("cron handler"),
		executions:      executions,
		network:         network,
		defaultInterval: defaultInterval,
		minInterval:     MinCronInterval,
		maxExecution:    MaxCronExecution,
		now:             time.Now,
		logger:          logger,
	}
}

// Register adds a handler. Handlers registered after Start are scheduled on
// the next Start.
func (s *CronScheduler) Register(handler CronHandler) error {
	return s.handlers.Register(handler.Name(), handler)
}

// HasManualSyncHandlers reports whether any handler can be run by
// [CronScheduler.ForceSyncExecution].
func (s *CronScheduler) HasManualSyncHandlers() bool {
	for _, handler := range s.handlers.All() {
		if handler.CanManualSync() {
			return true
		}
	}
	return false
}

// HasSyncHandlers reports whether any handler is a sync process.
func (s *CronScheduler) HasSyncHandlers() bool {
	for _, handler := range s.handlers.All() {
		if handler.IsSync() {
			return true
		}
	}
	return false
}

// Start stops any previous run, then schedules every registered handler
// until ctx is cancelled or Stop is called.
func (s *CronScheduler) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	handlers := s.handlers.All()
	s.wg.Add(len(handlers))
	s.mu.Unlock()

	for _, handler := range handlers {
		go func() {
			defer s.wg.Done()
			s.schedule(runCtx, handler)
		}()
	}
}

// Stop cancels scheduling and waits for every handler loop to exit. Safe to
// call when the scheduler is not running.
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Run schedules the handlers and blocks until ctx is cancelled.
func (s *CronScheduler) Run(ctx context.Context) error {
	s.Start(ctx)
	<-ctx.Done()
	s.Stop()

	return nil
}

func (s *CronScheduler) schedule(ctx context.Context, handler CronHandler) {
	log := s.logger.With().Str("func", "CronScheduler.schedule").Str("handler", handler.Name()).Logger()

	delay, err := s.untilNextExecution(ctx, handler)
	if err != nil {
		log.Warn().Err(err).Msg("could not read last execution, running now")
	}

	for {
		log.Debug().Dur("delay", delay).Msg("next execution scheduled")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		delay = s.interval(handler)
		if err = s.Execute(ctx, handler.Name(), false); err != nil {
			if ctx.Err() != nil {
				return
			}
			delay = s.minInterval
		}
	}
}

func (s *CronScheduler) untilNextExecution(ctx context.Context, handler CronHandler) (time.Duration, error) {
	last, ok, err := s.LastExecution(ctx, handler.Name())
	if err != nil || !ok {
		return 0, err
	}

	return max(0, last.Add(s.interval(handler)).Sub(s.now())), nil
}

func (s *CronScheduler) interval(handler CronHandler) time.Duration {
	interval := handler.Interval()
	if interval <= 0 {
		return s.defaultInterval
	}
	return max(s.minInterval, interval)
}

// Execute runs the named handler once, waiting for any execution in
// progress. force marks a manual execution. Handlers using the network fail
// with [ErrOffline] while the device is offline.
func (s *CronScheduler) Execute(ctx context.Context, name string, force bool) error {
	_, err := s.execute(ctx, name, force)
	return err
}

func (s *CronScheduler) execute(ctx context.Context, name string, force bool) ([]models.SyncReport, error) {
	handler, err := s.handlers.Get(name)
	if err != nil {
		return nil, err
	}

	log := s.logger.With().Str("func", "CronScheduler.Execute").Str("handler", name).Logger()

	if handler.UsesNetwork() && !s.network.IsOnline() {
		log.Debug().Msg("skipping execution while offline")
		return nil, ErrOffline
	}

	s.queue.Lock()
	defer s.queue.Unlock()

	reports, err := s.run(ctx, handler, force)
	if err != nil {
		log.Err(err).Msg("cron execution failed")
		return reports, err
	}

	if err = s.setLastExecution(ctx, name, s.now()); err != nil {
		log.Warn().Err(err).Msg("could not record last execution")
	}
	log.Debug().Bool("force", force).Msg("cron execution finished")

	return reports, nil
}

// cronOutcome is what one handler execution produced.
type cronOutcome struct {
	reports []models.SyncReport
	err     error
}

// run waits for the handler at most maxExecution. A handler still running
// after that keeps running on its own and the execution counts as done.
func (s *CronScheduler) run(ctx context.Context, handler CronHandler, force bool) ([]models.SyncReport, error) {
	done := make(chan cronOutcome, 1)
	go func() {
		var outcome cronOutcome
		if reporter, ok := handler.(syncReporter); ok {
			outcome.reports, outcome.err = reporter.sync(ctx, force)
		} else {
			outcome.err = handler.Execute(ctx, force)
		}
		done <- outcome
	}()

	timer := time.NewTimer(s.maxExecution)
	defer timer.Stop()

	select {
	case outcome := <-done:
		return outcome.reports, outcome.err
	case <-timer.C:
		s.logger.Debug().
			Str("func", "CronScheduler.run").
			Str("handler", handler.Name()).
			Msg("execution took too long, not waiting for it")
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ForceSyncExecution executes every manual sync handler now and returns
// the sync reports they produced. Every handler is attempted; the returned
// error joins the failures.
func (s *CronScheduler) ForceSyncExecution(ctx context.Context) ([]models.SyncReport, error) {
	var (
		reports []models.SyncReport
		errs    []error
	)
	for _, name := range s.handlers.Names() {
		handler, err := s.handlers.Get(name)
		if err != nil || !handler.CanManualSync() {
			continue
		}
		r, err := s.execute(ctx, name, true)
		reports = append(reports, r...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return reports, errors.Join(errs...)
}

// LastExecution returns when the named handler last finished.
func (s *CronScheduler) LastExecution(ctx context.Context, name string) (time.Time, bool, error) {
	execution, err := s.executions.GetOneByPrimaryKey(ctx, store.Conditions{"id": lastExecutionPrefix + name})
	if errors.Is(err, store.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	return execution.ExecutedAt, true, nil
}

func (s *CronScheduler) setLastExecution(ctx context.Context, name string, at time.Time) error {
	id := lastExecutionPrefix + name
	if _, err := s.executions.DeleteByPrimaryKey(ctx, store.Conditions{"id": id}); err != nil {
		return err
	}

	return s.executions.Insert(ctx, models.CronExecution{ID: id, ExecutedAt: at})
}

// syncReporter is implemented by cron handlers whose executions produce
// sync reports.
type syncReporter interface {
	sync(ctx context.Context, force bool) ([]models.SyncReport, error)
}

// syncCronHandler runs the SyncAll of a feature service periodically.
type syncCronHandler struct {
	name     string
	interval time.Duration
	syncAll  func(ctx context.Context, force bool) ([]models.SyncReport, error)
	logger   *logger.Logger
}

func (h *syncCronHandler) Name() string            { return h.name }
func (h *syncCronHandler) Interval() time.Duration { return h.interval }
func (h *syncCronHandler) UsesNetwork() bool       { return true }
func (h *syncCronHandler) IsSync() bool            { return true }
func (h *syncCronHandler) CanManualSync() bool     { return true }

func (h *syncCronHandler) Execute(ctx context.Context, force bool) error {
	_, err := h.sync(ctx, force)
	return err
}

func (h *syncCronHandler) sync(ctx context.Context, force bool) ([]models.SyncReport, error) {
	reports, err := h.syncAll(ctx, force)
	for _, report := range reports {
		for _, warning := range report.Result.Warnings {
			h.logger.Warn().
				Str("func", "syncCronHandler.Execute").
				Str("component", report.Component).
				Int64("entity_id", report.EntityID).
				Msg(warning)
		}
	}
	return reports, err
}
