// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/table"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// Cron handler names of the feature syncs.
const (
	NotesCronHandler  = "notes_sync"
	SurveyCronHandler = "survey_sync"
)

// defaultCaching is the caching strategy of each table unless overridden
// by configuration.
var defaultCaching = map[string]table.CachingStrategy{
	store.TableOfflineNotes:         table.CachingNone,
	store.TableCourseNotes:          table.CachingNone,
	store.TableOfflineSurveyAnswers: table.CachingLazy,
	store.TableSurveys:              table.CachingLazy,
	store.TableSyncTimestamps:       table.CachingEager,
	store.TableCron:                 table.CachingEager,
}

// Dependencies are the collaborators shared by every service of a session.
type Dependencies struct {
	Rows    store.RowStore
	Remote  adapter.RemoteChannel
	Network Connectivity
	// UserID is the acting user of the session.
	UserID int64
}

// Services holds the sync machinery and feature services of one session.
type Services struct {
	Notes  *NotesService
	Survey *SurveyService
	Cron   *CronScheduler

	Locks      *SyncLockRegistry
	Timestamps *SyncTimestampStore
	Events     *Events
	// SyncHandlers holds the entity sync handler of every component.
	SyncHandlers *Registry[EntitySyncHandler]

	coordinators map[string]*SyncCoordinator
}

// NewServices opens the session tables over deps.Rows and wires the
// services. Eager tables are loaded before it returns.
func NewServices(ctx context.Context, deps Dependencies, cfg *config.ClientConfig, logger *logger.Logger) (*Services, error) {
	overrides := cfg.Storage.Tables

	offlineNotes, err := openTable[models.OfflineNote](ctx, deps.Rows, store.TableOfflineNotes, overrides, offlineNoteMapper{})
	if err != nil {
		return nil, err
	}
	courseNotes, err := openTable[models.Note](ctx, deps.Rows, store.TableCourseNotes, overrides, noteMapper{})
	if err != nil {
		return nil, err
	}
	offlineAnswers, err := openTable[models.OfflineSurveyAnswers](ctx, deps.Rows, store.TableOfflineSurveyAnswers, overrides, offlineSurveyAnswersMapper{})
	if err != nil {
		return nil, err
	}
	surveys, err := openTable[models.Survey](ctx, deps.Rows, store.TableSurveys, overrides, surveyMapper{})
	if err != nil {
		return nil, err
	}
	timestamps, err := openTable[models.SyncTimestamp](ctx, deps.Rows, store.TableSyncTimestamps, overrides, syncTimestampMapper{})
	if err != nil {
		return nil, err
	}
	executions, err := openTable[models.CronExecution](ctx, deps.Rows, store.TableCron, overrides, cronExecutionMapper{})
	if err != nil {
		return nil, err
	}

	s := &Services{
		Locks:        NewSyncLockRegistry(),
		Timestamps:   NewSyncTimestampStore(timestamps),
		Events:       NewEvents(),
		SyncHandlers: NewRegistry[EntitySyncHandler]("sync handler"),
		Cron:         NewCronScheduler(executions, deps.Network, cfg.Workers.CronInterval, logger),
		coordinators: make(map[string]*SyncCoordinator),
	}

	notesHandler := &notesSyncHandler{
		pending:   offlineNotes,
		confirmed: courseNotes,
		remote:    deps.Remote,
		network:   deps.Network,
		logger:    logger,
	}
	surveyHandler := &surveySyncHandler{
		pending: offlineAnswers,
		surveys: surveys,
		remote:  deps.Remote,
		network: deps.Network,
		logger:  logger,
	}

	notesCoordinator, err := s.register(notesHandler, cfg.Sync.NotesMinInterval, logger)
	if err != nil {
		return nil, err
	}
	surveyCoordinator, err := s.register(surveyHandler, cfg.Sync.SurveyMinInterval, logger)
	if err != nil {
		return nil, err
	}

	s.Notes = &NotesService{
		pending:     offlineNotes,
		confirmed:   courseNotes,
		remote:      deps.Remote,
		network:     deps.Network,
		coordinator: notesCoordinator,
		userID:      deps.UserID,
		now:         time.Now,
		logger:      logger,
	}
	s.Survey = &SurveyService{
		pending:     offlineAnswers,
		surveys:     surveys,
		remote:      deps.Remote,
		network:     deps.Network,
		coordinator: surveyCoordinator,
		userID:      deps.UserID,
		now:         time.Now,
		logger:      logger,
	}

	cronHandlers := []CronHandler{
		&syncCronHandler{name: NotesCronHandler, interval: cfg.Sync.NotesMinInterval, syncAll: s.Notes.SyncAll, logger: logger},
		&syncCronHandler{name: SurveyCronHandler, interval: cfg.Sync.SurveyMinInterval, syncAll: s.Survey.SyncAll, logger: logger},
	}
	for _, handler := range cronHandlers {
		if err = s.Cron.Register(handler); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func openTable[T any](ctx context.Context, rows store.RowStore, name string, overrides map[string]string, mapper table.Mapper[T]) (*table.Table[T], error) {
	cfg, err := table.ConfigFor(name, defaultCaching[name], overrides)
	if err != nil {
		return nil, err
	}

	t, err := table.New(cfg, rows, name, store.PrimaryKeys[name], mapper)
	if err != nil {
		return nil, err
	}
	if err = t.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize table %s: %w", name, err)
	}

	return t, nil
}

func (s *Services) register(handler EntitySyncHandler, minInterval time.Duration, logger *logger.Logger) (*SyncCoordinator, error) {
	if err := s.SyncHandlers.Register(handler.Component(), handler); err != nil {
		return nil, err
	}

	c := NewSyncCoordinator(handler, s.Locks, s.Timestamps, s.Events, minInterval, logger)
	s.coordinators[handler.Component()] = c

	return c, nil
}

// Coordinator returns the sync coordinator of a component.
func (s *Services) Coordinator(component string) (*SyncCoordinator, error) {
	if _, err := s.SyncHandlers.Get(component); err != nil {
		return nil, err
	}
	return s.coordinators[component], nil
}

// SyncAll synchronizes every entity with pending data of every component.
// Every component is attempted; the returned error joins the failures.
func (s *Services) SyncAll(ctx context.Context, force bool) ([]models.SyncReport, error) {
	var (
		reports []models.SyncReport
		errs    []error
	)

	for _, syncAll := range []func(context.Context, bool) ([]models.SyncReport, error){s.Notes.SyncAll, s.Survey.SyncAll} {
		r, err := syncAll(ctx, force)
		reports = append(reports, r...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return reports, errors.Join(errs...)
}
