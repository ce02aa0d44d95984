// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/table"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// NotesComponent is the component name of course notes.
const NotesComponent = "notes"

// NotesService creates course notes, queueing them while offline.
type NotesService struct {
	pending     *table.Table[models.OfflineNote]
	confirmed   *table.Table[models.Note]
	remote      adapter.RemoteChannel
	network     Connectivity
	coordinator *SyncCoordinator

	userID int64
	now    func() time.Time
	logger *logger.Logger
}

// AddNote creates a note as the session user. When the device is offline,
// or the remote authority cannot be reached, the note is queued and sent is
// false. A note refused by the remote authority is returned as a
// [*adapter.RejectionError] and not queued.
func (s *NotesService) AddNote(ctx context.Context, note models.NoteSubmission) (sent bool, err error) {
	if note.Format == 0 {
		note.Format = models.DefaultTextFormat
	}

	if !s.network.IsOnline() {
		return false, s.storeOffline(ctx, note)
	}

	outcomes, err := s.remote.CreateNotes(ctx, []models.NoteSubmission{note})
	if err != nil {
		if _, rejected := adapter.IsDeclaredRejection(err); rejected {
			return false, err
		}

		s.logger.Warn().Err(err).
			Str("func", "NotesService.AddNote").
			Int64("entity_id", note.CourseID).
			Msg("remote unavailable, storing note offline")
		return false, s.storeOffline(ctx, note)
	}

	if len(outcomes) != 1 {
		return false, s.storeOffline(ctx, note)
	}
	if outcomes[0].Rejected() {
		return false, &adapter.RejectionError{Code: "notecreationfailed", Message: outcomes[0].ErrorMessage}
	}

	return true, nil
}

func (s *NotesService) storeOffline(ctx context.Context, note models.NoteSubmission) error {
	now := s.now()
	err := s.pending.Insert(ctx, models.OfflineNote{
		UserID:       note.UserID,
		CourseID:     note.CourseID,
		PublishState: note.PublishState,
		Content:      note.Text,
		Format:       note.Format,
		AuthorID:     s.userID,
		Created:      now,
		LastModified: now,
	})
	if err != nil {
		return fmt.Errorf("store note offline: %w", err)
	}
	return nil
}

// PendingNotes returns the queued notes of the session user in a course,
// oldest first.
func (s *NotesService) PendingNotes(ctx context.Context, courseID int64) ([]models.OfflineNote, error) {
	return s.pending.GetMany(ctx,
		store.Conditions{"course_id": courseID, "author_id": s.userID},
		table.By("created"),
	)
}

// HasDataToSync reports whether the session user has queued notes in a
// course.
func (s *NotesService) HasDataToSync(ctx context.Context, courseID int64) (bool, error) {
	n, err := s.pending.Count(ctx, store.Conditions{"course_id": courseID, "author_id": s.userID})
	return n > 0, err
}

// CourseNotes returns the confirmed notes of a course as last downloaded,
// newest first.
func (s *NotesService) CourseNotes(ctx context.Context, courseID int64) ([]models.Note, error) {
	return s.confirmed.GetMany(ctx,
		store.Conditions{"course_id": courseID},
		table.Sorting{table.Desc("created"), table.Desc("id")},
	)
}

// SyncCourse synchronizes the queued notes of a course now.
func (s *NotesService) SyncCourse(ctx context.Context, courseID int64) (models.SyncResult, error) {
	return s.coordinator.Sync(ctx, SyncTarget{EntityID: courseID, UserID: s.userID})
}

// SyncAll synchronizes every course with queued notes. Without force,
// courses synced within the minimum interval are skipped.
func (s *NotesService) SyncAll(ctx context.Context, force bool) ([]models.SyncReport, error) {
	queued, err := s.pending.GetMany(ctx, store.Conditions{"author_id": s.userID}, table.By("course_id"))
	if err != nil {
		return nil, fmt.Errorf("list queued notes: %w", err)
	}

	courses := make([]int64, 0, len(queued))
	for _, note := range queued {
		courses = append(courses, note.CourseID)
	}

	return syncEntities(ctx, s.coordinator, s.userID, slices.Compact(courses), force)
}

type notesSyncHandler struct {
	pending   *table.Table[models.OfflineNote]
	confirmed *table.Table[models.Note]
	remote    adapter.RemoteChannel
	network   Connectivity
	logger    *logger.Logger
}

func (h *notesSyncHandler) Component() string {
	return NotesComponent
}

// Sync submits every queued note of the course in one batch.
func (h *notesSyncHandler) Sync(ctx context.Context, target SyncTarget) (models.SyncResult, error) {
	result := models.SyncResult{Warnings: []string{}}

	notes, err := h.pending.GetMany(ctx,
		store.Conditions{"course_id": target.EntityID, "author_id": target.UserID},
		table.By("created"),
	)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("list queued notes: %w", err)
	}
	if len(notes) == 0 {
		return result, nil
	}
	if !h.network.IsOnline() {
		return models.SyncResult{}, ErrOffline
	}

	batch := make([]models.NoteSubmission, 0, len(notes))
	for _, note := range notes {
		batch = append(batch, models.NoteSubmission{
			UserID:       note.UserID,
			CourseID:     note.CourseID,
			PublishState: note.PublishState,
			Text:         note.Content,
			Format:       note.Format,
		})
	}

	outcomes, err := h.remote.CreateNotes(ctx, batch)
	if err != nil {
		rejection, rejected := adapter.IsDeclaredRejection(err)
		if !rejected {
			return models.SyncResult{}, fmt.Errorf("submit notes: %w", err)
		}

		// the whole batch was refused
		outcomes = make([]models.NoteOutcome, len(notes))
		for i := range outcomes {
			outcomes[i] = models.NoteOutcome{NoteID: -1, ErrorMessage: rejection.Message}
		}
	}

	if len(outcomes) != len(notes) {
		return models.SyncResult{}, fmt.Errorf("%w: got %d outcomes for %d notes", adapter.ErrTransient, len(outcomes), len(notes))
	}

	for i, note := range notes {
		if _, err = h.pending.DeleteByPrimaryKey(ctx, h.pending.PrimaryKeyOf(note)); err != nil {
			return models.SyncResult{}, fmt.Errorf("retire queued note: %w", err)
		}
		result.Updated = true

		if outcomes[i].Rejected() {
			result.Warnings = append(result.Warnings, discardedWarning("note", note.Content, outcomes[i].ErrorMessage))
			h.logger.Warn().
				Str("func", "notesSyncHandler.Sync").
				Int64("entity_id", target.EntityID).
				Str("reason", outcomes[i].ErrorMessage).
				Msg("queued note discarded")
		}
	}

	h.refresh(ctx, target.EntityID)

	return result, nil
}

// refresh replaces the local copy of the course notes. Failures are logged
// and otherwise ignored.
func (h *notesSyncHandler) refresh(ctx context.Context, courseID int64) {
	log := h.logger.With().Str("func", "notesSyncHandler.refresh").Int64("entity_id", courseID).Logger()

	notes, err := h.remote.ListCourseNotes(ctx, courseID)
	if err != nil {
		log.Warn().Err(err).Msg("could not refresh course notes")
		return
	}

	if _, err = h.confirmed.Delete(ctx, store.Conditions{"course_id": courseID}); err != nil {
		log.Warn().Err(err).Msg("could not clear course notes")
		return
	}
	for _, note := range notes {
		if err = h.confirmed.Insert(ctx, note); err != nil {
			log.Warn().Err(err).Int64("note_id", note.ID).Msg("could not store course note")
		}
	}
}

// discardedWarning is the user-facing message of a rejected mutation.
func discardedWarning(kind, name, reason string) string {
	return fmt.Sprintf("The %s %q could not be synchronized and was discarded: %s", kind, name, reason)
}
