// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/table"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// SurveyComponent is the component name of survey answers.
const SurveyComponent = "survey"

// SurveyService submits survey answers, queueing them while offline.
type SurveyService struct {
	pending     *table.Table[models.OfflineSurveyAnswers]
	surveys     *table.Table[models.Survey]
	remote      adapter.RemoteChannel
	network     Connectivity
	coordinator *SyncCoordinator

	userID int64
	now    func() time.Time
	logger *logger.Logger
}

// SubmitAnswers submits the answers of the session user to a survey. When
// the device is offline, or the remote authority cannot be reached, the
// answers are queued and sent is false. Answers refused by the remote
// authority are returned as a [*adapter.RejectionError] and not queued.
func (s *SurveyService) SubmitAnswers(ctx context.Context, survey models.Survey, answers []models.SurveyAnswer) (sent bool, err error) {
	if !s.network.IsOnline() {
		return false, s.storeOffline(ctx, survey, answers)
	}

	if err = s.remote.SubmitSurveyAnswers(ctx, survey.ID, answers); err != nil {
		if _, rejected := adapter.IsDeclaredRejection(err); rejected {
			return false, err
		}

		s.logger.Warn().Err(err).
			Str("func", "SurveyService.SubmitAnswers").
			Int64("entity_id", survey.ID).
			Msg("remote unavailable, storing answers offline")
		return false, s.storeOffline(ctx, survey, answers)
	}

	return true, nil
}

func (s *SurveyService) storeOffline(ctx context.Context, survey models.Survey, answers []models.SurveyAnswer) error {
	err := s.pending.Insert(ctx, models.OfflineSurveyAnswers{
		SurveyID:    survey.ID,
		UserID:      s.userID,
		CourseID:    survey.CourseID,
		Name:        survey.Name,
		Answers:     answers,
		TimeCreated: s.now(),
	})
	if err != nil {
		return fmt.Errorf("store survey answers offline: %w", err)
	}
	return nil
}

// PendingAnswers returns the queued answers of the session user to a
// survey, or [store.ErrRecordNotFound].
func (s *SurveyService) PendingAnswers(ctx context.Context, surveyID int64) (models.OfflineSurveyAnswers, error) {
	return s.pending.GetOneByPrimaryKey(ctx, store.Conditions{"survey_id": surveyID, "user_id": s.userID})
}

// HasDataToSync reports whether the session user has queued answers to a
// survey.
func (s *SurveyService) HasDataToSync(ctx context.Context, surveyID int64) (bool, error) {
	_, err := s.PendingAnswers(ctx, surveyID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// GetSurvey returns survey metadata, from the remote authority when online
// and from the local copy otherwise.
func (s *SurveyService) GetSurvey(ctx context.Context, surveyID int64) (models.Survey, error) {
	if s.network.IsOnline() {
		survey, err := s.remote.GetSurvey(ctx, surveyID)
		if err == nil {
			if err = replaceSurvey(ctx, s.surveys, survey); err != nil {
				s.logger.Warn().Err(err).Str("func", "SurveyService.GetSurvey").Msg("could not store survey")
			}
			return survey, nil
		}
		if _, rejected := adapter.IsDeclaredRejection(err); rejected {
			return models.Survey{}, err
		}
	}

	return s.surveys.GetOneByPrimaryKey(ctx, store.Conditions{"id": surveyID})
}

// SyncSurvey synchronizes the queued answers to a survey now.
func (s *SurveyService) SyncSurvey(ctx context.Context, surveyID int64) (models.SyncResult, error) {
	return s.coordinator.Sync(ctx, SyncTarget{EntityID: surveyID, UserID: s.userID})
}

// SyncAll synchronizes every survey with queued answers. Without force,
// surveys synced within the minimum interval are skipped.
func (s *SurveyService) SyncAll(ctx context.Context, force bool) ([]models.SyncReport, error) {
	queued, err := s.pending.GetMany(ctx, store.Conditions{"user_id": s.userID}, table.By("survey_id"))
	if err != nil {
		return nil, fmt.Errorf("list queued survey answers: %w", err)
	}

	surveys := make([]int64, 0, len(queued))
	for _, answers := range queued {
		surveys = append(surveys, answers.SurveyID)
	}

	return syncEntities(ctx, s.coordinator, s.userID, surveys, force)
}

type surveySyncHandler struct {
	pending *table.Table[models.OfflineSurveyAnswers]
	surveys *table.Table[models.Survey]
	remote  adapter.RemoteChannel
	network Connectivity
	logger  *logger.Logger
}

func (h *surveySyncHandler) Component() string {
	return SurveyComponent
}

// Sync submits the queued answers of the acting user to the survey.
func (h *surveySyncHandler) Sync(ctx context.Context, target SyncTarget) (models.SyncResult, error) {
	result := models.SyncResult{Warnings: []string{}}

	answers, err := h.pending.GetOneByPrimaryKey(ctx, store.Conditions{"survey_id": target.EntityID, "user_id": target.UserID})
	if errors.Is(err, store.ErrRecordNotFound) {
		return result, nil
	}
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("get queued survey answers: %w", err)
	}
	if !h.network.IsOnline() {
		return models.SyncResult{}, ErrOffline
	}

	err = h.remote.SubmitSurveyAnswers(ctx, answers.SurveyID, answers.Answers)
	rejection, rejected := adapter.IsDeclaredRejection(err)
	if err != nil && !rejected {
		return models.SyncResult{}, fmt.Errorf("submit survey answers: %w", err)
	}

	if _, err = h.pending.DeleteByPrimaryKey(ctx, h.pending.PrimaryKeyOf(answers)); err != nil {
		return models.SyncResult{}, fmt.Errorf("retire queued survey answers: %w", err)
	}
	result.Updated = true

	if rejected {
		result.Warnings = append(result.Warnings, discardedWarning("survey", answers.Name, rejection.Message))
		h.logger.Warn().
			Str("func", "surveySyncHandler.Sync").
			Int64("entity_id", target.EntityID).
			Str("reason", rejection.Message).
			Msg("queued survey answers discarded")
	}

	h.refresh(ctx, target.EntityID)

	return result, nil
}

// refresh replaces the local copy of the survey. Failures are logged and
// otherwise ignored.
func (h *surveySyncHandler) refresh(ctx context.Context, surveyID int64) {
	survey, err := h.remote.GetSurvey(ctx, surveyID)
	if err == nil {
		err = replaceSurvey(ctx, h.surveys, survey)
	}
	if err != nil {
		h.logger.Warn().Err(err).
			Str("func", "surveySyncHandler.refresh").
			Int64("entity_id", surveyID).
			Msg("could not refresh survey")
	}
}

func replaceSurvey(ctx context.Context, surveys *table.Table[models.Survey], survey models.Survey) error {
	if _, err := surveys.DeleteByPrimaryKey(ctx, store.Conditions{"id": survey.ID}); err != nil {
		return err
	}
	return surveys.Insert(ctx, survey)
}
