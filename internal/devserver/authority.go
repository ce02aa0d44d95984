// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/app"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// Rejection reasons returned by the authority. They are sent to clients as
// error codes.
var (
	errSurveyNotFound   = errors.New(app.CodeInvalidRecord)
	errAlreadySubmitted = errors.New(app.CodeAlreadySubmitted)
	errNoAnswers        = errors.New(app.CodeNoAnswers)
)

type answerKey struct {
	surveyID int64
	userID   int64
}

// Authority is the in-memory state of the remote authority.
type Authority struct {
	mu sync.Mutex

	nextNoteID int64
	notes      map[int64][]models.Note
	surveys    map[int64]models.Survey
	answers    map[answerKey][]models.SurveyAnswer

	now func() time.Time
}

// NewAuthority returns an empty authority.
func NewAuthority() *Authority {
	return &Authority{
		nextNoteID: 1,
		notes:      make(map[int64][]models.Note),
		surveys:    make(map[int64]models.Survey),
		answers:    make(map[answerKey][]models.SurveyAnswer),
		now:        time.Now,
	}
}

// AddSurvey makes a survey available for answering.
func (a *Authority) AddSurvey(survey models.Survey) {
	a.mu.Lock()
	defer a.mu.Unlock()

	survey.SurveyDone = false
	a.surveys[survey.ID] = survey
}

// CreateNotes applies a batch of notes written by authorID. Each note is
// validated on its own; a refused note does not affect the others.
func (a *Authority) CreateNotes(authorID int64, batch []models.NoteSubmission) []models.NoteOutcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	outcomes := make([]models.NoteOutcome, 0, len(batch))
	for _, submission := range batch {
		if msg := validateNote(submission); msg != "" {
			outcomes = append(outcomes, models.NoteOutcome{NoteID: -1, ErrorMessage: msg})
			continue
		}

		now := a.now()
		note := models.Note{
			ID:           a.nextNoteID,
			CourseID:     submission.CourseID,
			UserID:       submission.UserID,
			AuthorID:     authorID,
			PublishState: submission.PublishState,
			Content:      submission.Text,
			Format:       submission.Format,
			Created:      now,
			LastModified: now,
		}
		a.nextNoteID++
		a.notes[note.CourseID] = append(a.notes[note.CourseID], note)

		outcomes = append(outcomes, models.NoteOutcome{NoteID: note.ID})
	}

	return outcomes
}

func validateNote(n models.NoteSubmission) string {
	switch {
	case strings.TrimSpace(n.Text) == "":
		return app.MsgNoteTextEmpty
	case n.CourseID <= 0:
		return app.MsgInvalidCourseID
	case n.UserID <= 0:
		return app.MsgInvalidUserID
	}

	switch n.PublishState {
	case models.PublishPersonal, models.PublishCourse, models.PublishSite:
		return ""
	default:
		return app.MsgInvalidPublishState
	}
}

// CourseNotes returns the notes of a course visible to viewerID: every
// course and site note plus the viewer's own personal notes.
func (a *Authority) CourseNotes(viewerID, courseID int64) []models.Note {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.Note, 0, len(a.notes[courseID]))
	for _, note := range a.notes[courseID] {
		if note.PublishState == models.PublishPersonal && note.AuthorID != viewerID {
			continue
		}
		out = append(out, note)
	}
	return out
}

// SubmitAnswers records the answers of userID to a survey. A survey can be
// answered once per user.
func (a *Authority) SubmitAnswers(userID, surveyID int64, answers []models.SurveyAnswer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.surveys[surveyID]; !ok {
		return errSurveyNotFound
	}
	if len(answers) == 0 {
		return errNoAnswers
	}

	key := answerKey{surveyID: surveyID, userID: userID}
	if _, ok := a.answers[key]; ok {
		return errAlreadySubmitted
	}
	a.answers[key] = append([]models.SurveyAnswer(nil), answers...)

	return nil
}

// Survey returns survey metadata as seen by userID.
func (a *Authority) Survey(userID, surveyID int64) (models.Survey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	survey, ok := a.surveys[surveyID]
	if !ok {
		return models.Survey{}, errSurveyNotFound
	}
	_, survey.SurveyDone = a.answers[answerKey{surveyID: surveyID, userID: userID}]

	return survey, nil
}
