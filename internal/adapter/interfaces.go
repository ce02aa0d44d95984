// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the remote channel: the client's only path to the
// remote authority.
//
// The primary abstraction is [RemoteChannel], which decouples the sync
// handlers from the transport. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteChannel]).
//
// Every failure returned by a channel is classified into exactly one of two
// kinds. A [*RejectionError] is an authoritative refusal of the submitted
// data: retrying the same payload can never succeed. Anything wrapping
// [ErrTransient] (network errors, timeouts, 5xx, throttling, expired session)
// is worth retrying later and must never cause local data to be discarded.
package adapter

import (
	"context"

	"github.com/moodlehq/moodleapp-sub049/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_channel_mock.go -package=mock

// RemoteChannel is the set of remote calls used by the sync handlers.
type RemoteChannel interface {
	// Ping checks that the remote authority is reachable.
	Ping(ctx context.Context) error

	// CreateNotes submits a batch of notes and returns one outcome per note,
	// in the order given. A refused note has NoteID -1 and an error message;
	// the call itself still succeeds.
	CreateNotes(ctx context.Context, notes []models.NoteSubmission) ([]models.NoteOutcome, error)

	// ListCourseNotes returns the confirmed notes of a course.
	ListCourseNotes(ctx context.Context, courseID int64) ([]models.Note, error)

	// SubmitSurveyAnswers submits the answers of the session user to a
	// survey.
	SubmitSurveyAnswers(ctx context.Context, surveyID int64, answers []models.SurveyAnswer) error

	// GetSurvey returns survey metadata as seen by the session user.
	GetSurvey(ctx context.Context, surveyID int64) (models.Survey, error)
}
