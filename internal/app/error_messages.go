// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// dev remote authority handlers and middleware.
//
// Code* constants are the machine-readable error codes written into the
// error_code field of a refused request. Msg* constants are the
// human-readable messages that go with them, or into a per-note
// error_message. Keeping them in one place ensures consistent wording
// throughout the API.
package app

const (
	// CodeInvalidParameter is returned when the request body or a path
	// parameter cannot be decoded.
	CodeInvalidParameter = "invalidparameter"

	// CodeInvalidRecord is returned when the addressed record does not
	// exist.
	CodeInvalidRecord = "invalidrecord"

	// CodeAlreadySubmitted is returned when a user answers a survey twice.
	CodeAlreadySubmitted = "alreadysubmitted"

	// CodeNoAnswers is returned when a survey submission carries no
	// answers.
	CodeNoAnswers = "noanswers"

	// CodeInvalidToken is returned with 401 when the bearer token is
	// missing, expired or not signed by this server.
	CodeInvalidToken = "invalidtoken"
)

const (
	// MsgInvalidNotesPayload is returned when a notes batch cannot be
	// decoded.
	MsgInvalidNotesPayload = "invalid notes payload"

	// MsgInvalidAnswersPayload is returned when survey answers cannot be
	// decoded.
	MsgInvalidAnswersPayload = "invalid answers payload"

	// MsgInvalidID is returned when a path id is not a positive integer.
	MsgInvalidID = "invalid id"

	// MsgSurveyNotFound is returned for an unknown survey id.
	MsgSurveyNotFound = "Survey not found"

	// MsgAlreadySubmitted is returned when the survey was already answered
	// by the user.
	MsgAlreadySubmitted = "You have already submitted this survey"

	// MsgNoAnswers is returned for an empty survey submission.
	MsgNoAnswers = "No answers given"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"
)

// Per-note refusal reasons of a notes batch.
const (
	MsgNoteTextEmpty       = "The note text is empty"
	MsgInvalidCourseID     = "Invalid course id"
	MsgInvalidUserID       = "Invalid user id"
	MsgInvalidPublishState = "Invalid publish state"
)
