// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PublishState controls who can read a note.
type PublishState string

const (
	PublishPersonal PublishState = "personal"
	PublishCourse   PublishState = "course"
	PublishSite     PublishState = "site"
)

// DefaultTextFormat is the text format the remote authority uses for notes
// created by this client (HTML).
const DefaultTextFormat = 1

// OfflineNote is a note created while the device could not reach the remote
// authority. It stays queued until the next successful sync of its course.
type OfflineNote struct {
	// UserID is the user the note is about.
	UserID int64 `json:"user_id"`

	// CourseID is the course the note belongs to. It is also the entity
	// that is synchronized.
	CourseID int64 `json:"course_id"`

	PublishState PublishState `json:"publish_state"`
	Content      string       `json:"content"`
	Format       int          `json:"format"`

	// AuthorID is the acting user that wrote the note.
	AuthorID int64 `json:"author_id"`

	Created      time.Time `json:"created"`
	LastModified time.Time `json:"last_modified"`
}

// Note is a note confirmed by the remote authority.
type Note struct {
	ID           int64        `json:"id"`
	CourseID     int64        `json:"course_id"`
	UserID       int64        `json:"user_id"`
	AuthorID     int64        `json:"author_id"`
	PublishState PublishState `json:"publish_state"`
	Content      string       `json:"content"`
	Format       int          `json:"format"`
	Created      time.Time    `json:"created"`
	LastModified time.Time    `json:"last_modified"`
}

// NoteSubmission is one note in a batch sent to the remote authority.
type NoteSubmission struct {
	UserID       int64        `json:"user_id"`
	CourseID     int64        `json:"course_id"`
	PublishState PublishState `json:"publish_state"`
	Text         string       `json:"text"`
	Format       int          `json:"format"`
}

// NoteOutcome is the per-note answer to a batch submission. NoteID is -1 when
// the note was refused, and ErrorMessage says why.
type NoteOutcome struct {
	NoteID       int64  `json:"note_id"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Rejected reports whether the remote authority refused the note.
func (o NoteOutcome) Rejected() bool {
	return o.NoteID == -1
}
