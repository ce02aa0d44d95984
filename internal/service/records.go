// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// recordReader decodes typed columns and keeps every decoding error.
type recordReader struct {
	record store.Record
	errs   []error
}

func (r *recordReader) int64(field string) int64 {
	v, err := r.record.Int64(field)
	r.keep(err)
	return v
}

func (r *recordReader) text(field string) string {
	v, err := r.record.Text(field)
	r.keep(err)
	return v
}

func (r *recordReader) bool(field string) bool {
	v, err := r.record.Bool(field)
	r.keep(err)
	return v
}

func (r *recordReader) time(field string) time.Time {
	v, err := r.record.UnixMilli(field)
	r.keep(err)
	return v
}

func (r *recordReader) keep(err error) {
	if err != nil {
		r.errs = append(r.errs, err)
	}
}

func (r *recordReader) err() error {
	return errors.Join(r.errs...)
}

type offlineNoteMapper struct{}

func (offlineNoteMapper) ToRecord(n models.OfflineNote) store.Record {
	return store.Record{
		"user_id":       n.UserID,
		"content":       n.Content,
		"created":       n.Created.UnixMilli(),
		"course_id":     n.CourseID,
		"publish_state": string(n.PublishState),
		"format":        n.Format,
		"author_id":     n.AuthorID,
		"last_modified": n.LastModified.UnixMilli(),
	}
}

func (offlineNoteMapper) FromRecord(record store.Record) (models.OfflineNote, error) {
	r := &recordReader{record: record}
	n := models.OfflineNote{
		UserID:       r.int64("user_id"),
		Content:      r.text("content"),
		Created:      r.time("created"),
		CourseID:     r.int64("course_id"),
		PublishState: models.PublishState(r.text("publish_state")),
		Format:       int(r.int64("format")),
		AuthorID:     r.int64("author_id"),
		LastModified: r.time("last_modified"),
	}
	return n, r.err()
}

type noteMapper struct{}

func (noteMapper) ToRecord(n models.Note) store.Record {
	return store.Record{
		"id":            n.ID,
		"course_id":     n.CourseID,
		"user_id":       n.UserID,
		"author_id":     n.AuthorID,
		"publish_state": string(n.PublishState),
		"content":       n.Content,
		"format":        n.Format,
		"created":       n.Created.UnixMilli(),
		"last_modified": n.LastModified.UnixMilli(),
	}
}

func (noteMapper) FromRecord(record store.Record) (models.Note, error) {
	r := &recordReader{record: record}
	n := models.Note{
		ID:           r.int64("id"),
		CourseID:     r.int64("course_id"),
		UserID:       r.int64("user_id"),
		AuthorID:     r.int64("author_id"),
		PublishState: models.PublishState(r.text("publish_state")),
		Content:      r.text("content"),
		Format:       int(r.int64("format")),
		Created:      r.time("created"),
		LastModified: r.time("last_modified"),
	}
	return n, r.err()
}

type offlineSurveyAnswersMapper struct{}

func (offlineSurveyAnswersMapper) ToRecord(a models.OfflineSurveyAnswers) store.Record {
	answers, err := json.Marshal(a.Answers)
	if err != nil || a.Answers == nil {
		answers = []byte("[]")
	}

	return store.Record{
		"survey_id":    a.SurveyID,
		"user_id":      a.UserID,
		"course_id":    a.CourseID,
		"name":         a.Name,
		"answers":      string(answers),
		"time_created": a.TimeCreated.UnixMilli(),
	}
}

func (offlineSurveyAnswersMapper) FromRecord(record store.Record) (models.OfflineSurveyAnswers, error) {
	r := &recordReader{record: record}
	a := models.OfflineSurveyAnswers{
		SurveyID:    r.int64("survey_id"),
		UserID:      r.int64("user_id"),
		CourseID:    r.int64("course_id"),
		Name:        r.text("name"),
		TimeCreated: r.time("time_created"),
	}

	if raw := r.text("answers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &a.Answers); err != nil {
			r.keep(fmt.Errorf("answers: %w", err))
		}
	}

	return a, r.err()
}

type surveyMapper struct{}

func (surveyMapper) ToRecord(s models.Survey) store.Record {
	return store.Record{
		"id":          s.ID,
		"course_id":   s.CourseID,
		"name":        s.Name,
		"intro":       s.Intro,
		"survey_done": s.SurveyDone,
	}
}

func (surveyMapper) FromRecord(record store.Record) (models.Survey, error) {
	r := &recordReader{record: record}
	s := models.Survey{
		ID:         r.int64("id"),
		CourseID:   r.int64("course_id"),
		Name:       r.text("name"),
		Intro:      r.text("intro"),
		SurveyDone: r.bool("survey_done"),
	}
	return s, r.err()
}

type syncTimestampMapper struct{}

func (syncTimestampMapper) ToRecord(t models.SyncTimestamp) store.Record {
	return store.Record{
		"sync_key":  t.Key,
		"synced_at": t.SyncedAt.UnixMilli(),
	}
}

func (syncTimestampMapper) FromRecord(record store.Record) (models.SyncTimestamp, error) {
	r := &recordReader{record: record}
	t := models.SyncTimestamp{
		Key:      r.text("sync_key"),
		SyncedAt: r.time("synced_at"),
	}
	return t, r.err()
}

type cronExecutionMapper struct{}

func (cronExecutionMapper) ToRecord(e models.CronExecution) store.Record {
	return store.Record{
		"id":          e.ID,
		"executed_at": e.ExecutedAt.UnixMilli(),
	}
}

func (cronExecutionMapper) FromRecord(record store.Record) (models.CronExecution, error) {
	r := &recordReader{record: record}
	e := models.CronExecution{
		ID:         r.text("id"),
		ExecutedAt: r.time("executed_at"),
	}
	return e, r.err()
}
