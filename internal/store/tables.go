// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// Names of the client tables created by the migrations.
const (
	TableOfflineNotes         = "offline_notes"
	TableCourseNotes          = "course_notes"
	TableOfflineSurveyAnswers = "offline_survey_answers"
	TableSurveys              = "surveys"
	TableSyncTimestamps       = "sync_timestamps"
	TableCron                 = "cron"
)

// PrimaryKeys lists the primary key columns of every client table, in
// declaration order.
var PrimaryKeys = map[string][]string{
	TableOfflineNotes:         {"user_id", "content", "created"},
	TableCourseNotes:          {"id"},
	TableOfflineSurveyAnswers: {"survey_id", "user_id"},
	TableSurveys:              {"id"},
	TableSyncTimestamps:       {"sync_key"},
	TableCron:                 {"id"},
}
