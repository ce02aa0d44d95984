// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SurveyAnswer is a single answered question.
type SurveyAnswer struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OfflineSurveyAnswers is a set of answers to one survey that is waiting to
// be submitted. A user has at most one queued set per survey.
type OfflineSurveyAnswers struct {
	SurveyID    int64          `json:"survey_id"`
	UserID      int64          `json:"user_id"`
	CourseID    int64          `json:"course_id"`
	Name        string         `json:"name"`
	Answers     []SurveyAnswer `json:"answers"`
	TimeCreated time.Time      `json:"time_created"`
}

// Survey is the confirmed survey metadata kept locally.
type Survey struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	Name       string `json:"name"`
	Intro      string `json:"intro"`
	SurveyDone bool   `json:"survey_done"`
}

// SurveyAnswersRequest is the body of an answer submission.
type SurveyAnswersRequest struct {
	Answers []SurveyAnswer `json:"answers"`
}
