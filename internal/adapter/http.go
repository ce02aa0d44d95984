// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/utils"
	"github.com/moodlehq/moodleapp-sub049/models"
)

const (
	traceIDHeader = "X-Trace-ID"
	siteIDHeader  = "X-Site-ID"
)

type httpRemoteChannel struct {
	client  *utils.HTTPClient
	traceID *utils.UUIDGenerator

	token  string
	siteID string

	logger *logger.Logger
}

// NewHTTPRemoteChannel constructs an HTTP/REST implementation of
// [RemoteChannel]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress, configures the request timeout and paces outbound
// requests with a token bucket of adapterCfg.RateLimit requests per second
// and adapterCfg.RateBurst burst. Every request carries the session bearer
// token from appCfg and a fresh trace id.
func NewHTTPRemoteChannel(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteChannel, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	var limiter *rate.Limiter
	if adapterCfg.RateLimit > 0 {
		burst := adapterCfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(adapterCfg.RateLimit), burst)
	}

	client := utils.NewHTTPClient(limiter)
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpRemoteChannel{
		client:  client,
		traceID: utils.NewUUIDGenerator(),
		token:   strings.TrimSpace(appCfg.Token),
		siteID:  appCfg.SiteID,
		logger:  logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Ping implements [RemoteChannel] with GET /api/ping.
func (h *httpRemoteChannel) Ping(ctx context.Context) error {
	resp, err := h.request(ctx).Get("/api/ping")
	if err != nil {
		return transportError("ping", err)
	}

	return mapHTTPError(resp)
}

// CreateNotes implements [RemoteChannel] with POST /api/notes. The response
// must hold exactly one outcome per submitted note.
func (h *httpRemoteChannel) CreateNotes(ctx context.Context, notes []models.NoteSubmission) ([]models.NoteOutcome, error) {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(notes).
		Post("/api/notes")
	if err != nil {
		return nil, transportError("create notes", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var outcomes []models.NoteOutcome
	if err = json.Unmarshal(resp.Body(), &outcomes); err != nil {
		return nil, fmt.Errorf("%w: decode create notes response: %w", ErrTransient, err)
	}
	if len(outcomes) != len(notes) {
		return nil, fmt.Errorf("%w: create notes: got %d outcomes for %d notes", ErrTransient, len(outcomes), len(notes))
	}

	return outcomes, nil
}

// ListCourseNotes implements [RemoteChannel] with
// GET /api/courses/{id}/notes.
func (h *httpRemoteChannel) ListCourseNotes(ctx context.Context, courseID int64) ([]models.Note, error) {
	resp, err := h.request(ctx).
		SetPathParam("id", strconv.FormatInt(courseID, 10)).
		Get("/api/courses/{id}/notes")
	if err != nil {
		return nil, transportError("list course notes", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var notes []models.Note
	if err = json.Unmarshal(resp.Body(), &notes); err != nil {
		return nil, fmt.Errorf("%w: decode course notes response: %w", ErrTransient, err)
	}

	return notes, nil
}

// SubmitSurveyAnswers implements [RemoteChannel] with
// POST /api/surveys/{id}/answers.
func (h *httpRemoteChannel) SubmitSurveyAnswers(ctx context.Context, surveyID int64, answers []models.SurveyAnswer) error {
	resp, err := h.request(ctx).
		SetPathParam("id", strconv.FormatInt(surveyID, 10)).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SurveyAnswersRequest{Answers: answers}).
		Post("/api/surveys/{id}/answers")
	if err != nil {
		return transportError("submit survey answers", err)
	}

	return mapHTTPError(resp)
}

// GetSurvey implements [RemoteChannel] with GET /api/surveys/{id}.
func (h *httpRemoteChannel) GetSurvey(ctx context.Context, surveyID int64) (models.Survey, error) {
	var survey models.Survey

	resp, err := h.request(ctx).
		SetPathParam("id", strconv.FormatInt(surveyID, 10)).
		SetResult(&survey).
		Get("/api/surveys/{id}")
	if err != nil {
		return models.Survey{}, transportError("get survey", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Survey{}, err
	}

	return survey, nil
}

func (h *httpRemoteChannel) request(ctx context.Context) *resty.Request {
	traceID := h.traceID.Generate()

	req := h.client.R().
		SetContext(ctx).
		SetHeader(traceIDHeader, traceID)
	if h.token != "" {
		req.SetHeader("Authorization", "Bearer "+h.token)
	}
	if h.siteID != "" {
		req.SetHeader(siteIDHeader, h.siteID)
	}

	h.logger.Debug().
		Str("func", "httpRemoteChannel.request").
		Str("trace_id", traceID).
		Msg("remote call")

	return req
}

// transportError wraps a failure that happened before a response arrived,
// including timeouts and cancellation.
func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s request: %w", ErrTransient, op, err)
}
