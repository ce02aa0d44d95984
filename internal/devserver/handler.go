// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package devserver implements an in-memory remote authority speaking the
// client's HTTP protocol. It is used for local development and by the
// remote channel tests.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/moodlehq/moodleapp-sub049/internal/app"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/utils"
	"github.com/moodlehq/moodleapp-sub049/models"
)

type Handler struct {
	authority *Authority

	signKey string
	issuer  string

	// unavailable makes every endpoint answer 503, to exercise the
	// client's transient failure handling.
	unavailable atomic.Bool

	logger *logger.Logger
}

func NewHandler(authority *Authority, signKey, issuer string, logger *logger.Logger) *Handler {
	logger.Info().Msg("devserver handler created")
	return &Handler{
		authority: authority,
		signKey:   signKey,
		issuer:    issuer,
		logger:    logger,
	}
}

// SetUnavailable toggles the simulated outage.
func (h *Handler) SetUnavailable(unavailable bool) {
	h.unavailable.Store(unavailable)
}

// Init builds the router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, h.withAvailability)

	router.Get("/api/ping", h.ping)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/notes", h.createNotes)
		r.Get("/api/courses/{id}/notes", h.courseNotes)
		r.Post("/api/surveys/{id}/answers", h.submitAnswers)
		r.Get("/api/surveys/{id}", h.survey)
	})

	return router
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handler) createNotes(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var batch []models.NoteSubmission
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		utils.WriteError(w, app.CodeInvalidParameter, app.MsgInvalidNotesPayload, http.StatusBadRequest)
		return
	}

	outcomes := h.authority.CreateNotes(userID, batch)

	logger.FromRequest(r).Debug().
		Str("func", "Handler.createNotes").
		Int("notes", len(batch)).
		Msg("notes batch processed")

	_, _ = utils.WriteJSON(w, outcomes, http.StatusOK)
}

func (h *Handler) courseNotes(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	_, _ = utils.WriteJSON(w, h.authority.CourseNotes(userID, courseID), http.StatusOK)
}

func (h *Handler) submitAnswers(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req models.SurveyAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, app.CodeInvalidParameter, app.MsgInvalidAnswersPayload, http.StatusBadRequest)
		return
	}

	if err := h.authority.SubmitAnswers(userID, surveyID, req.Answers); err != nil {
		writeAuthorityError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) survey(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := pathID(w, r)
	if !ok {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	survey, err := h.authority.Survey(userID, surveyID)
	if err != nil {
		writeAuthorityError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, survey, http.StatusOK)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteError(w, app.CodeInvalidParameter, app.MsgInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeAuthorityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errSurveyNotFound):
		utils.WriteError(w, app.CodeInvalidRecord, app.MsgSurveyNotFound, http.StatusNotFound)
	case errors.Is(err, errAlreadySubmitted):
		utils.WriteError(w, app.CodeAlreadySubmitted, app.MsgAlreadySubmitted, http.StatusConflict)
	case errors.Is(err, errNoAnswers):
		utils.WriteError(w, app.CodeNoAnswers, app.MsgNoAnswers, http.StatusUnprocessableEntity)
	default:
		http.Error(w, app.MsgInternalServerError, http.StatusInternalServerError)
	}
}
