// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/utils"
)

const shutdownTimeout = 5 * time.Second

// Server serves a [Handler] over HTTP.
type Server struct {
	server  *http.Server
	handler *Handler
	logger  *logger.Logger
}

func NewServer(address string, handler *Handler, logger *logger.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              address,
			Handler:           handler.Init(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler: handler,
		logger:  logger,
	}
}

// IssueToken returns a session token for userID signed with the handler's
// key, so a developer can point the client at this server.
func (s *Server) IssueToken(userID int64, ttl time.Duration) (string, error) {
	return utils.GenerateJWTToken(s.handler.issuer, userID, ttl, s.handler.signKey)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.server.Addr).Msg("devserver listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("devserver ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("devserver Shutdown: %w", err)
	}
	return nil
}
