// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/devserver"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("devserver")
	cfg, err := config.GetDevServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	authority := devserver.NewAuthority()
	authority.AddSurvey(models.Survey{ID: 1, CourseID: 1, Name: "ATTLS", Intro: "Attitudes to thinking and learning"})

	server := devserver.NewServer(cfg.Address, devserver.NewHandler(authority, cfg.SignKey, cfg.Issuer, log), log)

	if cfg.UserID > 0 {
		token, err := server.IssueToken(cfg.UserID, cfg.TokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Printf("Token for user %d: %s\n", cfg.UserID, token)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("devserver run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
