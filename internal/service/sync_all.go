// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/moodlehq/moodleapp-sub049/models"
)

// maxParallelSyncs bounds the entities of one component synced at once.
const maxParallelSyncs = 4

// syncEntities syncs every entity in parallel. A failing entity does not
// stop the others; the returned error joins every failure.
func syncEntities(ctx context.Context, c *SyncCoordinator, userID int64, entityIDs []int64, force bool) ([]models.SyncReport, error) {
	reports := make([]models.SyncReport, len(entityIDs))

	var g errgroup.Group
	g.SetLimit(maxParallelSyncs)

	for i, entityID := range entityIDs {
		g.Go(func() error {
			target := SyncTarget{EntityID: entityID, UserID: userID}
			report := models.SyncReport{Component: c.Component(), EntityID: entityID}

			if force {
				report.Result, report.Err = c.Sync(ctx, target)
			} else {
				var synced bool
				report.Result, synced, report.Err = c.SyncIfNeeded(ctx, target)
				report.Skipped = !synced && report.Err == nil
			}

			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, report := range reports {
		if report.Err != nil {
			errs = append(errs, fmt.Errorf("%s %d: %w", report.Component, report.EntityID, report.Err))
		}
	}

	return reports, errors.Join(errs...)
}
