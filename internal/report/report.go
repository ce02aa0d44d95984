// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package report renders sync results for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moodlehq/moodleapp-sub049/models"
)

var (
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	entityStyle  = lipgloss.NewStyle().Width(14)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).PaddingLeft(2)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Render returns a bordered summary of reports with one line per entity
// followed by its warnings.
func Render(reports []models.SyncReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sync report"))
	b.WriteString("\n")

	if len(reports) == 0 {
		b.WriteString(faintStyle.Render("Nothing to synchronize."))
		return boxStyle.Render(b.String())
	}

	var synced, skipped, failed, warnings int
	for _, r := range reports {
		b.WriteString("\n")
		b.WriteString(entityStyle.Render(fmt.Sprintf("%s #%d", r.Component, r.EntityID)))

		switch {
		case r.Err != nil:
			failed++
			b.WriteString(errorStyle.Render("failed: " + r.Err.Error()))
		case r.Skipped:
			skipped++
			b.WriteString(faintStyle.Render("skipped, synced recently"))
		case r.Result.Updated:
			synced++
			b.WriteString("synced")
		default:
			synced++
			b.WriteString(faintStyle.Render("up to date"))
		}

		for _, w := range r.Result.Warnings {
			warnings++
			b.WriteString("\n")
			b.WriteString(warningStyle.Render("! " + w))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%d synced, %d skipped, %d failed, %d warnings", synced, skipped, failed, warnings)))

	return boxStyle.Render(b.String())
}
