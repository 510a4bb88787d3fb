package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	readyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

func statusStyle(status model.LoadStatus, r laundry.Readiness) lipgloss.Style {
	switch {
	case status == model.StatusDone, status == model.StatusWaiting:
		return idleStyle
	case r.Ready:
		return readyStyle
	default:
		return runningStyle
	}
}

func loadRow(load model.Load, now time.Time) string {
	r := laundry.Evaluate(load, now)
	machine := ""
	switch {
	case load.Status == model.StatusWashing:
		machine = "washer"
	case load.DryerNumber != nil:
		machine = fmt.Sprintf("dryer %d", *load.DryerNumber)
	}
	notes := ""
	if load.Notes != nil {
		notes = *load.Notes
	}
	return fmt.Sprintf("%-10s %-20s %-8s %-9s %-12s %s",
		load.ShortID(), load.Type, load.Status, machine, statusStyle(load.Status, r).Render(r.Label), notes)
}

func renderLoads(loads []model.Load, now time.Time) string {
	if len(loads) == 0 {
		return idleStyle.Render("No loads.") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-20s %-8s %-9s %-12s %s", "ID", "TYPE", "STATUS", "MACHINE", "READY", "NOTES")))
	b.WriteString("\n")
	for _, l := range loads {
		b.WriteString(loadRow(l, now))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLoad(load model.Load, now time.Time) string {
	return fmt.Sprintf("%s\n%s\n", okStyle.Render("Load "+load.ID), loadRow(load, now))
}

func renderDryers(durations []laundry.DryerDuration, presets []int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %-8s %s", "DRYER", "MINUTES", "SOURCE")))
	b.WriteString("\n")
	for _, d := range durations {
		source := idleStyle.Render("default")
		if d.Overridden {
			source = runningStyle.Render("set")
		}
		fmt.Fprintf(&b, "%-8d %-8d %s\n", d.DryerNumber, d.Minutes, source)
	}
	parts := make([]string, 0, len(presets))
	for _, p := range presets {
		parts = append(parts, fmt.Sprint(p))
	}
	fmt.Fprintf(&b, "presets: %s\n", strings.Join(parts, ", "))
	return b.String()
}
