package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/model"
)

func TestRenderLoads(t *testing.T) {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	started := now.Add(-10 * time.Minute)
	notes := "room 4"
	two := 2

	out := renderLoads([]model.Load{
		{ID: "aaaaaaaa-1111", Type: model.LoadTypeTowels, Status: model.StatusWashing, WasherStartedAt: &started, WasherDuration: 35, Notes: &notes},
		{ID: "bbbbbbbb-2222", Type: model.LoadTypeTowelsFeet, Status: model.StatusDone, DryerNumber: &two},
	}, now)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "aaaaaaaa")
	assert.Contains(t, lines[1], "washer")
	assert.Contains(t, lines[1], "25 min")
	assert.Contains(t, lines[1], "room 4")
	assert.Contains(t, lines[2], "dryer 2")
	assert.Contains(t, lines[2], "done")

	assert.Contains(t, renderLoads(nil, now), "No loads.")
}

func TestRenderDryers(t *testing.T) {
	out := renderDryers([]laundry.DryerDuration{
		{DryerNumber: 1, Minutes: 42},
		{DryerNumber: 2, Minutes: 48, Overridden: true},
	}, []int{40, 44, 48, 52})

	assert.Contains(t, out, "default")
	assert.Contains(t, out, "set")
	assert.Contains(t, out, "presets: 40, 44, 48, 52")
}
