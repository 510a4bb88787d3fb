package laundry

import (
	"fmt"
	"math"
	"time"

	"laundry-cycle-backend/internal/model"
)

// Readiness describes how far along the current phase of a load is.
type Readiness struct {
	Ready            bool       `json:"ready"`
	Label            string     `json:"label"`
	RemainingMinutes int        `json:"remaining_minutes"`
	RemainingSeconds int        `json:"remaining_seconds"`
	Countdown        string     `json:"countdown"`
	Progress         int        `json:"progress"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
}

const (
	LabelNotStarted = "not started"
	LabelReady      = "ready"
	LabelDone       = "done"
)

// PhaseWindow returns the start and length of the phase the load is currently in.
// ok is false for waiting and done loads, and for a running phase missing its start stamp.
func PhaseWindow(load model.Load) (start time.Time, length time.Duration, ok bool) {
	switch load.Status {
	case model.StatusWashing:
		if load.WasherStartedAt == nil {
			return time.Time{}, 0, false
		}
		return *load.WasherStartedAt, time.Duration(load.WasherDuration) * time.Minute, true
	case model.StatusDrying:
		if load.DryerStartedAt == nil {
			return time.Time{}, 0, false
		}
		return *load.DryerStartedAt, time.Duration(load.DryerDuration) * time.Minute, true
	}
	return time.Time{}, 0, false
}

// Evaluate computes readiness of load at now. It does not touch the load.
func Evaluate(load model.Load, now time.Time) Readiness {
	if load.Status == model.StatusDone {
		return Readiness{Ready: true, Label: LabelDone, Countdown: "00:00", Progress: 100}
	}

	start, length, ok := PhaseWindow(load)
	if !ok {
		return Readiness{Ready: true, Label: LabelNotStarted, Countdown: "--:--"}
	}

	end := start.Add(length)
	left := end.Sub(now)
	r := Readiness{
		RemainingMinutes: ceilUnits(left, time.Minute),
		RemainingSeconds: ceilUnits(left, time.Second),
		Progress:         progress(now.Sub(start), length),
		EndsAt:           &end,
	}

	if r.RemainingMinutes <= 0 {
		r.Ready = true
		r.Label = LabelReady
		r.RemainingMinutes = 0
		r.RemainingSeconds = 0
		r.Countdown = "00:00"
		r.Progress = 100
		return r
	}

	r.Label = fmt.Sprintf("%d min", r.RemainingMinutes)
	r.Countdown = countdown(left)
	return r
}

func ceilUnits(d, unit time.Duration) int {
	return int(math.Ceil(float64(d) / float64(unit)))
}

func progress(elapsed, length time.Duration) int {
	if length <= 0 || elapsed >= length {
		return 100
	}
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed * 100 / length)
}

// countdown renders d as mm:ss, truncating partial seconds.
func countdown(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
