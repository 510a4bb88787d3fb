package laundry

import (
	"context"
	"fmt"
	"time"

	"laundry-cycle-backend/internal/model"
)

// MachineState is what a machine looks like from the laundry room.
type MachineState string

const (
	MachineIdle    MachineState = "idle"
	MachineRunning MachineState = "running"
	// MachineDone means the cycle has elapsed but nobody has moved the load yet.
	MachineDone MachineState = "done"
)

// Machine is a read-only view of the washer or a dryer derived from the loads.
type Machine struct {
	Name             string         `json:"name"`
	Kind             string         `json:"kind"`
	Number           int            `json:"number,omitempty"`
	State            MachineState   `json:"state"`
	LoadID           string         `json:"load_id,omitempty"`
	LoadType         model.LoadType `json:"load_type,omitempty"`
	EndsAt           *time.Time     `json:"ends_at,omitempty"`
	RemainingMinutes int            `json:"remaining_minutes"`
	Countdown        string         `json:"countdown,omitempty"`
}

// Machines projects the washer and both dryers from the current loads.
func (m *Manager) Machines(ctx context.Context) ([]Machine, error) {
	loads, err := m.store.ListLoads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	return Project(loads, m.Now()), nil
}

// Project builds the machine view from loads at now.
func Project(loads []model.Load, now time.Time) []Machine {
	out := make([]Machine, 0, 1+DryerCount)

	washer := Machine{Name: "Washer", Kind: "washer", State: MachineIdle}
	if holder, ok := washerHolder(loads, ""); ok {
		occupy(&washer, *holder, now)
	}
	out = append(out, washer)

	used := dryersInUse(loads)
	for n := 1; n <= DryerCount; n++ {
		dryer := Machine{Name: fmt.Sprintf("Dryer %d", n), Kind: "dryer", Number: n, State: MachineIdle}
		if holder, ok := used[n]; ok {
			occupy(&dryer, *holder, now)
		}
		out = append(out, dryer)
	}
	return out
}

func occupy(machine *Machine, load model.Load, now time.Time) {
	r := Evaluate(load, now)
	machine.LoadID = load.ID
	machine.LoadType = load.Type
	machine.EndsAt = r.EndsAt
	machine.RemainingMinutes = r.RemainingMinutes
	machine.Countdown = r.Countdown
	machine.State = MachineRunning
	if r.Ready {
		machine.State = MachineDone
	}
}
