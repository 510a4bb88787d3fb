package laundry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"laundry-cycle-backend/config"
	"laundry-cycle-backend/internal/events"
	"laundry-cycle-backend/internal/model"
	"laundry-cycle-backend/internal/store"
)

// Manager owns every state change of every load. All writes go through it so
// the read-check-write of a transition is never interleaved within a process.
type Manager struct {
	store     store.Store
	cfg       config.LaundryConfig
	publisher events.Publisher
	now       func() time.Time

	mu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a manager. A nil publisher discards events.
func NewManager(s store.Store, cfg config.LaundryConfig, publisher events.Publisher, opts ...Option) *Manager {
	if publisher == nil {
		publisher = events.Nop{}
	}
	m := &Manager{
		store:     s,
		cfg:       cfg,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now is the manager's clock.
func (m *Manager) Now() time.Time {
	return m.now().UTC()
}

// CreateRequest describes a new load.
type CreateRequest struct {
	Type        model.LoadType
	Notes       string
	StartWasher bool
	CreatedBy   string
}

// LoadView is a load together with its readiness at the time it was read.
type LoadView struct {
	model.Load
	Readiness  Readiness `json:"readiness"`
	NextAction *Action   `json:"next_action"`
}

// View evaluates load against the manager's clock.
func (m *Manager) View(load model.Load) LoadView {
	v := LoadView{Load: load, Readiness: Evaluate(load, m.Now())}
	if next, ok := NextAction(load.Status); ok {
		v.NextAction = &next
	}
	return v
}

// Create adds a load in waiting, or directly in washing when req.StartWasher is set.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*model.Load, error) {
	log := logger.New("laundry").Function("Create")

	if !req.Type.Valid() {
		return nil, ErrInvalidLoadType
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	load := &model.Load{
		Type:           req.Type,
		Status:         model.StatusWaiting,
		WasherDuration: m.cfg.WasherDurationMinutes,
		DryerDuration:  m.cfg.DryerDurationMinutes,
		CreatedBy:      req.CreatedBy,
		CreatedAt:      now,
	}
	if req.Notes != "" {
		notes := req.Notes
		load.Notes = &notes
	}

	if req.StartWasher {
		loads, err := m.store.ListLoads(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list loads: %w", err)
		}
		if _, busy := washerHolder(loads, ""); busy {
			return nil, ErrWasherOccupied
		}
		load.Status = model.StatusWashing
		load.WasherStartedAt = &now
	}

	if err := m.store.CreateLoad(ctx, load); err != nil {
		return nil, mapStoreError(err, ErrWasherOccupied)
	}

	log.Info("Load created", "loadID", load.ID, "type", load.Type, "status", load.Status)
	m.publish(ctx, events.NewLoadEvent(events.LoadCreated, *load, now))
	return load, nil
}

// StartWasher moves a waiting load into the washer.
func (m *Manager) StartWasher(ctx context.Context, id string) (*model.Load, error) {
	return m.Advance(ctx, id, ActionStartWasher)
}

// StartDryer moves a washed load into the lowest free dryer.
func (m *Manager) StartDryer(ctx context.Context, id string) (*model.Load, error) {
	return m.Advance(ctx, id, ActionStartDryer)
}

// MarkDone finishes a drying load. The dryer number stays on the record.
func (m *Manager) MarkDone(ctx context.Context, id string) (*model.Load, error) {
	return m.Advance(ctx, id, ActionMarkDone)
}

// Advance applies action to the load with the given id. A rejected action
// leaves the load untouched.
func (m *Manager) Advance(ctx context.Context, id string, action Action) (*model.Load, error) {
	log := logger.New("laundry").Function("Advance")

	if _, ok := steps[action]; !ok {
		return nil, ErrInvalidAction
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	load, err := m.store.GetLoad(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, nil)
	}
	if !CanApply(action, load.Status) {
		return nil, ErrInvalidTransition
	}

	now := m.Now()
	if action != ActionStartWasher && m.cfg.ReadinessEnforced() && !Evaluate(*load, now).Ready {
		return nil, ErrCycleRunning
	}

	fields, err := m.plan(ctx, action, load, now)
	if err != nil {
		return nil, err
	}

	updated, err := m.store.UpdateLoad(ctx, id, load.Version, fields)
	if err != nil {
		return nil, mapStoreError(err, busyError(action))
	}

	log.Info("Load advanced", "loadID", id, "action", action, "from", load.Status, "to", updated.Status)
	m.publish(ctx, events.NewLoadEvent(events.LoadUpdated, *updated, now))
	return updated, nil
}

// plan checks machine contention for action and returns the columns to write.
func (m *Manager) plan(ctx context.Context, action Action, load *model.Load, now time.Time) (map[string]any, error) {
	fields := map[string]any{"status": Target(action)}

	switch action {
	case ActionStartWasher:
		loads, err := m.store.ListLoads(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list loads: %w", err)
		}
		if _, busy := washerHolder(loads, load.ID); busy {
			return nil, ErrWasherOccupied
		}
		fields["washer_started_at"] = now

	case ActionStartDryer:
		loads, err := m.store.ListLoads(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list loads: %w", err)
		}
		dryer, ok := lowestFreeDryer(loads)
		if !ok {
			return nil, ErrDryersOccupied
		}
		durations, err := m.store.DryerDurations(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read dryer durations: %w", err)
		}
		fields["dryer_started_at"] = now
		fields["dryer_number"] = dryer
		if minutes, ok := durations[dryer]; ok {
			fields["dryer_duration"] = minutes
		}
	}

	return fields, nil
}

// Get returns one load.
func (m *Manager) Get(ctx context.Context, id string) (*model.Load, error) {
	load, err := m.store.GetLoad(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, nil)
	}
	return load, nil
}

// List returns loads newest first. With activeOnly, done loads are left out.
func (m *Manager) List(ctx context.Context, activeOnly bool) ([]model.Load, error) {
	loads, err := m.store.ListLoads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	if !activeOnly {
		return loads, nil
	}
	return slices.DeleteFunc(loads, func(l model.Load) bool {
		return l.Status == model.StatusDone
	}), nil
}

// DryerDuration is the cycle length the next load started on a dryer will get.
type DryerDuration struct {
	DryerNumber int  `json:"dryer_number"`
	Minutes     int  `json:"minutes"`
	Overridden  bool `json:"overridden"`
}

// DryerDurations lists the effective cycle length of every dryer.
func (m *Manager) DryerDurations(ctx context.Context) ([]DryerDuration, error) {
	overrides, err := m.store.DryerDurations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read dryer durations: %w", err)
	}

	out := make([]DryerDuration, 0, DryerCount)
	for n := 1; n <= DryerCount; n++ {
		d := DryerDuration{DryerNumber: n, Minutes: m.cfg.DryerDurationMinutes}
		if minutes, ok := overrides[n]; ok {
			d.Minutes = minutes
			d.Overridden = true
		}
		out = append(out, d)
	}
	return out, nil
}

// Presets returns the accepted dryer cycle lengths.
func (m *Manager) Presets() []int {
	return slices.Clone(m.cfg.DryerDurationPresets)
}

// SetDryerDuration changes the cycle length used for loads started on dryer
// from now on. Loads already drying keep theirs.
func (m *Manager) SetDryerDuration(ctx context.Context, dryer, minutes int) error {
	if dryer < 1 || dryer > DryerCount {
		return ErrInvalidDryer
	}
	if !slices.Contains(m.cfg.DryerDurationPresets, minutes) {
		return ErrInvalidDuration
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SetDryerDuration(ctx, dryer, minutes); err != nil {
		return fmt.Errorf("failed to set dryer %d duration: %w", dryer, err)
	}

	logger.New("laundry").Function("SetDryerDuration").Info("Dryer duration changed", "dryer", dryer, "minutes", minutes)
	m.publish(ctx, events.NewDryerEvent(dryer, m.Now()))
	return nil
}

// publish never fails the operation; the change is already committed.
func (m *Manager) publish(ctx context.Context, event events.Event) {
	if err := m.publisher.Publish(ctx, event); err != nil {
		logger.New("laundry").Function("publish").Warn("Failed to publish event", "type", event.Type, "loadID", event.LoadID, "error", err)
	}
}

func busyError(action Action) error {
	switch action {
	case ActionStartWasher:
		return ErrWasherOccupied
	case ActionStartDryer:
		return ErrDryersOccupied
	}
	return nil
}

// mapStoreError turns storage failures into rejections. busy is what a
// violated exclusivity index means for the operation.
func mapStoreError(err error, busy error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrLoadNotFound
	case errors.Is(err, store.ErrVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, store.ErrConstraint) && busy != nil:
		return busy
	}
	return fmt.Errorf("store: %w", err)
}
