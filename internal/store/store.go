package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-cycle-backend/internal/model"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ListLoads returns every load, newest first.
func (s *gormStore) ListLoads(ctx context.Context) ([]model.Load, error) {
	var loads []model.Load
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&loads).Error; err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	return loads, nil
}

// GetLoad returns a single load or ErrNotFound.
func (s *gormStore) GetLoad(ctx context.Context, id string) (*model.Load, error) {
	var load model.Load
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&load).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch load %s: %w", id, err)
	}
	return &load, nil
}

// CreateLoad inserts a load, assigning its id and creation time when unset.
func (s *gormStore) CreateLoad(ctx context.Context, load *model.Load) error {
	if load.ID == "" {
		load.ID = uuid.NewString()
	}
	if load.CreatedAt.IsZero() {
		load.CreatedAt = s.now()
	}
	load.Version = 1

	if err := s.db.WithContext(ctx).Create(load).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConstraint
		}
		return fmt.Errorf("failed to create load: %w", err)
	}
	return nil
}

// UpdateLoad applies fields to the load only if its stored version still matches.
// The write is a single conditional UPDATE, so either every field changes or none does.
func (s *gormStore) UpdateLoad(ctx context.Context, id string, version uint, fields map[string]any) (*model.Load, error) {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = gorm.Expr("version + 1")

	res := s.db.WithContext(ctx).Model(&model.Load{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrConstraint
		}
		return nil, fmt.Errorf("failed to update load %s: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Load{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check load %s: %w", id, err)
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}

	return s.GetLoad(ctx, id)
}

// DryerDurations returns the configured cycle length per dryer number.
func (s *gormStore) DryerDurations(ctx context.Context) (map[int]int, error) {
	var settings []model.DryerSetting
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch dryer settings: %w", err)
	}
	durations := make(map[int]int, len(settings))
	for _, st := range settings {
		durations[st.DryerNumber] = st.DurationMinutes
	}
	return durations, nil
}

// SetDryerDuration upserts the cycle length override for one dryer.
func (s *gormStore) SetDryerDuration(ctx context.Context, dryer, minutes int) error {
	setting := model.DryerSetting{DryerNumber: dryer, DurationMinutes: minutes, UpdatedAt: s.now()}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dryer_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"duration_minutes", "updated_at"}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("failed to save duration for dryer %d: %w", dryer, err)
	}
	return nil
}

// RecordReadyNotice stores that a phase end was announced. It reports true only
// for the first call per load and phase.
func (s *gormStore) RecordReadyNotice(ctx context.Context, loadID string, status model.LoadStatus) (bool, error) {
	notice := model.ReadyNotice{LoadID: loadID, Status: status, NotifiedAt: s.now()}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&notice)
	if res.Error != nil {
		return false, fmt.Errorf("failed to record ready notice for load %s: %w", loadID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SaveSubscription creates or replaces a push subscription keyed by endpoint.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "actor_name"}),
	}).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// GetSubscription returns the subscription for an endpoint or ErrNotFound.
func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription; deleting an unknown endpoint is not an error.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

// ListSubscriptions returns every stored subscription.
func (s *gormStore) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}
