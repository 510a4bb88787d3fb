package store

import (
	"context"
	"errors"

	"laundry-cycle-backend/internal/model"
)

var (
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a load changed since it was read.
	ErrVersionConflict = errors.New("optimistic locking conflict")
	// ErrConstraint is returned when the database rejects a write on a unique constraint,
	// e.g. a second washing load when the exclusivity indexes are installed.
	ErrConstraint = errors.New("constraint violation")
)

// Store defines the interface for all database operations.
type Store interface {
	ListLoads(ctx context.Context) ([]model.Load, error)
	GetLoad(ctx context.Context, id string) (*model.Load, error)
	CreateLoad(ctx context.Context, load *model.Load) error
	UpdateLoad(ctx context.Context, id string, version uint, fields map[string]any) (*model.Load, error)

	DryerDurations(ctx context.Context) (map[int]int, error)
	SetDryerDuration(ctx context.Context, dryer, minutes int) error

	RecordReadyNotice(ctx context.Context, loadID string, status model.LoadStatus) (bool, error)

	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
}
