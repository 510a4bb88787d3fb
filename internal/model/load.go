package model

import (
	"strings"
	"time"
)

// LoadStatus is the phase a load is in. Loads only ever move forward through
// waiting, washing, drying and done.
type LoadStatus string

const (
	StatusWaiting LoadStatus = "waiting"
	StatusWashing LoadStatus = "washing"
	StatusDrying  LoadStatus = "drying"
	StatusDone    LoadStatus = "done"
)

// LoadType tags what is in the load. It is display-only.
type LoadType string

const (
	LoadTypeTowels            LoadType = "towels"
	LoadTypePillowcasesTowels LoadType = "pillowcases_towels"
	LoadTypeTowelsFeet        LoadType = "towels_feet"
)

// LoadTypes lists the accepted load types in display order.
var LoadTypes = []LoadType{LoadTypeTowels, LoadTypePillowcasesTowels, LoadTypeTowelsFeet}

// Valid reports whether t is one of the known load types.
func (t LoadType) Valid() bool {
	for _, known := range LoadTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Load is one batch of laundry going through the washer and a dryer.
type Load struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Type            LoadType   `gorm:"size:32;not null" json:"type"`
	Status          LoadStatus `gorm:"size:16;not null;index" json:"status"`
	WasherStartedAt *time.Time `json:"washer_started_at"`
	WasherDuration  int        `gorm:"not null" json:"washer_duration"` // minutes
	DryerStartedAt  *time.Time `json:"dryer_started_at"`
	DryerDuration   int        `gorm:"not null" json:"dryer_duration"` // minutes
	DryerNumber     *int       `json:"dryer_number"`
	Notes           *string    `gorm:"size:512" json:"notes"`
	CreatedBy       string     `gorm:"size:128" json:"created_by,omitempty"`
	Version         uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Label is the human form of t used in messages.
func (t LoadType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// ShortID is the first block of the load id, enough to tell loads apart on a phone screen.
func (l Load) ShortID() string {
	if len(l.ID) > 8 {
		return l.ID[:8]
	}
	return l.ID
}
