package model

import "time"

// DryerSetting overrides the cycle length used when a load enters a given dryer.
type DryerSetting struct {
	DryerNumber     int `gorm:"primaryKey;autoIncrement:false"`
	DurationMinutes int `gorm:"not null"`
	UpdatedAt       time.Time
}
