package model

import "time"

// ReadyNotice records that the end of a load's phase has already been announced.
type ReadyNotice struct {
	LoadID     string     `gorm:"primaryKey;size:36"`
	Status     LoadStatus `gorm:"primaryKey;size:16"`
	NotifiedAt time.Time  `gorm:"not null"`
}
