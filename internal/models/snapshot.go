package models

import (
	"time"

	"gorm.io/datatypes"
)

// Snapshot is one persisted collection, stored as a single JSON document
type Snapshot struct {
	Key       string         `gorm:"primaryKey;size:128" json:"key"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null" json:"data"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TableName pins the table name
func (Snapshot) TableName() string {
	return "snapshots"
}
