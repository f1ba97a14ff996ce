package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// Alert records a low-stock or out-of-stock condition for an item name within
// a department. ItemName and Department are denormalized so the row survives
// deletion of the inventory row that triggered it.
type Alert struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID     *uuid.UUID          `gorm:"type:uuid" json:"item_id"`
	ItemName   string              `gorm:"type:text;not null;index:idx_alerts_name_department" json:"item_name"`
	Department enums.Department    `gorm:"type:text;not null;index:idx_alerts_name_department" json:"department"`
	Type       enums.AlertType     `gorm:"type:text;not null" json:"type"`
	Message    string              `gorm:"type:text;not null" json:"message"`
	Severity   enums.AlertSeverity `gorm:"type:text;not null" json:"severity"`
	IsResolved bool                `gorm:"not null;default:false" json:"is_resolved"`
	ResolvedAt *time.Time          `gorm:"type:timestamptz" json:"resolved_at"`
	CreatedAt  time.Time           `gorm:"type:timestamptz;default:now()" json:"created_at"`
}
