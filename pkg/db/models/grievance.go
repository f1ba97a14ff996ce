package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// Grievance is a complaint filed by any user. Only admins may move it through
// its lifecycle; everyone else sees only their own rows.
type Grievance struct {
	ID              uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string                  `gorm:"type:text;not null" json:"title"`
	Description     string                  `gorm:"type:text;not null" json:"description"`
	Status          enums.GrievanceStatus   `gorm:"type:text;not null;default:'pending'" json:"status"`
	Priority        enums.GrievancePriority `gorm:"type:text;not null;default:'medium'" json:"priority"`
	AttachmentPath  *string                 `gorm:"type:text" json:"attachment_path"`
	ResolutionNotes *string                 `gorm:"type:text" json:"resolution_notes"`
	ResolvedBy      *uuid.UUID              `gorm:"type:uuid" json:"resolved_by"`
	CreatedBy       uuid.UUID               `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt       time.Time               `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt       time.Time               `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}
