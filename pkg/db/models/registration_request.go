package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// RegistrationRequest is a pending account application. Approval creates the
// user and role assignment out of band of this row.
type RegistrationRequest struct {
	ID            uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string                   `gorm:"type:text;not null;uniqueIndex:idx_registration_requests_email" json:"email"`
	FullName      string                   `gorm:"type:text;not null" json:"full_name"`
	Department    enums.Department         `gorm:"type:text;not null" json:"department"`
	RequestedRole enums.Role               `gorm:"type:text;not null" json:"requested_role"`
	Status        enums.RegistrationStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	ReviewedBy    *uuid.UUID               `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt    *time.Time               `gorm:"type:timestamptz" json:"reviewed_at"`
	CreatedAt     time.Time                `gorm:"type:timestamptz;default:now()" json:"created_at"`
}
