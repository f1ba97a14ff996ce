package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// UserRole assigns exactly one role and one department per user. Every
// authorization decision starts from this row.
type UserRole struct {
	UserID     uuid.UUID        `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role       enums.Role       `gorm:"type:text;not null" json:"role"`
	Department enums.Department `gorm:"type:text;not null" json:"department"`
	CreatedAt  time.Time        `gorm:"type:timestamptz;default:now()" json:"created_at"`
}
