package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// ScrapItem is an immutable snapshot taken when stock is disposed of. The
// source inventory row may be decremented or deleted afterwards.
type ScrapItem struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ItemName     string           `gorm:"type:text;not null" json:"item_name"`
	Model        string           `gorm:"type:text" json:"model"`
	SerialNumber string           `gorm:"type:text" json:"serial_number"`
	Department   enums.Department `gorm:"type:text;not null" json:"department"`
	Quantity     int              `gorm:"not null" json:"quantity"`
	Reason       string           `gorm:"type:text;not null" json:"reason"`
	Notes        string           `gorm:"type:text" json:"notes"`
	ScrappedBy   uuid.UUID        `gorm:"type:uuid;not null" json:"scrapped_by"`
	CreatedAt    time.Time        `gorm:"type:timestamptz;default:now()" json:"created_at"`
}
