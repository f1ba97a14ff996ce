package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// ServiceRecord tracks maintenance, repair, calibration, or installation work
// done on an inventory item.
type ServiceRecord struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"item_id"`
	Type           enums.ServiceType   `gorm:"type:text;not null" json:"type"`
	Nature         enums.ServiceNature `gorm:"type:text;not null" json:"nature"`
	ServiceDate    time.Time           `gorm:"type:date;not null" json:"service_date"`
	Status         enums.ServiceStatus `gorm:"type:text;not null;default:'scheduled'" json:"status"`
	TechnicianName string              `gorm:"type:text;not null" json:"technician_name"`
	Cost           decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"cost"`
	Remarks        string              `gorm:"type:text" json:"remarks"`
	BillPath       *string             `gorm:"type:text" json:"bill_path"`
	CreatedBy      uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time           `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}
