package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// InventoryItem is one physical batch/serial of equipment. Several rows may
// share the same (name, department) pair; the stock level operators care about
// is the aggregate across those rows.
type InventoryItem struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string            `gorm:"type:text;not null;index:idx_inventory_name_department" json:"name"`
	Category          string            `gorm:"type:text;not null" json:"category"`
	Model             string            `gorm:"type:text" json:"model"`
	SerialNumber      string            `gorm:"type:text" json:"serial_number"`
	Quantity          int               `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	LowStockThreshold int               `gorm:"not null;default:5" json:"low_stock_threshold"`
	Department        enums.Department  `gorm:"type:text;not null;index:idx_inventory_name_department" json:"department"`
	Location          string            `gorm:"type:text" json:"location"`
	CabinNumber       string            `gorm:"type:text" json:"cabin_number"`
	Specifications    datatypes.JSONMap `gorm:"type:jsonb" json:"specifications"`
	Status            enums.ItemStatus  `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedBy         uuid.UUID         `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt         time.Time         `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}
