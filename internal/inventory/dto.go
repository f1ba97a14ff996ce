package inventory

import (
	"gorm.io/datatypes"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// CreateItemRequest is the payload for creating one inventory row.
type CreateItemRequest struct {
	Name              string            `json:"name" validate:"required"`
	Category          string            `json:"category" validate:"required"`
	Model             string            `json:"model,omitempty"`
	SerialNumber      string            `json:"serial_number,omitempty"`
	Quantity          int               `json:"quantity" validate:"gte=0"`
	LowStockThreshold int               `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	Department        enums.Department  `json:"department" validate:"required"`
	Location          string            `json:"location,omitempty"`
	CabinNumber       string            `json:"cabin_number,omitempty"`
	Specifications    map[string]any    `json:"specifications,omitempty"`
	Status            enums.ItemStatus  `json:"status,omitempty"`
}

// UpdateItemRequest carries partial updates; nil fields are left untouched.
type UpdateItemRequest struct {
	Name              *string           `json:"name,omitempty"`
	Category          *string           `json:"category,omitempty"`
	Model             *string           `json:"model,omitempty"`
	SerialNumber      *string           `json:"serial_number,omitempty"`
	Quantity          *int              `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	LowStockThreshold *int              `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	Location          *string           `json:"location,omitempty"`
	CabinNumber       *string           `json:"cabin_number,omitempty"`
	Specifications    map[string]any    `json:"specifications,omitempty"`
	Status            *enums.ItemStatus `json:"status,omitempty"`
}

// ListParams configures inventory listing.
type ListParams struct {
	Department *enums.Department
	Name       string
	Category   string
	Limit      int
	Cursor     string
}

// ListResult wraps returned items and the cursor for the next page.
type ListResult struct {
	Items  []models.InventoryItem `json:"items"`
	Cursor string                 `json:"cursor"`
}

func specsFromMap(specs map[string]any) datatypes.JSONMap {
	if len(specs) == 0 {
		return nil
	}
	return datatypes.JSONMap(specs)
}
