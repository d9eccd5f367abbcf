package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockQuant records the quantity of a product physically present at a
// location. The decision core only ever reads quants; decrements and
// increments happen downstream when production jobs complete.
type StockQuant struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index:idx_quant_product_location"`
	LocationID  uuid.UUID       `gorm:"column:location_id;type:uuid;not null;index:idx_quant_product_location"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(16,4);not null;default:0"`
	ReservedQty decimal.Decimal `gorm:"column:reserved_qty;type:numeric(16,4);not null;default:0"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
