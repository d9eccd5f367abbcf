package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse groups stock locations per company. Its main stock location is
// where availability checks read on-hand quantities.
type Warehouse struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	Code      string     `gorm:"column:code;not null"`
	Name      string     `gorm:"column:name;not null"`
	Sequence  int        `gorm:"column:sequence;not null;default:0"`
	Locations []StockLocation `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// StockLocation is a read key into the stock ledger; never mutated here.
type StockLocation struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null;index"`
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;not null"`
	Name        string    `gorm:"column:name;not null"`
	IsMain      bool      `gorm:"column:is_main;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
