package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a point-of-sale order as seen by the manufacturing decision core.
type Order struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference    string      `gorm:"column:reference;not null;uniqueIndex"`
	SessionID    *uuid.UUID  `gorm:"column:session_id;type:uuid;index"`
	Session      *PosSession `gorm:"foreignKey:SessionID"`
	CompanyID    uuid.UUID   `gorm:"column:company_id;type:uuid;not null"`
	CustomerName *string     `gorm:"column:customer_name"`
	Lines        []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt       *time.Time  `gorm:"column:paid_at"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine is one sold product and quantity on an order.
type OrderLine struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product       *Product        `gorm:"foreignKey:ProductID"`
	VariantID     *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Qty           decimal.Decimal `gorm:"column:qty;type:numeric(16,4);not null"`
	UnitOfMeasure string          `gorm:"column:unit_of_measure;not null;default:'unit'"`
	Sequence      int             `gorm:"column:sequence;not null;default:0"`
}
