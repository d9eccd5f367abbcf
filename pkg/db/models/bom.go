package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/pkg/enums"
)

// BillOfMaterials is the recipe consumed to produce one unit of a product.
// Owned by manufacturing configuration; never mutated by the decision core.
type BillOfMaterials struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID     `gorm:"column:product_id;type:uuid;not null;index"`
	VariantID *uuid.UUID    `gorm:"column:variant_id;type:uuid"`
	CompanyID *uuid.UUID    `gorm:"column:company_id;type:uuid"`
	Kind      enums.BomKind `gorm:"column:kind;type:text;not null;default:'normal'"`
	Active    bool          `gorm:"column:active;not null;default:true"`
	Sequence  int           `gorm:"column:sequence;not null;default:0"`
	Lines     []BomLine     `gorm:"foreignKey:BomID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// BomLine is one component entry of a bill of materials.
type BomLine struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BomID         uuid.UUID       `gorm:"column:bom_id;type:uuid;not null;index"`
	ComponentID   uuid.UUID       `gorm:"column:component_id;type:uuid;not null"`
	Component     *Product        `gorm:"foreignKey:ComponentID"`
	QtyPerUnit    decimal.Decimal `gorm:"column:qty_per_unit;type:numeric(16,4);not null"`
	UnitOfMeasure string          `gorm:"column:unit_of_measure;not null;default:'unit'"`
	Sequence      int             `gorm:"column:sequence;not null;default:0"`
}
