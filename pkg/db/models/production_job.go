package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/pkg/enums"
)

// ProductionJob is one unit of manufacturing work spawned from an order line.
// The decision core creates jobs and triggers the initial confirm; the rest
// of the workflow belongs to the manufacturing subsystem.
type ProductionJob struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference     string          `gorm:"column:reference;not null;uniqueIndex"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Qty           decimal.Decimal `gorm:"column:qty;type:numeric(16,4);not null"`
	UnitOfMeasure string          `gorm:"column:unit_of_measure;not null;default:'unit'"`
	BomID         uuid.UUID       `gorm:"column:bom_id;type:uuid;not null"`
	RoutingID     *uuid.UUID      `gorm:"column:routing_id;type:uuid"`
	OrderID       *uuid.UUID      `gorm:"column:order_id;type:uuid;index"`
	OrderLineID   *uuid.UUID      `gorm:"column:order_line_id;type:uuid;index"`
	SessionID     *uuid.UUID      `gorm:"column:session_id;type:uuid;index"`
	CompanyID     uuid.UUID       `gorm:"column:company_id;type:uuid;not null"`
	ActorID       *uuid.UUID      `gorm:"column:actor_id;type:uuid"`
	Origin        string          `gorm:"column:origin"`
	State         enums.JobState  `gorm:"column:state;type:text;not null;default:'draft'"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
