package models

import (
	"time"

	"github.com/google/uuid"
)

// RoutingCodeManufacture marks routings usable for manufacturing operations.
const RoutingCodeManufacture = "manufacture"

// Routing is an operation-type routing (which warehouse a production job's
// picking runs through). Jobs may be created without one; the manufacturing
// subsystem decides whether to accept that.
type Routing struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string     `gorm:"column:code;not null;index"`
	Name        string     `gorm:"column:name;not null"`
	WarehouseID *uuid.UUID `gorm:"column:warehouse_id;type:uuid"`
	CompanyID   uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	Sequence    int        `gorm:"column:sequence;not null;default:0"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
