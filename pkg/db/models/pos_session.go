package models

import (
	"time"

	"github.com/google/uuid"
)

// PosSession ties the orders of one point-of-sale shift to a company and the
// warehouse its stock moves through.
type PosSession struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	CompanyID   uuid.UUID  `gorm:"column:company_id;type:uuid;not null"`
	WarehouseID *uuid.UUID `gorm:"column:warehouse_id;type:uuid"`
	OpenedAt    time.Time  `gorm:"column:opened_at;autoCreateTime"`
}
