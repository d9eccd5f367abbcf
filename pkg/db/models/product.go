package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item with its manufacturing configuration.
type Product struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string     `gorm:"column:name;not null"`
	UnitOfMeasure        string     `gorm:"column:unit_of_measure;not null;default:'unit'"`
	ManufacturingEnabled bool       `gorm:"column:manufacturing_enabled;not null;default:false"`
	AutoConfirmJob       bool       `gorm:"column:auto_confirm_job;not null;default:true"`
	CheckAvailability    bool       `gorm:"column:check_availability;not null;default:false"`
	BomID                *uuid.UUID `gorm:"column:bom_id;type:uuid"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
