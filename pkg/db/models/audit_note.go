package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity types audit notes can attach to.
const (
	AuditEntityOrder         = "order"
	AuditEntityProductionJob = "production_job"
)

// AuditNote is an append-only message on a record, used for traceability
// (job completed, job cancelled). Notes carry no control-flow weight.
type AuditNote struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EntityType string    `gorm:"column:entity_type;not null;index:idx_audit_entity"`
	EntityID   uuid.UUID `gorm:"column:entity_id;type:uuid;not null;index:idx_audit_entity"`
	Body       string    `gorm:"column:body;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
