package jobs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

// Repository persists production jobs and reads manufacturing routings.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateJob inserts a production job.
func (r *Repository) CreateJob(ctx context.Context, job *models.ProductionJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindJob loads a production job by id.
func (r *Repository) FindJob(ctx context.Context, id uuid.UUID) (*models.ProductionJob, error) {
	var job models.ProductionJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "production job not found")
		}
		return nil, err
	}
	return &job, nil
}

// UpdateJobState moves a job to the given state. The workflow layer guards
// legality; this only writes.
func (r *Repository) UpdateJobState(ctx context.Context, id uuid.UUID, state enums.JobState) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductionJob{}).
		Where("id = ?", id).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "production job not found")
	}
	return nil
}

// ListJobsByOrder returns an order's jobs in creation order.
func (r *Repository) ListJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductionJob, error) {
	var jobs []models.ProductionJob
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").Order("id").
		Find(&jobs).Error
	return jobs, err
}

// ListJobsByOrders returns the jobs of several orders at once, in creation
// order, for building per-order indexes without N queries.
func (r *Repository) ListJobsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]models.ProductionJob, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var jobs []models.ProductionJob
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at").Order("id").
		Find(&jobs).Error
	return jobs, err
}

// CountJobsBySession counts jobs spawned by a session's orders.
func (r *Repository) CountJobsBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductionJob{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

// FindManufacturingRouting picks the routing a new job runs through:
// lowest-sequence manufacture routing scoped to the warehouse, else the
// company-wide one. Jobs may legitimately be created with none.
func (r *Repository) FindManufacturingRouting(ctx context.Context, companyID uuid.UUID, warehouseID *uuid.UUID) (*models.Routing, error) {
	if warehouseID != nil {
		var routing models.Routing
		err := r.db.WithContext(ctx).
			Where("code = ? AND company_id = ? AND warehouse_id = ?", models.RoutingCodeManufacture, companyID, *warehouseID).
			Order("sequence").Order("id").
			First(&routing).Error
		if err == nil {
			return &routing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var routing models.Routing
	err := r.db.WithContext(ctx).
		Where("code = ? AND company_id = ?", models.RoutingCodeManufacture, companyID).
		Order("sequence").Order("id").
		First(&routing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no manufacturing routing configured")
		}
		return nil, err
	}
	return &routing, nil
}
