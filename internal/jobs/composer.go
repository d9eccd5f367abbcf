package jobs

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type jobRepository interface {
	CreateJob(ctx context.Context, job *models.ProductionJob) error
	FindJob(ctx context.Context, id uuid.UUID) (*models.ProductionJob, error)
	UpdateJobState(ctx context.Context, id uuid.UUID, state enums.JobState) error
	FindManufacturingRouting(ctx context.Context, companyID uuid.UUID, warehouseID *uuid.UUID) (*models.Routing, error)
}

// RoutingContext carries the session-scoped facts a new job needs beyond its
// order line.
type RoutingContext struct {
	CompanyID   uuid.UUID
	WarehouseID *uuid.UUID
	SessionID   *uuid.UUID
	ActorID     *uuid.UUID
	Origin      string
}

// Composer turns order lines into production jobs.
type Composer interface {
	Compose(ctx context.Context, line models.OrderLine, bom *models.BillOfMaterials, rc RoutingContext) (*models.ProductionJob, error)
	Create(ctx context.Context, job *models.ProductionJob, autoConfirm bool) error
}

type composer struct {
	repo jobRepository
	logg *logger.Logger
}

// NewComposer wires the production job composer.
func NewComposer(repo jobRepository, logg *logger.Logger) (Composer, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "jobs repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &composer{repo: repo, logg: logg}, nil
}

// NewReference mints a production job reference.
func NewReference() string {
	return "MO-" + strings.ToUpper(uuid.NewString()[:8])
}

// Compose builds a draft job for one order line against a resolved BOM. The
// manufacture routing is looked up warehouse-first with a company-wide
// fallback; a missing routing does not block the job.
func (c *composer) Compose(ctx context.Context, line models.OrderLine, bom *models.BillOfMaterials, rc RoutingContext) (*models.ProductionJob, error) {
	if bom == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoBomConfigured, "cannot compose a job without a bill of materials")
	}
	if line.Qty.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order line quantity must be positive")
	}
	if rc.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}

	job := &models.ProductionJob{
		ID:            uuid.New(),
		Reference:     NewReference(),
		ProductID:     line.ProductID,
		Qty:           line.Qty,
		UnitOfMeasure: line.UnitOfMeasure,
		BomID:         bom.ID,
		OrderLineID:   &line.ID,
		SessionID:     rc.SessionID,
		CompanyID:     rc.CompanyID,
		ActorID:       rc.ActorID,
		Origin:        rc.Origin,
		State:         enums.JobStateDraft,
	}
	if line.OrderID != uuid.Nil {
		orderID := line.OrderID
		job.OrderID = &orderID
	}

	routing, err := c.repo.FindManufacturingRouting(ctx, rc.CompanyID, rc.WarehouseID)
	switch {
	case err == nil:
		job.RoutingID = &routing.ID
	case pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
		c.logg.Warn(c.logg.WithJobRef(ctx, job.Reference), "no manufacture routing configured, job created without one")
	default:
		return nil, err
	}
	return job, nil
}

// Create persists a composed job and, when asked, immediately confirms it. A
// confirm failure after a successful insert surfaces as JOB_CREATION_FAILED
// so callers know the job exists but is stuck in draft.
func (c *composer) Create(ctx context.Context, job *models.ProductionJob, autoConfirm bool) error {
	if job.Qty.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "job quantity must be positive")
	}
	if err := c.repo.CreateJob(ctx, job); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeJobCreationFailed, err, "persisting production job")
	}
	if !autoConfirm {
		return nil
	}
	if err := c.repo.UpdateJobState(ctx, job.ID, enums.JobStateConfirmed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeJobCreationFailed, err, "confirming production job "+job.Reference)
	}
	job.State = enums.JobStateConfirmed
	return nil
}
