package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/javiercm/posmrp-backend/internal/availability"
	"github.com/javiercm/posmrp-backend/internal/catalog"
	"github.com/javiercm/posmrp-backend/internal/jobs"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type orderRepository interface {
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	CreateWithLines(ctx context.Context, order *models.Order) error
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error
}

type bomResolver interface {
	Resolve(ctx context.Context, input catalog.ResolveInput) (*models.BillOfMaterials, error)
}

// Service validates point-of-sale orders against manufacturing configuration
// and spawns production jobs for their manufacturable lines.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ValidateOrderForManufacturing(ctx context.Context, orderID uuid.UUID) (*ValidationResult, error)
	CreateJobsForOrder(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) ([]JobRef, error)
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo     orderRepository
	resolver bomResolver
	checker  availability.Checker
	composer jobs.Composer
	logg     *logger.Logger
}

// NewService wires the order service.
func NewService(repo orderRepository, resolver bomResolver, checker availability.Checker, composer jobs.Composer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bom resolver required")
	}
	if checker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "availability checker required")
	}
	if composer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "job composer required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, resolver: resolver, checker: checker, composer: composer, logg: logg}, nil
}

// CreateOrder persists an incoming order with its lines.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.Reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference required")
	}
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must have at least one line")
	}

	order := &models.Order{
		ID:           uuid.New(),
		Reference:    input.Reference,
		SessionID:    input.SessionID,
		CompanyID:    input.CompanyID,
		CustomerName: input.CustomerName,
	}
	for i, line := range input.Lines {
		if line.Qty.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order line quantity must be positive")
		}
		unit := line.UnitOfMeasure
		if unit == "" {
			unit = "unit"
		}
		order.Lines = append(order.Lines, models.OrderLine{
			ID:            uuid.New(),
			OrderID:       order.ID,
			ProductID:     line.ProductID,
			VariantID:     line.VariantID,
			Qty:           line.Qty,
			UnitOfMeasure: unit,
			Sequence:      i,
		})
	}
	if err := s.repo.CreateWithLines(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ValidateOrderForManufacturing checks every manufacturable line of the
// order. Both failure lists accumulate across all lines in one pass; a
// product missing a BOM is recorded once no matter how many lines sell it.
// Availability runs only for products that opt in via checkAvailability.
func (s *service) ValidateOrderForManufacturing(ctx context.Context, orderID uuid.UUID) (*ValidationResult, error) {
	order, err := s.repo.FindByIDWithLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, order)
}

func (s *service) validate(ctx context.Context, order *models.Order) (*ValidationResult, error) {
	result := &ValidationResult{OK: true}
	missingSeen := map[uuid.UUID]bool{}
	warehouseID := sessionWarehouse(order)

	for _, line := range order.Lines {
		if line.Product == nil || !line.Product.ManufacturingEnabled {
			continue
		}

		bom, err := s.resolver.Resolve(ctx, catalog.ResolveInput{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			CompanyID: &order.CompanyID,
		})
		if err != nil {
			if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				return nil, err
			}
			if !missingSeen[line.ProductID] {
				missingSeen[line.ProductID] = true
				result.MissingBomProducts = append(result.MissingBomProducts, ProductRef{
					ID:   line.ProductID,
					Name: line.Product.Name,
				})
			}
			result.OK = false
			continue
		}

		if !line.Product.CheckAvailability {
			continue
		}
		report, err := s.checker.Check(ctx, bom, line.Qty, order.CompanyID, warehouseID)
		if err != nil {
			return nil, err
		}
		if report.Available {
			continue
		}
		result.OK = false
		result.UnavailableProducts = append(result.UnavailableProducts, ProductShortages{
			Product:   ProductRef{ID: line.ProductID, Name: line.Product.Name},
			Shortages: report.Shortages,
		})
	}
	return result, nil
}

// CreateJobsForOrder spawns one production job per manufacturable line. A
// line whose BOM cannot be resolved is skipped with a warning; a creation or
// confirmation failure aborts the pass but keeps the jobs already created.
func (s *service) CreateJobsForOrder(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) ([]JobRef, error) {
	order, err := s.repo.FindByIDWithLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	rc := jobs.RoutingContext{
		CompanyID:   order.CompanyID,
		WarehouseID: sessionWarehouse(order),
		SessionID:   order.SessionID,
		ActorID:     actorID,
		Origin:      order.Reference,
	}
	ctx = s.logg.WithOrderRef(ctx, order.Reference)

	var created []JobRef
	for _, line := range order.Lines {
		if line.Product == nil || !line.Product.ManufacturingEnabled || line.Qty.Sign() <= 0 {
			continue
		}

		bom, err := s.resolver.Resolve(ctx, catalog.ResolveInput{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			CompanyID: &order.CompanyID,
		})
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				s.logg.Warn(s.logg.WithField(ctx, "product_id", line.ProductID),
					"no bill of materials for manufacturable line, skipping job")
				continue
			}
			return created, err
		}

		job, err := s.composer.Compose(ctx, line, bom, rc)
		if err != nil {
			return created, err
		}
		if err := s.composer.Create(ctx, job, line.Product.AutoConfirmJob); err != nil {
			s.logg.Error(ctx, "job creation aborted mid-order, earlier jobs kept", err)
			return created, err
		}
		created = append(created, JobRef{
			ID:        job.ID,
			Reference: job.Reference,
			ProductID: job.ProductID,
			Qty:       job.Qty,
			State:     job.State,
		})
	}
	return created, nil
}

// MarkOrderPaid stamps the order paid now.
func (s *service) MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error {
	return s.repo.MarkPaid(ctx, orderID, time.Now().UTC())
}

func sessionWarehouse(order *models.Order) *uuid.UUID {
	if order.Session != nil {
		return order.Session.WarehouseID
	}
	return nil
}
