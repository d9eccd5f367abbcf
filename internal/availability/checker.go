package availability

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/internal/catalog"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type stockLedger interface {
	ResolveLocation(ctx context.Context, companyID uuid.UUID, warehouseID *uuid.UUID) (*models.StockLocation, error)
	OnHand(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error)
}

type bomResolver interface {
	Resolve(ctx context.Context, input catalog.ResolveInput) (*models.BillOfMaterials, error)
}

// ComponentShortage describes one component the ledger cannot cover. For the
// no_bom and no_location reasons the numeric fields are zero: there was
// nothing to measure.
type ComponentShortage struct {
	ComponentID   uuid.UUID            `json:"component_id,omitempty"`
	ComponentName string               `json:"component_name"`
	Required      decimal.Decimal      `json:"required"`
	Available     decimal.Decimal      `json:"available"`
	Shortage      decimal.Decimal      `json:"shortage"`
	UnitOfMeasure string               `json:"unit_of_measure,omitempty"`
	Reason        enums.ShortageReason `json:"reason"`
}

// Report is the result of one availability check. Shortages lists every
// lacking component, not just the first one found.
type Report struct {
	Available bool                `json:"available"`
	Shortages []ComponentShortage `json:"shortages,omitempty"`
}

// Checker answers whether a quantity of a product can be built from on-hand
// components.
type Checker interface {
	Check(ctx context.Context, bom *models.BillOfMaterials, qty decimal.Decimal, companyID uuid.UUID, warehouseID *uuid.UUID) (*Report, error)
	CheckProduct(ctx context.Context, input catalog.ResolveInput, qty decimal.Decimal, warehouseID *uuid.UUID) (*Report, error)
}

type checker struct {
	ledger   stockLedger
	resolver bomResolver
	logg     *logger.Logger
}

// NewChecker wires the availability checker.
func NewChecker(ledger stockLedger, resolver bomResolver, logg *logger.Logger) (Checker, error) {
	if ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stock ledger required")
	}
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bom resolver required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &checker{ledger: ledger, resolver: resolver, logg: logg}, nil
}

// Check walks every BOM line and compares required against on-hand at the
// resolved location. No BOM and no resolvable location both report as
// unavailable rather than erroring; order validation decides what to do with
// that. A ledger read failure is a hard error so a flaky ledger never passes
// as "in stock".
func (c *checker) Check(ctx context.Context, bom *models.BillOfMaterials, qty decimal.Decimal, companyID uuid.UUID, warehouseID *uuid.UUID) (*Report, error) {
	if qty.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if bom == nil {
		return &Report{Available: false, Shortages: []ComponentShortage{{
			ComponentName: "bill of materials",
			Reason:        enums.ShortageReasonNoBom,
		}}}, nil
	}
	if len(bom.Lines) == 0 {
		return &Report{Available: true}, nil
	}

	location, err := c.ledger.ResolveLocation(ctx, companyID, warehouseID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
				"company_id": companyID,
				"bom_id":     bom.ID,
			}), "no stock location resolvable, treating as unavailable")
			return &Report{Available: false, Shortages: []ComponentShortage{{
				ComponentName: "stock location",
				Reason:        enums.ShortageReasonNoLocation,
			}}}, nil
		}
		return nil, err
	}

	report := &Report{Available: true}
	for _, line := range bom.Lines {
		required := line.QtyPerUnit.Mul(qty)
		available, err := c.ledger.OnHand(ctx, line.ComponentID, location.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading stock for component")
		}
		if available.GreaterThanOrEqual(required) {
			continue
		}
		report.Available = false
		report.Shortages = append(report.Shortages, ComponentShortage{
			ComponentID:   line.ComponentID,
			ComponentName: componentName(line),
			Required:      required,
			Available:     available,
			Shortage:      required.Sub(available),
			UnitOfMeasure: line.UnitOfMeasure,
			Reason:        enums.ShortageReasonInsufficientStock,
		})
	}
	return report, nil
}

// CheckProduct resolves the product's BOM first, then checks it. A product
// with no resolvable BOM reports no_bom instead of erroring.
func (c *checker) CheckProduct(ctx context.Context, input catalog.ResolveInput, qty decimal.Decimal, warehouseID *uuid.UUID) (*Report, error) {
	bom, err := c.resolver.Resolve(ctx, input)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			bom = nil
		} else {
			return nil, err
		}
	}
	var companyID uuid.UUID
	if input.CompanyID != nil {
		companyID = *input.CompanyID
	}
	return c.Check(ctx, bom, qty, companyID, warehouseID)
}

func componentName(line models.BomLine) string {
	if line.Component != nil {
		return line.Component.Name
	}
	return line.ComponentID.String()
}
