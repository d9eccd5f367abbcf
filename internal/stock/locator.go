package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

type repository interface {
	FindWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	DefaultWarehouseForCompany(ctx context.Context, companyID uuid.UUID) (*models.Warehouse, error)
	MainLocationForWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.StockLocation, error)
	OnHand(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error)
}

// Ledger answers the two questions availability checking needs: which
// location to read, and how much of a component sits there unreserved.
type Ledger interface {
	ResolveLocation(ctx context.Context, companyID uuid.UUID, warehouseID *uuid.UUID) (*models.StockLocation, error)
	OnHand(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error)
}

type ledger struct {
	repo repository
}

// NewLedger wires the stock ledger reader.
func NewLedger(repo repository) (Ledger, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stock repository required")
	}
	return &ledger{repo: repo}, nil
}

// ResolveLocation picks the stock location availability reads from: the main
// location of the session's warehouse when one is set, else of the company's
// default warehouse. Any gap in the chain is a NOT_FOUND; callers treat that
// as unavailable rather than guessing a location.
func (l *ledger) ResolveLocation(ctx context.Context, companyID uuid.UUID, warehouseID *uuid.UUID) (*models.StockLocation, error) {
	var warehouse *models.Warehouse
	var err error
	if warehouseID != nil {
		warehouse, err = l.repo.FindWarehouse(ctx, *warehouseID)
	} else {
		warehouse, err = l.repo.DefaultWarehouseForCompany(ctx, companyID)
	}
	if err != nil {
		return nil, err
	}
	return l.repo.MainLocationForWarehouse(ctx, warehouse.ID)
}

func (l *ledger) OnHand(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	return l.repo.OnHand(ctx, productID, locationID)
}
