package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

// Repository reads the stock ledger. The decision core never mutates quants;
// consumption happens downstream when a production job completes.
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

// FindWarehouse loads a warehouse by id.
func (r *Repository) FindWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, err
	}
	return &warehouse, nil
}

// DefaultWarehouseForCompany returns the company's first warehouse by
// sequence. NOT_FOUND when the company has none.
func (r *Repository) DefaultWarehouseForCompany(ctx context.Context, companyID uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("sequence").Order("id").
		First(&warehouse).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no warehouse configured for company")
		}
		return nil, err
	}
	return &warehouse, nil
}

// MainLocationForWarehouse returns the warehouse's main stock location.
func (r *Repository) MainLocationForWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.StockLocation, error) {
	var location models.StockLocation
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND is_main = ?", warehouseID, true).
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse has no main stock location")
		}
		return nil, err
	}
	return &location, nil
}

// OnHand returns the unreserved quantity of a product at a location:
// sum(quantity - reserved_qty) across quants, clamped at zero. Reservations
// held by other pickings are counted as unavailable.
func (r *Repository) OnHand(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	var raw string
	err := r.db.WithContext(ctx).
		Model(&models.StockQuant{}).
		Select("COALESCE(SUM(quantity - reserved_qty), 0)").
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	onHand, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stock ledger returned a non-numeric balance")
	}
	if onHand.IsNegative() {
		return decimal.Zero, nil
	}
	return onHand, nil
}
