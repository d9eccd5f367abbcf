package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

// Repository reads manufacturing configuration: products and the BOM catalog.
// The decision core never writes either; both are owned by configuration.
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

// FindProduct loads a product's manufacturing configuration.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

// FindBom loads a BOM with its component lines in configured order.
func (r *Repository) FindBom(ctx context.Context, id uuid.UUID) (*models.BillOfMaterials, error) {
	var bom models.BillOfMaterials
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence, id")
		}).
		Preload("Lines.Component").
		First(&bom, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill of materials not found")
		}
		return nil, err
	}
	return &bom, nil
}

// FindEligibleBoms returns the normal-kind, active BOMs matching the scope,
// best candidate first. Ordering is fully determined by (sequence,
// variant-specificity, id) so resolution never depends on insertion time.
func (r *Repository) FindEligibleBoms(ctx context.Context, productID uuid.UUID, variantID, companyID *uuid.UUID) ([]models.BillOfMaterials, error) {
	query := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence, id")
		}).
		Preload("Lines.Component").
		Where("product_id = ? AND kind = ? AND active = ?", productID, enums.BomKindNormal, true)

	if companyID != nil {
		query = query.Where("company_id IS NULL OR company_id = ?", *companyID)
	}
	if variantID != nil {
		query = query.Where("variant_id IS NULL OR variant_id = ?", *variantID)
	}

	var boms []models.BillOfMaterials
	err := query.
		Order("sequence").
		Order("CASE WHEN variant_id IS NULL THEN 1 ELSE 0 END").
		Order("id").
		Find(&boms).Error
	if err != nil {
		return nil, err
	}
	return boms, nil
}

// CountEligibleBoms counts normal-kind active BOMs for the product across
// all companies and variants.
func (r *Repository) CountEligibleBoms(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BillOfMaterials{}).
		Where("product_id = ? AND kind = ? AND active = ?", productID, enums.BomKindNormal, true).
		Count(&count).Error
	return count, err
}
