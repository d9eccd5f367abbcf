package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

type repository interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBom(ctx context.Context, id uuid.UUID) (*models.BillOfMaterials, error)
	FindEligibleBoms(ctx context.Context, productID uuid.UUID, variantID, companyID *uuid.UUID) ([]models.BillOfMaterials, error)
	CountEligibleBoms(ctx context.Context, productID uuid.UUID) (int64, error)
}

// ResolveInput scopes a BOM resolution. Variant and company are optional;
// the ambient context of the original system is always passed explicitly.
type ResolveInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	CompanyID *uuid.UUID
}

// Resolver selects the authoritative bill of materials for a product.
type Resolver interface {
	Resolve(ctx context.Context, input ResolveInput) (*models.BillOfMaterials, error)
	Ready(ctx context.Context, productID uuid.UUID) (bool, error)
	ValidateConfig(ctx context.Context, productID uuid.UUID) error
	EligibleBomCount(ctx context.Context, productID uuid.UUID) (int64, error)
}

type resolver struct {
	repo repository
}

// NewResolver wires the BOM resolver.
func NewResolver(repo repository) (Resolver, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &resolver{repo: repo}, nil
}

// Resolve picks exactly one BOM. An explicitly configured BOM on the product
// wins regardless of company/variant filters; otherwise the eligible catalog
// entry with the lowest sequence wins, preferring an exact-variant match on
// ties. No match yields a NOT_FOUND error.
func (r *resolver) Resolve(ctx context.Context, input ResolveInput) (*models.BillOfMaterials, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := r.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if product.BomID != nil {
		return r.repo.FindBom(ctx, *product.BomID)
	}

	boms, err := r.repo.FindEligibleBoms(ctx, input.ProductID, input.VariantID, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if len(boms) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no eligible bill of materials for product "+product.Name)
	}
	return &boms[0], nil
}

// Ready reports whether the product is fully configured for POS-triggered
// manufacturing: enabled and at least one valid BOM.
func (r *resolver) Ready(ctx context.Context, productID uuid.UUID) (bool, error) {
	product, err := r.repo.FindProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	if !product.ManufacturingEnabled {
		return false, nil
	}
	if product.BomID != nil {
		return true, nil
	}
	count, err := r.repo.CountEligibleBoms(ctx, productID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ValidateConfig rejects a configuration that enables manufacturing without
// any eligible BOM.
func (r *resolver) ValidateConfig(ctx context.Context, productID uuid.UUID) error {
	product, err := r.repo.FindProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.ManufacturingEnabled || product.BomID != nil {
		return nil
	}
	count, err := r.repo.CountEligibleBoms(ctx, productID)
	if err != nil {
		return err
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			"product "+product.Name+" requires a valid bill of materials before manufacturing can be enabled")
	}
	return nil
}

// EligibleBomCount exposes the catalog size for configuration screens.
func (r *resolver) EligibleBomCount(ctx context.Context, productID uuid.UUID) (int64, error) {
	return r.repo.CountEligibleBoms(ctx, productID)
}
