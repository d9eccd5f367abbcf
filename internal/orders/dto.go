package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/internal/availability"
	"github.com/javiercm/posmrp-backend/pkg/enums"
)

// ProductRef identifies a product in validation output.
type ProductRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductShortages pairs a product with its availability shortfalls.
type ProductShortages struct {
	Product   ProductRef                       `json:"product"`
	Shortages []availability.ComponentShortage `json:"shortages"`
}

// ValidationResult is the outcome of checking an order's manufacturable
// lines. OK is true iff both lists are empty. A product missing a BOM always
// blocks; availability shortfalls block only products that ask to be checked.
type ValidationResult struct {
	OK                  bool               `json:"ok"`
	MissingBomProducts  []ProductRef       `json:"missing_bom_products,omitempty"`
	UnavailableProducts []ProductShortages `json:"unavailable_products,omitempty"`
}

// JobRef is the caller-facing handle of a created production job.
type JobRef struct {
	ID        uuid.UUID       `json:"id"`
	Reference string          `json:"reference"`
	ProductID uuid.UUID       `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	State     enums.JobState  `json:"state"`
}

// CreateOrderInput describes an order arriving from the point of sale.
type CreateOrderInput struct {
	Reference    string
	SessionID    *uuid.UUID
	CompanyID    uuid.UUID
	CustomerName *string
	Lines        []CreateOrderLineInput
}

// CreateOrderLineInput is one sold line of an incoming order.
type CreateOrderLineInput struct {
	ProductID     uuid.UUID
	VariantID     *uuid.UUID
	Qty           decimal.Decimal
	UnitOfMeasure string
}
