package batch

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/internal/orders"
)

// SubmissionLine is one sold line of an inbound order submission.
type SubmissionLine struct {
	ProductID     uuid.UUID       `json:"product_id"`
	VariantID     *uuid.UUID      `json:"variant_id,omitempty"`
	Qty           decimal.Decimal `json:"qty"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty"`
}

// OrderSubmission is an order arriving through the sync channel, not yet
// persisted. The channel mixes fresh orders with previously queued ones.
type OrderSubmission struct {
	Reference    string           `json:"reference"`
	SessionID    *uuid.UUID       `json:"session_id,omitempty"`
	CompanyID    *uuid.UUID       `json:"company_id,omitempty"`
	CustomerName *string          `json:"customer_name,omitempty"`
	Lines        []SubmissionLine `json:"lines"`
}

// CommittedOrder records one submission that made it through validation and
// persistence, with the production jobs it spawned.
type CommittedOrder struct {
	OrderID   uuid.UUID       `json:"order_id"`
	Reference string          `json:"reference"`
	Jobs      []orders.JobRef `json:"jobs,omitempty"`
}

// DeferredOrder records one submission held back by validation. The caller
// keeps it queued; nothing about it is persisted here.
type DeferredOrder struct {
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// SyncResult partitions a batch: every submission lands in exactly one list.
type SyncResult struct {
	Committed []CommittedOrder `json:"committed"`
	Deferred  []DeferredOrder  `json:"deferred,omitempty"`
}
