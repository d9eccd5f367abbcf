package linkage

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

type jobReader interface {
	FindJob(ctx context.Context, id uuid.UUID) (*models.ProductionJob, error)
	ListJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductionJob, error)
	ListJobsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]models.ProductionJob, error)
	CountJobsBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

type orderReader interface {
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// walkInCustomer labels orders sold without a named customer.
const walkInCustomer = "Walk-in Customer"

// JobSummary is one production job in an order's derived job view.
type JobSummary struct {
	ID        uuid.UUID       `json:"id"`
	Reference string          `json:"reference"`
	ProductID uuid.UUID       `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	State     enums.JobState  `json:"state"`
}

// JobTrace ties a production job back to the point of sale: the originating
// order, line, session, and customer, for traceability display.
type JobTrace struct {
	JobID          uuid.UUID      `json:"job_id"`
	JobReference   string         `json:"job_reference"`
	State          enums.JobState `json:"state"`
	OrderID        *uuid.UUID     `json:"order_id,omitempty"`
	OrderReference string         `json:"order_reference,omitempty"`
	OrderLineID    *uuid.UUID     `json:"order_line_id,omitempty"`
	SessionID      *uuid.UUID     `json:"session_id,omitempty"`
	SessionName    string         `json:"session_name,omitempty"`
	CustomerName   string         `json:"customer_name,omitempty"`
}

// Service exposes the derived read-side of production linkage. Everything
// here is recomputed from the jobs' back-references; nothing is stored.
type Service interface {
	JobsByOrder(ctx context.Context, orderID uuid.UUID) ([]JobSummary, error)
	JobsByOrderIndex(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]JobSummary, error)
	JobCountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
	Trace(ctx context.Context, jobID uuid.UUID) (*JobTrace, error)
}

type service struct {
	jobs   jobReader
	orders orderReader
}

// NewService wires the linkage reader.
func NewService(jobs jobReader, orders orderReader) (Service, error) {
	if jobs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "job reader required")
	}
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order reader required")
	}
	return &service{jobs: jobs, orders: orders}, nil
}

func (s *service) JobsByOrder(ctx context.Context, orderID uuid.UUID) ([]JobSummary, error) {
	jobs, err := s.jobs.ListJobsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	summaries := make([]JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, summarize(job))
	}
	return summaries, nil
}

// JobsByOrderIndex rebuilds the order-to-jobs map for a set of orders in one
// query. Orders without jobs simply have no key.
func (s *service) JobsByOrderIndex(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]JobSummary, error) {
	jobs, err := s.jobs.ListJobsByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID][]JobSummary, len(orderIDs))
	for _, job := range jobs {
		if job.OrderID == nil {
			continue
		}
		index[*job.OrderID] = append(index[*job.OrderID], summarize(job))
	}
	return index, nil
}

func (s *service) JobCountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	return s.jobs.CountJobsBySession(ctx, sessionID)
}

func (s *service) Trace(ctx context.Context, jobID uuid.UUID) (*JobTrace, error) {
	job, err := s.jobs.FindJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	trace := &JobTrace{
		JobID:        job.ID,
		JobReference: job.Reference,
		State:        job.State,
		OrderID:      job.OrderID,
		OrderLineID:  job.OrderLineID,
		SessionID:    job.SessionID,
	}
	if job.OrderID == nil {
		return trace, nil
	}

	order, err := s.orders.FindByIDWithLines(ctx, *job.OrderID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return trace, nil
		}
		return nil, err
	}
	trace.OrderReference = order.Reference
	trace.CustomerName = walkInCustomer
	if order.CustomerName != nil && *order.CustomerName != "" {
		trace.CustomerName = *order.CustomerName
	}
	if order.Session != nil {
		trace.SessionName = order.Session.Name
	}
	return trace, nil
}

func summarize(job models.ProductionJob) JobSummary {
	return JobSummary{
		ID:        job.ID,
		Reference: job.Reference,
		ProductID: job.ProductID,
		Qty:       job.Qty,
		State:     job.State,
	}
}
