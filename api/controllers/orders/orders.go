package orders

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/api/middleware"
	"github.com/javiercm/posmrp-backend/api/responses"
	"github.com/javiercm/posmrp-backend/api/validators"
	"github.com/javiercm/posmrp-backend/internal/batch"
	"github.com/javiercm/posmrp-backend/internal/linkage"
	internalorders "github.com/javiercm/posmrp-backend/internal/orders"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type createOrderLineRequest struct {
	ProductID     uuid.UUID       `json:"product_id" validate:"required"`
	VariantID     *uuid.UUID      `json:"variant_id"`
	Qty           decimal.Decimal `json:"qty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
}

type createOrderRequest struct {
	Reference    string                   `json:"reference" validate:"required"`
	SessionID    *uuid.UUID               `json:"session_id"`
	CompanyID    uuid.UUID                `json:"company_id" validate:"required"`
	CustomerName *string                  `json:"customer_name"`
	Lines        []createOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type syncRequest struct {
	Orders []batch.OrderSubmission `json:"orders"`
}

type orderResponse struct {
	ID           uuid.UUID  `json:"id"`
	Reference    string     `json:"reference"`
	SessionID    *uuid.UUID `json:"session_id,omitempty"`
	CompanyID    uuid.UUID  `json:"company_id"`
	CustomerName *string    `json:"customer_name,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	Lines        int        `json:"lines"`
	CreatedAt    time.Time  `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:           order.ID,
		Reference:    order.Reference,
		SessionID:    order.SessionID,
		CompanyID:    order.CompanyID,
		CustomerName: order.CustomerName,
		PaidAt:       order.PaidAt,
		Lines:        len(order.Lines),
		CreatedAt:    order.CreatedAt,
	}
}

// Create registers a point of sale order so jobs can be created against it.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.CreateOrderInput{
			Reference:    validators.NormalizeReference(payload.Reference),
			SessionID:    payload.SessionID,
			CompanyID:    payload.CompanyID,
			CustomerName: payload.CustomerName,
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, internalorders.CreateOrderLineInput{
				ProductID:     line.ProductID,
				VariantID:     line.VariantID,
				Qty:           line.Qty,
				UnitOfMeasure: validators.SanitizeString(line.UnitOfMeasure, 32),
			})
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// Validate reports which of the order's manufacturable lines are buildable
// right now without changing any state.
func Validate(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ValidateOrderForManufacturing(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CreateJobs spawns production jobs for every manufacturable line of the order.
func CreateJobs(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actorID *uuid.UUID
		if raw := middleware.ActorIDFromContext(r.Context()); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				actorID = &parsed
			}
		}

		created, err := svc.CreateJobsForOrder(r.Context(), orderID, actorID)
		if err != nil {
			// Jobs persisted before the failure stay on the books, so
			// surface both the error and what was already created.
			if pkgErr := pkgerrors.As(err); pkgErr != nil && len(created) > 0 {
				err = pkgErr.WithDetails(map[string]any{"created_jobs": len(created)})
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"jobs": created})
	}
}

// ListJobs returns the production jobs linked to the order.
func ListJobs(svc linkage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "linkage service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jobs, err := svc.JobsByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"jobs": jobs})
	}
}

// Sync validates and commits a batch of offline orders in one call.
func Sync(svc batch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batch service unavailable"))
			return
		}

		var payload syncRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SyncBatch(r.Context(), payload.Orders)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderID")
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	return orderID, nil
}
