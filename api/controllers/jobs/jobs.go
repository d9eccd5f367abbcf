package jobs

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/api/responses"
	internaljobs "github.com/javiercm/posmrp-backend/internal/jobs"
	"github.com/javiercm/posmrp-backend/internal/linkage"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type jobResponse struct {
	ID            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	ProductID     uuid.UUID       `json:"product_id"`
	Qty           decimal.Decimal `json:"qty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	State         enums.JobState  `json:"state"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	SessionID     *uuid.UUID      `json:"session_id,omitempty"`
	Origin        string          `json:"origin,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newJobResponse(job *models.ProductionJob) jobResponse {
	return jobResponse{
		ID:            job.ID,
		Reference:     job.Reference,
		ProductID:     job.ProductID,
		Qty:           job.Qty,
		UnitOfMeasure: job.UnitOfMeasure,
		State:         job.State,
		OrderID:       job.OrderID,
		SessionID:     job.SessionID,
		Origin:        job.Origin,
		UpdatedAt:     job.UpdatedAt,
	}
}

// Confirm moves a draft job into the confirmed state.
func Confirm(wf internaljobs.Workflow, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(wf, logg, func(ctx context.Context, wf internaljobs.Workflow, jobID uuid.UUID) (*models.ProductionJob, error) {
		return wf.Confirm(ctx, jobID)
	})
}

// Done completes a confirmed job and records the completion note.
func Done(wf internaljobs.Workflow, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(wf, logg, func(ctx context.Context, wf internaljobs.Workflow, jobID uuid.UUID) (*models.ProductionJob, error) {
		return wf.MarkDone(ctx, jobID)
	})
}

// Cancel aborts a job and notes the cancellation on the originating order.
func Cancel(wf internaljobs.Workflow, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(wf, logg, func(ctx context.Context, wf internaljobs.Workflow, jobID uuid.UUID) (*models.ProductionJob, error) {
		return wf.Cancel(ctx, jobID)
	})
}

func transitionHandler(wf internaljobs.Workflow, logg *logger.Logger, apply func(context.Context, internaljobs.Workflow, uuid.UUID) (*models.ProductionJob, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wf == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job workflow unavailable"))
			return
		}

		jobID, err := parseJobID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := apply(r.Context(), wf, jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newJobResponse(job))
	}
}

// Trace resolves a job back to its order, session, and customer.
func Trace(svc linkage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "linkage service unavailable"))
			return
		}

		jobID, err := parseJobID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trace, err := svc.Trace(r.Context(), jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trace)
	}
}

func parseJobID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "jobID")
	jobID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid job id")
	}
	return jobID, nil
}
