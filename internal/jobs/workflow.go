package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type noteRecorder interface {
	Append(ctx context.Context, entityType string, entityID uuid.UUID, body string) error
}

type orderRefReader interface {
	FindOrderReference(ctx context.Context, id uuid.UUID) (string, error)
}

// Workflow drives production job state changes triggered from the point of
// sale. Completion leaves a note on the job; cancellation leaves one on the
// originating order so the cashier sees it.
type Workflow interface {
	Confirm(ctx context.Context, jobID uuid.UUID) (*models.ProductionJob, error)
	MarkDone(ctx context.Context, jobID uuid.UUID) (*models.ProductionJob, error)
	Cancel(ctx context.Context, jobID uuid.UUID) (*models.ProductionJob, error)
}

type workflow struct {
	repo   jobRepository
	notes  noteRecorder
	orders orderRefReader
	logg   *logger.Logger
}

// NewWorkflow wires the job workflow.
func NewWorkflow(repo jobRepository, notes noteRecorder, orders orderRefReader, logg *logger.Logger) (Workflow, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "jobs repository required")
	}
	if notes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit recorder required")
	}
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order reader required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &workflow{repo: repo, notes: notes, orders: orders, logg: logg}, nil
}

func (w *workflow) Confirm(ctx context.Context, jobID uuid.UUID) (*models.ProductionJob, error) {
	return w.transition(ctx, jobID, enums.JobStateConfirmed)
}

// MarkDone completes a job and records where it came from on the job itself.
func (w *workflow) MarkDone(ctx context.Context, jobID uuid.UUID) (*models.ProductionJob, error) {
	job, err := w.transition(ctx, jobID, enums.JobStateDone)
	if err != nil {
		return nil, err
	}

	body := "Production completed"
	if job.OrderID != nil {
		reference, err := w.orders.FindOrderReference(ctx, *job.OrderID)
		if err == nil {
			body = fmt.Sprintf("Production completed for point of sale order %s", reference)
		} else {
			w.logg.Warn(w.logg.WithJobRef(ctx, job.Reference), "could not resolve originating order for completion note")
		}
	}
	if err := w.notes.Append(ctx, models.AuditEntityProductionJob, job.ID, body); err != nil {
		// The transition is already committed; a missing note must not
		// un-complete the job.
		w.logg.Error(w.logg.WithJobRef(ctx, job.Reference), "could not record completion note", err)
	}
	return job, nil
}

// Cancel aborts a job and notes the cancellation on the originating order.
func (w *workflow) Cancel(ctx context.Context, jobID uuid.UUID) (*models.ProductionJob, error) {
	job, err := w.transition(ctx, jobID, enums.JobStateCancelled)
	if err != nil {
		return nil, err
	}
	if job.OrderID != nil {
		body := fmt.Sprintf("Production job %s was cancelled", job.Reference)
		if err := w.notes.Append(ctx, models.AuditEntityOrder, *job.OrderID, body); err != nil {
			w.logg.Error(w.logg.WithJobRef(ctx, job.Reference), "could not record cancellation note", err)
		}
	}
	return job, nil
}

func (w *workflow) transition(ctx context.Context, jobID uuid.UUID, next enums.JobState) (*models.ProductionJob, error) {
	job, err := w.repo.FindJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.State.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("job %s cannot move from %s to %s", job.Reference, job.State, next))
	}
	if err := w.repo.UpdateJobState(ctx, jobID, next); err != nil {
		return nil, err
	}
	job.State = next
	return job, nil
}
