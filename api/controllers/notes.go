package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/javiercm/posmrp-backend/api/responses"
	"github.com/javiercm/posmrp-backend/api/validators"
	"github.com/javiercm/posmrp-backend/internal/audit"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

const (
	defaultNotesLimit = 50
	maxNotesLimit     = 200
)

type noteResponse struct {
	ID        uuid.UUID `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderNotes lists the audit trail attached to an order, oldest first.
func OrderNotes(recorder audit.Recorder, logg *logger.Logger) http.HandlerFunc {
	return notesHandler(recorder, logg, models.AuditEntityOrder, "orderID")
}

// JobNotes lists the audit trail attached to a production job, oldest first.
func JobNotes(recorder audit.Recorder, logg *logger.Logger) http.HandlerFunc {
	return notesHandler(recorder, logg, models.AuditEntityProductionJob, "jobID")
}

func notesHandler(recorder audit.Recorder, logg *logger.Logger, entityType, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if recorder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit recorder unavailable"))
			return
		}

		entityID, err := uuid.Parse(chi.URLParam(r, param))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+entityType+" id"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultNotesLimit, 1, maxNotesLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notes, err := recorder.Notes(r.Context(), entityType, entityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(notes) > limit {
			notes = notes[:limit]
		}

		out := make([]noteResponse, 0, len(notes))
		for _, note := range notes {
			out = append(out, noteResponse{ID: note.ID, Body: note.Body, CreatedAt: note.CreatedAt})
		}
		responses.WriteSuccess(w, map[string]any{"notes": out})
	}
}
