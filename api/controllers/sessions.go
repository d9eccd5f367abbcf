package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/javiercm/posmrp-backend/api/responses"
	"github.com/javiercm/posmrp-backend/internal/linkage"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

// SessionJobCount reports how many production jobs a register session has spawned.
func SessionJobCount(svc linkage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "linkage service unavailable"))
			return
		}

		sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id"))
			return
		}

		count, err := svc.JobCountBySession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"session_id": sessionID, "job_count": count})
	}
}
