package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/javiercm/posmrp-backend/api/controllers"
	jobcontrollers "github.com/javiercm/posmrp-backend/api/controllers/jobs"
	ordercontrollers "github.com/javiercm/posmrp-backend/api/controllers/orders"
	"github.com/javiercm/posmrp-backend/api/middleware"
	"github.com/javiercm/posmrp-backend/internal/audit"
	"github.com/javiercm/posmrp-backend/internal/batch"
	internaljobs "github.com/javiercm/posmrp-backend/internal/jobs"
	"github.com/javiercm/posmrp-backend/internal/linkage"
	internalorders "github.com/javiercm/posmrp-backend/internal/orders"
	"github.com/javiercm/posmrp-backend/pkg/config"
	"github.com/javiercm/posmrp-backend/pkg/logger"
	"github.com/javiercm/posmrp-backend/pkg/redis"
)

// Dependencies carries everything the HTTP surface needs. Optional fields
// (idempotency store) may be nil; the matching middleware is skipped.
type Dependencies struct {
	Config           *config.Config
	Logger           *logger.Logger
	Pingers          map[string]controllers.Pinger
	IdempotencyStore redis.IdempotencyStore
	Orders           internalorders.Service
	Batch            batch.Service
	Jobs             internaljobs.Workflow
	Linkage          linkage.Service
	Audit            audit.Recorder
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Actor(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if deps.IdempotencyStore != nil {
			r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))
		}

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Create(deps.Orders, logg))
			r.Post("/sync", ordercontrollers.Sync(deps.Batch, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Post("/validate", ordercontrollers.Validate(deps.Orders, logg))
				r.Post("/jobs", ordercontrollers.CreateJobs(deps.Orders, logg))
				r.Get("/jobs", ordercontrollers.ListJobs(deps.Linkage, logg))
				r.Get("/notes", controllers.OrderNotes(deps.Audit, logg))
			})
		})

		r.Route("/jobs/{jobID}", func(r chi.Router) {
			r.Get("/", jobcontrollers.Trace(deps.Linkage, logg))
			r.Post("/confirm", jobcontrollers.Confirm(deps.Jobs, logg))
			r.Post("/done", jobcontrollers.Done(deps.Jobs, logg))
			r.Post("/cancel", jobcontrollers.Cancel(deps.Jobs, logg))
			r.Get("/notes", controllers.JobNotes(deps.Audit, logg))
		})

		r.Get("/sessions/{sessionID}/jobs/count", controllers.SessionJobCount(deps.Linkage, logg))
	})

	return r
}
