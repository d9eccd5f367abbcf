package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/javiercm/posmrp-backend/api/controllers"
	"github.com/javiercm/posmrp-backend/api/routes"
	"github.com/javiercm/posmrp-backend/internal/audit"
	"github.com/javiercm/posmrp-backend/internal/availability"
	"github.com/javiercm/posmrp-backend/internal/batch"
	"github.com/javiercm/posmrp-backend/internal/catalog"
	"github.com/javiercm/posmrp-backend/internal/jobs"
	"github.com/javiercm/posmrp-backend/internal/linkage"
	"github.com/javiercm/posmrp-backend/internal/orders"
	"github.com/javiercm/posmrp-backend/internal/stock"
	"github.com/javiercm/posmrp-backend/pkg/config"
	"github.com/javiercm/posmrp-backend/pkg/db"
	"github.com/javiercm/posmrp-backend/pkg/logger"
	"github.com/javiercm/posmrp-backend/pkg/migrate"
	"github.com/javiercm/posmrp-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	catalogRepo := catalog.NewRepository(gormDB)
	resolver, err := catalog.NewResolver(catalogRepo)
	exitOnErr(logg, "failed to create bom resolver", err)

	ledger, err := stock.NewLedger(stock.NewRepository(gormDB))
	exitOnErr(logg, "failed to create stock ledger", err)

	checker, err := availability.NewChecker(ledger, resolver, logg)
	exitOnErr(logg, "failed to create availability checker", err)

	recorder, err := audit.NewRecorder(audit.NewRepository(gormDB))
	exitOnErr(logg, "failed to create audit recorder", err)

	jobsRepo := jobs.NewRepository(gormDB)
	composer, err := jobs.NewComposer(jobsRepo, logg)
	exitOnErr(logg, "failed to create job composer", err)

	ordersRepo := orders.NewRepository(gormDB)
	workflow, err := jobs.NewWorkflow(jobsRepo, recorder, ordersRepo, logg)
	exitOnErr(logg, "failed to create job workflow", err)

	ordersSvc, err := orders.NewService(ordersRepo, resolver, checker, composer, logg)
	exitOnErr(logg, "failed to create orders service", err)

	batchSvc, err := batch.NewService(catalogRepo, ordersRepo, resolver, checker, ordersSvc, logg)
	exitOnErr(logg, "failed to create batch service", err)

	linkageSvc, err := linkage.NewService(jobsRepo, ordersRepo)
	exitOnErr(logg, "failed to create linkage service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(routes.Dependencies{
		Config: cfg,
		Logger: logg,
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		IdempotencyStore: redisClient,
		Orders:           ordersSvc,
		Batch:            batchSvc,
		Jobs:             workflow,
		Linkage:          linkageSvc,
		Audit:            recorder,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnErr(logg *logger.Logger, msg string, err error) {
	if err != nil {
		logg.Error(context.Background(), msg, err)
		os.Exit(1)
	}
}
