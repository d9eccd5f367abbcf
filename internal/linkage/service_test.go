package linkage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/javiercm/posmrp-backend/internal/jobs"
	"github.com/javiercm/posmrp-backend/internal/orders"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:linkage_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.PosSession{}, &models.Order{}, &models.OrderLine{}, &models.ProductionJob{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	s, err := NewService(jobs.NewRepository(db), orders.NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func seedOrder(t *testing.T, db *gorm.DB, reference string, sessionID *uuid.UUID, customer *string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:           uuid.New(),
		Reference:    reference,
		SessionID:    sessionID,
		CompanyID:    uuid.New(),
		CustomerName: customer,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func seedJob(t *testing.T, db *gorm.DB, orderID, sessionID *uuid.UUID) *models.ProductionJob {
	t.Helper()
	job := &models.ProductionJob{
		ID:        uuid.New(),
		Reference: jobs.NewReference(),
		ProductID: uuid.New(),
		Qty:       decimal.NewFromInt(1),
		BomID:     uuid.New(),
		OrderID:   orderID,
		SessionID: sessionID,
		CompanyID: uuid.New(),
		State:     enums.JobStateConfirmed,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func TestJobsByOrderAndIndex(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	service := newService(t, db)

	first := seedOrder(t, db, "POS-2001", nil, nil)
	second := seedOrder(t, db, "POS-2002", nil, nil)
	bare := seedOrder(t, db, "POS-2003", nil, nil)

	seedJob(t, db, &first.ID, nil)
	seedJob(t, db, &first.ID, nil)
	seedJob(t, db, &second.ID, nil)
	seedJob(t, db, nil, nil) // job without order linkage

	byOrder, err := service.JobsByOrder(ctx, first.ID)
	if err != nil {
		t.Fatalf("jobs by order: %v", err)
	}
	if len(byOrder) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(byOrder))
	}

	index, err := service.JobsByOrderIndex(ctx, []uuid.UUID{first.ID, second.ID, bare.ID})
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(index[first.ID]) != 2 || len(index[second.ID]) != 1 {
		t.Fatalf("unexpected index %+v", index)
	}
	if _, ok := index[bare.ID]; ok {
		t.Fatal("expected no entry for jobless order")
	}
}

func TestJobCountBySession(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	service := newService(t, db)

	session := uuid.New()
	other := uuid.New()
	seedJob(t, db, nil, &session)
	seedJob(t, db, nil, &session)
	seedJob(t, db, nil, &other)

	count, err := service.JobCountBySession(ctx, session)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
}

func TestTraceResolvesOrderSessionAndCustomer(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	service := newService(t, db)

	session := &models.PosSession{ID: uuid.New(), Name: "Shift 1", CompanyID: uuid.New()}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	customer := "Ada Lovelace"
	order := seedOrder(t, db, "POS-2004", &session.ID, &customer)
	job := seedJob(t, db, &order.ID, &session.ID)

	trace, err := service.Trace(ctx, job.ID)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if trace.OrderReference != "POS-2004" || trace.SessionName != "Shift 1" || trace.CustomerName != "Ada Lovelace" {
		t.Fatalf("unexpected trace %+v", trace)
	}
}

func TestTraceDefaultsToWalkInCustomer(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	service := newService(t, db)

	order := seedOrder(t, db, "POS-2005", nil, nil)
	job := seedJob(t, db, &order.ID, nil)

	trace, err := service.Trace(ctx, job.ID)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if trace.CustomerName != "Walk-in Customer" {
		t.Fatalf("expected walk-in default, got %q", trace.CustomerName)
	}
}

func TestTraceWithoutOrderStaysBare(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	service := newService(t, db)

	job := seedJob(t, db, nil, nil)
	trace, err := service.Trace(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if trace.OrderID != nil || trace.CustomerName != "" {
		t.Fatalf("expected bare trace, got %+v", trace)
	}
}

func TestTraceUnknownJob(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	service := newService(t, db)
	if _, err := service.Trace(context.Background(), uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
