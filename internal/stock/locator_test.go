package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Warehouse{}, &models.StockLocation{}, &models.StockQuant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newLedger(t *testing.T, db *gorm.DB) Ledger {
	t.Helper()
	l, err := NewLedger(NewRepository(db))
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return l
}

func seedWarehouse(t *testing.T, db *gorm.DB, companyID uuid.UUID, seq int, withMain bool) *models.Warehouse {
	t.Helper()
	warehouse := &models.Warehouse{ID: uuid.New(), CompanyID: companyID, Code: "WH", Name: "Warehouse", Sequence: seq}
	if err := db.Create(warehouse).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	if withMain {
		location := &models.StockLocation{ID: uuid.New(), WarehouseID: warehouse.ID, CompanyID: companyID, Name: "Stock", IsMain: true}
		if err := db.Create(location).Error; err != nil {
			t.Fatalf("seed location: %v", err)
		}
	}
	return warehouse
}

func seedQuant(t *testing.T, db *gorm.DB, productID, locationID uuid.UUID, qty, reserved string) {
	t.Helper()
	quant := &models.StockQuant{
		ID:          uuid.New(),
		ProductID:   productID,
		LocationID:  locationID,
		Quantity:    decimal.RequireFromString(qty),
		ReservedQty: decimal.RequireFromString(reserved),
	}
	if err := db.Create(quant).Error; err != nil {
		t.Fatalf("seed quant: %v", err)
	}
}

func TestResolveLocationPrefersSessionWarehouse(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	company := uuid.New()
	first := seedWarehouse(t, db, company, 0, true)
	second := seedWarehouse(t, db, company, 1, true)

	location, err := newLedger(t, db).ResolveLocation(ctx, company, &second.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if location.WarehouseID != second.ID {
		t.Fatalf("expected session warehouse %s, got %s (default was %s)", second.ID, location.WarehouseID, first.ID)
	}
}

func TestResolveLocationFallsBackToCompanyDefault(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	company := uuid.New()
	seedWarehouse(t, db, uuid.New(), 0, true)
	want := seedWarehouse(t, db, company, 0, true)
	seedWarehouse(t, db, company, 5, true)

	location, err := newLedger(t, db).ResolveLocation(ctx, company, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if location.WarehouseID != want.ID {
		t.Fatalf("expected lowest-sequence company warehouse, got %s", location.WarehouseID)
	}
}

func TestResolveLocationFailsClosed(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := newLedger(t, db)

	if _, err := ledger.ResolveLocation(ctx, uuid.New(), nil); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for company without warehouse, got %v", err)
	}

	noMain := seedWarehouse(t, db, uuid.New(), 0, false)
	if _, err := ledger.ResolveLocation(ctx, noMain.CompanyID, &noMain.ID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for warehouse without main location, got %v", err)
	}
}

func TestOnHandSubtractsReservationsAndClamps(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := newLedger(t, db)
	product := uuid.New()
	location := uuid.New()

	seedQuant(t, db, product, location, "10", "3")
	seedQuant(t, db, product, location, "2.5", "0.5")
	seedQuant(t, db, product, uuid.New(), "100", "0")

	onHand, err := ledger.OnHand(ctx, product, location)
	if err != nil {
		t.Fatalf("on hand: %v", err)
	}
	if !onHand.Equal(decimal.RequireFromString("9")) {
		t.Fatalf("expected 9 on hand, got %s", onHand)
	}

	overReserved := uuid.New()
	seedQuant(t, db, product, overReserved, "1", "4")
	clamped, err := ledger.OnHand(ctx, product, overReserved)
	if err != nil {
		t.Fatalf("on hand: %v", err)
	}
	if !clamped.IsZero() {
		t.Fatalf("expected over-reserved location to clamp to zero, got %s", clamped)
	}
}

func TestOnHandZeroWhenNoQuants(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	onHand, err := newLedger(t, db).OnHand(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("on hand: %v", err)
	}
	if !onHand.IsZero() {
		t.Fatalf("expected zero, got %s", onHand)
	}
}
