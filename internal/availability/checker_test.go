package availability

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javiercm/posmrp-backend/internal/catalog"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type stubLedger struct {
	location    *models.StockLocation
	locationErr error
	onHand      map[uuid.UUID]decimal.Decimal
	onHandErr   error
}

func (s *stubLedger) ResolveLocation(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*models.StockLocation, error) {
	if s.locationErr != nil {
		return nil, s.locationErr
	}
	return s.location, nil
}

func (s *stubLedger) OnHand(_ context.Context, productID, _ uuid.UUID) (decimal.Decimal, error) {
	if s.onHandErr != nil {
		return decimal.Zero, s.onHandErr
	}
	return s.onHand[productID], nil
}

type stubResolver struct {
	bom *models.BillOfMaterials
	err error
}

func (s *stubResolver) Resolve(_ context.Context, _ catalog.ResolveInput) (*models.BillOfMaterials, error) {
	return s.bom, s.err
}

func newChecker(t *testing.T, ledger stockLedger, resolver bomResolver) Checker {
	t.Helper()
	c, err := NewChecker(ledger, resolver, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}
	return c
}

func bomWith(lines ...models.BomLine) *models.BillOfMaterials {
	return &models.BillOfMaterials{ID: uuid.New(), ProductID: uuid.New(), Lines: lines}
}

func line(componentID uuid.UUID, name, qtyPerUnit string) models.BomLine {
	return models.BomLine{
		ID:            uuid.New(),
		ComponentID:   componentID,
		Component:     &models.Product{ID: componentID, Name: name},
		QtyPerUnit:    decimal.RequireFromString(qtyPerUnit),
		UnitOfMeasure: "unit",
	}
}

func TestCheckAllComponentsCovered(t *testing.T) {
	t.Parallel()

	legs, tops := uuid.New(), uuid.New()
	ledger := &stubLedger{
		location: &models.StockLocation{ID: uuid.New()},
		onHand: map[uuid.UUID]decimal.Decimal{
			legs: decimal.NewFromInt(8),
			tops: decimal.NewFromInt(2),
		},
	}
	bom := bomWith(line(legs, "Table Leg", "4"), line(tops, "Table Top", "1"))

	report, err := newChecker(t, ledger, &stubResolver{}).Check(context.Background(), bom, decimal.NewFromInt(2), uuid.New(), nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !report.Available || len(report.Shortages) != 0 {
		t.Fatalf("expected available, got %+v", report)
	}
}

func TestCheckReportsEveryShortage(t *testing.T) {
	t.Parallel()

	legs, tops, screws := uuid.New(), uuid.New(), uuid.New()
	ledger := &stubLedger{
		location: &models.StockLocation{ID: uuid.New()},
		onHand: map[uuid.UUID]decimal.Decimal{
			legs:   decimal.NewFromInt(5),
			tops:   decimal.NewFromInt(2),
			screws: decimal.RequireFromString("2.5"),
		},
	}
	bom := bomWith(line(legs, "Table Leg", "4"), line(tops, "Table Top", "1"), line(screws, "Screw Pack", "0.5"))

	report, err := newChecker(t, ledger, &stubResolver{}).Check(context.Background(), bom, decimal.NewFromInt(3), uuid.New(), nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Available {
		t.Fatal("expected unavailable")
	}
	if len(report.Shortages) != 2 {
		t.Fatalf("expected legs and tops shortages, got %+v", report.Shortages)
	}
	short := report.Shortages[0]
	if short.ComponentName != "Table Leg" || short.Reason != enums.ShortageReasonInsufficientStock {
		t.Fatalf("unexpected shortage: %+v", short)
	}
	if !short.Required.Equal(decimal.NewFromInt(12)) || !short.Available.Equal(decimal.NewFromInt(5)) || !short.Shortage.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("bad arithmetic: required=%s available=%s shortage=%s", short.Required, short.Available, short.Shortage)
	}
}

func TestCheckNilBomReportsNoBom(t *testing.T) {
	t.Parallel()

	report, err := newChecker(t, &stubLedger{}, &stubResolver{}).Check(context.Background(), nil, decimal.NewFromInt(1), uuid.New(), nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Available || len(report.Shortages) != 1 || report.Shortages[0].Reason != enums.ShortageReasonNoBom {
		t.Fatalf("expected no_bom report, got %+v", report)
	}
	if !report.Shortages[0].Required.IsZero() || !report.Shortages[0].Shortage.IsZero() {
		t.Fatalf("expected zero numerics for no_bom, got %+v", report.Shortages[0])
	}
}

func TestCheckEmptyBomIsAvailable(t *testing.T) {
	t.Parallel()

	report, err := newChecker(t, &stubLedger{}, &stubResolver{}).Check(context.Background(), bomWith(), decimal.NewFromInt(5), uuid.New(), nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !report.Available {
		t.Fatalf("expected empty bom to pass, got %+v", report)
	}
}

func TestCheckNoLocationFailsClosed(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{locationErr: pkgerrors.New(pkgerrors.CodeNotFound, "no warehouse configured for company")}
	bom := bomWith(line(uuid.New(), "Table Leg", "4"))

	report, err := newChecker(t, ledger, &stubResolver{}).Check(context.Background(), bom, decimal.NewFromInt(1), uuid.New(), nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Available || len(report.Shortages) != 1 || report.Shortages[0].Reason != enums.ShortageReasonNoLocation {
		t.Fatalf("expected no_location report, got %+v", report)
	}
}

func TestCheckLedgerFailureIsHardError(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{
		location:  &models.StockLocation{ID: uuid.New()},
		onHandErr: pkgerrors.New(pkgerrors.CodeInternal, "connection reset"),
	}
	bom := bomWith(line(uuid.New(), "Table Leg", "4"))

	_, err := newChecker(t, ledger, &stubResolver{}).Check(context.Background(), bom, decimal.NewFromInt(1), uuid.New(), nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected DEPENDENCY error, got %v", err)
	}
}

func TestCheckRejectsNonPositiveQty(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, &stubLedger{}, &stubResolver{})
	for _, qty := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := checker.Check(context.Background(), bomWith(), qty, uuid.New(), nil)
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected VALIDATION for qty %s, got %v", qty, err)
		}
	}
}

func TestCheckProductResolvesBomFirst(t *testing.T) {
	t.Parallel()

	component := uuid.New()
	ledger := &stubLedger{
		location: &models.StockLocation{ID: uuid.New()},
		onHand:   map[uuid.UUID]decimal.Decimal{component: decimal.NewFromInt(10)},
	}
	resolver := &stubResolver{bom: bomWith(line(component, "Table Leg", "4"))}

	company := uuid.New()
	report, err := newChecker(t, ledger, resolver).CheckProduct(context.Background(),
		catalog.ResolveInput{ProductID: uuid.New(), CompanyID: &company}, decimal.NewFromInt(2), nil)
	if err != nil {
		t.Fatalf("check product: %v", err)
	}
	if !report.Available {
		t.Fatalf("expected available, got %+v", report)
	}
}

func TestCheckProductWithoutBomReportsNoBom(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeNotFound, "no eligible bill of materials")}
	report, err := newChecker(t, &stubLedger{}, resolver).CheckProduct(context.Background(),
		catalog.ResolveInput{ProductID: uuid.New()}, decimal.NewFromInt(1), nil)
	if err != nil {
		t.Fatalf("check product: %v", err)
	}
	if report.Available || report.Shortages[0].Reason != enums.ShortageReasonNoBom {
		t.Fatalf("expected no_bom, got %+v", report)
	}
}
