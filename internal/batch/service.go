package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/javiercm/posmrp-backend/internal/availability"
	"github.com/javiercm/posmrp-backend/internal/catalog"
	"github.com/javiercm/posmrp-backend/internal/orders"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	"github.com/javiercm/posmrp-backend/pkg/enums"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
	"github.com/javiercm/posmrp-backend/pkg/logger"
)

type productReader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type sessionReader interface {
	FindSession(ctx context.Context, id uuid.UUID) (*models.PosSession, error)
}

type bomResolver interface {
	Resolve(ctx context.Context, input catalog.ResolveInput) (*models.BillOfMaterials, error)
}

// Service runs the sync protocol over inbound order submissions: validate
// each order independently, commit the valid ones, defer the rest.
type Service interface {
	SyncBatch(ctx context.Context, submissions []OrderSubmission) (*SyncResult, error)
}

type service struct {
	products productReader
	sessions sessionReader
	resolver bomResolver
	checker  availability.Checker
	orders   orders.Service
	logg     *logger.Logger
}

// NewService wires the batch sync service.
func NewService(products productReader, sessions sessionReader, resolver bomResolver, checker availability.Checker, orderSvc orders.Service, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product reader required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session reader required")
	}
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bom resolver required")
	}
	if checker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "availability checker required")
	}
	if orderSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{products: products, sessions: sessions, resolver: resolver, checker: checker, orders: orderSvc, logg: logg}, nil
}

// SyncBatch validates the submissions independently, then commits only the
// valid ones. A single-order batch that fails validation is an immediate
// error with nothing committed. A multi-order batch never errors on
// validation: blocked orders are logged and returned as deferred so the
// caller keeps them queued, and an all-blocked batch yields an empty result.
// Every submission lands in exactly one list; a commit failure defers the
// order with the failure as its reason instead of failing the call.
func (s *service) SyncBatch(ctx context.Context, submissions []OrderSubmission) (*SyncResult, error) {
	if len(submissions) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order submission required")
	}

	type verdict struct {
		submission OrderSubmission
		session    *models.PosSession
		companyID  uuid.UUID
		reason     string
		code       pkgerrors.Code
	}

	verdicts := make([]verdict, 0, len(submissions))
	for _, submission := range submissions {
		v := verdict{submission: submission}
		v.session, v.companyID, v.reason, v.code = s.resolveScope(ctx, submission)
		if v.reason == "" {
			v.reason = s.checkSubmission(ctx, submission, v.companyID, sessionWarehouse(v.session))
			v.code = pkgerrors.CodeInsufficientComponents
		}
		verdicts = append(verdicts, v)
	}

	if len(submissions) == 1 && verdicts[0].reason != "" {
		return nil, pkgerrors.New(verdicts[0].code, verdicts[0].reason)
	}

	result := &SyncResult{}
	var errs []error
	for _, v := range verdicts {
		if v.reason != "" {
			s.logg.Warn(s.logg.WithOrderRef(ctx, v.submission.Reference),
				"order blocked in batch sync: "+v.reason)
			result.Deferred = append(result.Deferred, DeferredOrder{
				Reference: v.submission.Reference,
				Reason:    v.reason,
			})
			continue
		}
		committed, err := s.commit(ctx, v.submission, v.companyID)
		if err != nil {
			// Submissions are independent: a failed commit defers this
			// order and the rest of the batch keeps going.
			s.logg.Error(s.logg.WithOrderRef(ctx, v.submission.Reference),
				"order commit failed during batch sync", err)
			errs = append(errs, err)
			result.Deferred = append(result.Deferred, DeferredOrder{
				Reference: v.submission.Reference,
				Reason:    "commit failed: " + err.Error(),
			})
			continue
		}
		result.Committed = append(result.Committed, *committed)
	}
	if combined := multierr.Combine(errs...); combined != nil {
		s.logg.Error(ctx, "batch sync completed with commit failures", combined)
	}
	return result, nil
}

// resolveScope pins a submission to a session and company.
func (s *service) resolveScope(ctx context.Context, submission OrderSubmission) (*models.PosSession, uuid.UUID, string, pkgerrors.Code) {
	if submission.Reference == "" {
		return nil, uuid.Nil, "order submission is missing its reference", pkgerrors.CodeValidation
	}
	if len(submission.Lines) == 0 {
		return nil, uuid.Nil, "order submission has no lines", pkgerrors.CodeValidation
	}
	if submission.SessionID != nil {
		session, err := s.sessions.FindSession(ctx, *submission.SessionID)
		if err != nil {
			return nil, uuid.Nil, "session not found for order", pkgerrors.CodeNotFound
		}
		return session, session.CompanyID, "", ""
	}
	if submission.CompanyID != nil && *submission.CompanyID != uuid.Nil {
		return nil, *submission.CompanyID, "", ""
	}
	return nil, uuid.Nil, "order submission carries neither session nor company", pkgerrors.CodeValidation
}

// checkSubmission mirrors the pre-persistence readiness screen: unknown
// products and non-positive quantities are skipped, every manufacturing
// line must resolve a bill of materials, and component stock is measured
// for the lines that opted into availability checking.
func (s *service) checkSubmission(ctx context.Context, submission OrderSubmission, companyID uuid.UUID, warehouseID *uuid.UUID) string {
	var reasons []string
	for _, line := range submission.Lines {
		if line.Qty.Sign() <= 0 {
			continue
		}
		product, err := s.products.FindProduct(ctx, line.ProductID)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				continue
			}
			return "could not read product configuration: " + err.Error()
		}
		if !product.ManufacturingEnabled {
			continue
		}

		bom, err := s.resolver.Resolve(ctx, catalog.ResolveInput{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			CompanyID: &companyID,
		})
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) || pkgerrors.HasCode(err, pkgerrors.CodeNoBomConfigured) {
				// A manufacturing line without a recipe can never be built,
				// availability checking or not.
				reasons = append(reasons, product.Name+" has no bill of materials")
				continue
			}
			return "could not resolve bill of materials for " + product.Name + ": " + err.Error()
		}
		if !product.CheckAvailability {
			continue
		}

		report, err := s.checker.Check(ctx, bom, line.Qty, companyID, warehouseID)
		if err != nil {
			return "availability check failed for " + product.Name + ": " + err.Error()
		}
		if report.Available {
			continue
		}
		for _, shortage := range report.Shortages {
			reasons = append(reasons, describeShortage(product.Name, shortage))
		}
	}
	return strings.Join(reasons, "; ")
}

func (s *service) commit(ctx context.Context, submission OrderSubmission, companyID uuid.UUID) (*CommittedOrder, error) {
	input := orders.CreateOrderInput{
		Reference:    submission.Reference,
		SessionID:    submission.SessionID,
		CompanyID:    companyID,
		CustomerName: submission.CustomerName,
	}
	for _, line := range submission.Lines {
		if line.Qty.Sign() <= 0 {
			continue
		}
		input.Lines = append(input.Lines, orders.CreateOrderLineInput{
			ProductID:     line.ProductID,
			VariantID:     line.VariantID,
			Qty:           line.Qty,
			UnitOfMeasure: line.UnitOfMeasure,
		})
	}

	order, err := s.orders.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.orders.MarkOrderPaid(ctx, order.ID); err != nil {
		return nil, err
	}
	jobRefs, err := s.orders.CreateJobsForOrder(ctx, order.ID, nil)
	if err != nil {
		return nil, err
	}
	return &CommittedOrder{OrderID: order.ID, Reference: order.Reference, Jobs: jobRefs}, nil
}

func sessionWarehouse(session *models.PosSession) *uuid.UUID {
	if session != nil {
		return session.WarehouseID
	}
	return nil
}

func describeShortage(productName string, shortage availability.ComponentShortage) string {
	switch shortage.Reason {
	case enums.ShortageReasonNoBom:
		return fmt.Sprintf("%s has no bill of materials", productName)
	case enums.ShortageReasonNoLocation:
		return fmt.Sprintf("%s has no stock location to check against", productName)
	default:
		return fmt.Sprintf("%s lacks %s of %s (need %s, have %s)",
			productName, shortage.Shortage, shortage.ComponentName, shortage.Required, shortage.Available)
	}
}
