package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javiercm/posmrp-backend/pkg/db"
	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

// Repository persists point-of-sale orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByIDWithLines loads an order with its lines, products, and session.
func (r *Repository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence, id")
		}).
		Preload("Lines.Product").
		Preload("Session").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// FindByReference loads an order by its point-of-sale reference.
func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "reference = ?", reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// FindOrderReference returns just the reference; used for audit note bodies.
func (r *Repository) FindOrderReference(ctx context.Context, id uuid.UUID) (string, error) {
	var reference string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("reference").
		Where("id = ?", id).
		Scan(&reference).Error
	if err != nil {
		return "", err
	}
	if reference == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return reference, nil
}

// FindSession loads the point-of-sale session an order belongs to.
func (r *Repository) FindSession(ctx context.Context, id uuid.UUID) (*models.PosSession, error) {
	var session models.PosSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, err
	}
	return &session, nil
}

// CreateWithLines inserts an order and its lines. A duplicate reference is a
// CONFLICT; the point of sale retries submissions.
func (r *Repository) CreateWithLines(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "order reference already exists")
		}
		return err
	}
	return nil
}

// MarkPaid stamps the order as paid.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("paid_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}
