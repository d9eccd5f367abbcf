package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javiercm/posmrp-backend/pkg/db/models"
	pkgerrors "github.com/javiercm/posmrp-backend/pkg/errors"
)

// Repository persists audit notes.
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

// CreateNote inserts a note.
func (r *Repository) CreateNote(ctx context.Context, note *models.AuditNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// ListNotes returns the notes attached to an entity, oldest first.
func (r *Repository) ListNotes(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.AuditNote, error) {
	var notes []models.AuditNote
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at").Order("id").
		Find(&notes).Error
	return notes, err
}

type repository interface {
	CreateNote(ctx context.Context, note *models.AuditNote) error
	ListNotes(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.AuditNote, error)
}

// Recorder appends traceability notes to orders and production jobs.
type Recorder interface {
	Append(ctx context.Context, entityType string, entityID uuid.UUID, body string) error
	Notes(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.AuditNote, error)
}

type recorder struct {
	repo repository
}

// NewRecorder wires the audit recorder.
func NewRecorder(repo repository) (Recorder, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit repository required")
	}
	return &recorder{repo: repo}, nil
}

func (r *recorder) Append(ctx context.Context, entityType string, entityID uuid.UUID, body string) error {
	if entityID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entity id required")
	}
	if body == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "note body required")
	}
	return r.repo.CreateNote(ctx, &models.AuditNote{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Body:       body,
	})
}

func (r *recorder) Notes(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.AuditNote, error) {
	return r.repo.ListNotes(ctx, entityType, entityID)
}
