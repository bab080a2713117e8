package persistence

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
)

const noteViewColumns = "notes.*, users.name AS author_name, " +
	"customers.code AS customer_code, customers.title AS customer_title"

// GormNoteRepository implements NoteRepository using GORM
type GormNoteRepository struct {
	db *gorm.DB
}

// NewGormNoteRepository creates a new GormNoteRepository
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db}
}

func (r *GormNoteRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.NoteModel{}).
		Joins("JOIN users ON users.id = notes.user_id").
		Joins("JOIN customers ON customers.id = notes.customer_id")
}

// ListForCustomer lists the author's notes on a customer, newest first by default
func (r *GormNoteRepository) ListForCustomer(ctx context.Context, authorID, customerID int64, params shared.ListParams) ([]partner.NoteView, error) {
	if params.SortBy == "" {
		params.Descending = true
	}
	var rows []models.NoteViewRow
	if err := r.joined(ctx).
		Select(noteViewColumns).
		Where("notes.customer_id = ? AND notes.user_id = ?", customerID, authorID).
		Scopes(query.New(NoteSpec, params).Apply()).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]partner.NoteView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views, nil
}

// CountForCustomer counts the author's notes matching the same filters
func (r *GormNoteRepository) CountForCustomer(ctx context.Context, authorID, customerID int64, params shared.ListParams) (int64, error) {
	var total int64
	err := r.joined(ctx).
		Where("notes.customer_id = ? AND notes.user_id = ?", customerID, authorID).
		Scopes(query.New(NoteSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// GetViewByID finds a note with its author and customer labels
func (r *GormNoteRepository) GetViewByID(ctx context.Context, id int64) (*partner.NoteView, error) {
	var row models.NoteViewRow
	if err := r.joined(ctx).
		Select(noteViewColumns).
		Where("notes.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err, shared.ErrNoteNotFound)
	}
	view := row.ToDomain()
	return &view, nil
}

// GetByIDForAuthor finds a note written by the given user
func (r *GormNoteRepository) GetByIDForAuthor(ctx context.Context, authorID, id int64) (*partner.Note, error) {
	var model models.NoteModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, authorID).
		Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrNoteNotFound)
	}
	return model.ToDomain(), nil
}

// Create inserts a new note and sets its ID
func (r *GormNoteRepository) Create(ctx context.Context, note *partner.Note) error {
	model := models.NoteModelFromDomain(note)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrNoteNotFound)
	}
	note.ID = model.ID
	return nil
}

// Update rewrites the note body
func (r *GormNoteRepository) Update(ctx context.Context, note *partner.Note) error {
	result := r.db.WithContext(ctx).
		Model(&models.NoteModel{}).
		Where("id = ?", note.ID).
		Update("note", note.Text)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNoteNotFound
	}
	return nil
}

// Delete removes a note
func (r *GormNoteRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.NoteModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNoteNotFound
	}
	return nil
}

// Ensure GormNoteRepository implements NoteRepository
var _ partner.NoteRepository = (*GormNoteRepository)(nil)
