package repository

import (
	"strings"

	"github.com/notesapp/notes-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNoteRepository is a GORM implementation of NoteRepository
type GormNoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &GormNoteRepository{db: db}
}

// Create creates a new note with its category associations
func (r *GormNoteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

// FindByID finds a note by ID with all relations loaded
func (r *GormNoteRepository) FindByID(id uint64) (*models.Note, error) {
	var note models.Note
	if err := r.db.
		Preload("Author").
		Preload("Categories").
		Preload("Shares").
		Preload("Shares.User").
		Preload("Attachments").
		First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// List retrieves notes visible to the viewer, filtered and paginated.
// Visibility is ownership or membership of the share list; every other
// filter narrows that set.
func (r *GormNoteRepository) List(filter NoteFilter) ([]models.Note, int64, error) {
	query := r.db.Model(&models.Note{}).
		Where("notes.user_id = ? OR EXISTS (SELECT 1 FROM note_shares WHERE note_shares.note_id = notes.id AND note_shares.user_id = ?)",
			filter.ViewerID, filter.ViewerID)

	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(notes.title) LIKE ? OR LOWER(notes.body) LIKE ?", like, like)
	}
	if filter.Color != "" {
		query = query.Where("notes.color = ?", filter.Color)
	}
	// Category containment: the note must carry every requested id.
	for _, categoryID := range filter.CategoryIDs {
		query = query.Where(
			"EXISTS (SELECT 1 FROM note_categories WHERE note_categories.note_id = notes.id AND note_categories.category_id = ?)",
			categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("notes.updated_at DESC")
	if filter.Page > 0 && filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		listQuery = listQuery.Offset(offset).Limit(filter.Limit)
	}

	var notes []models.Note
	if err := listQuery.
		Preload("Author").
		Preload("Categories").
		Preload("Shares").
		Preload("Shares.User").
		Preload("Attachments").
		Find(&notes).Error; err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// Update persists changed note fields
func (r *GormNoteRepository) Update(note *models.Note) error {
	return r.db.Omit(clause.Associations).Save(note).Error
}

// ReplaceCategories swaps the note's category set
func (r *GormNoteRepository) ReplaceCategories(note *models.Note, categories []models.Category) error {
	return r.db.Model(note).Association("Categories").Replace(categories)
}

// Delete removes the note and everything hanging off it
func (r *GormNoteRepository) Delete(note *models.Note) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteShare{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", note.ID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM note_categories WHERE note_id = ?", note.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Note{}, note.ID).Error
	})
}

// UpsertShare creates a share or updates the permission of an existing one
func (r *GormNoteRepository) UpsertShare(share *models.NoteShare) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"permission"}),
		}).
		Create(share).Error
}

// DeleteShare removes a share
func (r *GormNoteRepository) DeleteShare(noteID, userID uint64) error {
	return r.db.Where("note_id = ? AND user_id = ?", noteID, userID).
		Delete(&models.NoteShare{}).Error
}

// AddAttachment appends an attachment row
func (r *GormNoteRepository) AddAttachment(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// FindAttachment finds an attachment belonging to the note
func (r *GormNoteRepository) FindAttachment(noteID, attachmentID uint64) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.Where("id = ? AND note_id = ?", attachmentID, noteID).
		First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DeleteAttachment removes an attachment row
func (r *GormNoteRepository) DeleteAttachment(attachment *models.Attachment) error {
	return r.db.Delete(&models.Attachment{}, attachment.ID).Error
}
