package repository

import (
	"strings"

	"github.com/notesapp/notes-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// FindByID finds a category scoped to its owner. A foreign id behaves
// like a missing one.
func (r *GormCategoryRepository) FindByID(userID, id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by (owner, lowercase name)
func (r *GormCategoryRepository) FindByName(userID uint64, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("user_id = ? AND name = ?", userID, strings.ToLower(name)).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByUser lists a user's categories sorted by name ascending
func (r *GormCategoryRepository) ListByUser(userID uint64) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByIDs returns the subset of the given ids owned by the user
func (r *GormCategoryRepository) FindByIDs(userID uint64, ids []uint64) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}

	var categories []models.Category
	if err := r.db.Where("user_id = ? AND id IN ?", userID, ids).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Update updates a category
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// DeleteWithDetach deletes the category and detaches it from every
// note that references it. Both steps run in one transaction so a
// crash cannot leave notes pointing at a deleted category.
func (r *GormCategoryRepository) DeleteWithDetach(category *models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM note_categories WHERE category_id = ?", category.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Category{}, category.ID).Error
	})
}
