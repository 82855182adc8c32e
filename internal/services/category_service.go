package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/repository"
	"github.com/notesapp/notes-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrDuplicateCategory    = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	UserID uint64
	Name   string
	Color  string
}

// CreateCategory creates a category. The name is lowercased before the
// per-user uniqueness check, so "Work" and "work" are one entity.
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	color, err := utils.NormalizeColor(input.Color)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByName(input.UserID, name); err == nil {
		return nil, ErrDuplicateCategory
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	category := &models.Category{
		UserID: input.UserID,
		Name:   name,
		Color:  color,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ListCategories returns the user's categories sorted by name ascending.
func (s *CategoryService) ListCategories(userID uint64) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategoryInput represents input for updating a category. Nil
// fields stay unchanged.
type UpdateCategoryInput struct {
	UserID uint64
	ID     uint64
	Name   *string
	Color  *string
}

// UpdateCategory renames or recolors a category. Ownership is part of
// the lookup: a foreign id reads as not found.
func (s *CategoryService) UpdateCategory(input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(input.UserID, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if input.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*input.Name))
		if name == "" {
			return nil, ErrCategoryNameRequired
		}

		if name != category.Name {
			// Uniqueness re-check, excluding the category being updated.
			if existing, err := s.categoryRepo.FindByName(input.UserID, name); err == nil && existing.ID != category.ID {
				return nil, ErrDuplicateCategory
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check category name: %w", err)
			}
			category.Name = name
		}
	}

	if input.Color != nil {
		color, err := utils.NormalizeColor(*input.Color)
		if err != nil {
			return nil, err
		}
		category.Color = color
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory deletes a category and detaches it from every note
// that references it. The notes themselves are untouched.
func (s *CategoryService) DeleteCategory(userID, id uint64) error {
	category, err := s.categoryRepo.FindByID(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to find category: %w", err)
	}

	if err := s.categoryRepo.DeleteWithDetach(category); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
