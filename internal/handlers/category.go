package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/dto"
	apierrors "github.com/notesapp/notes-api/internal/errors"
	"github.com/notesapp/notes-api/internal/middleware"
	"github.com/notesapp/notes-api/internal/services"
	"github.com/notesapp/notes-api/internal/utils"
	"go.uber.org/zap"
)

// CategoryHandler coordinates category HTTP handlers.
type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// CreateCategory creates a category for the logged-in user.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCategoryRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "name", "Category name is required")
		return
	}

	category, err := h.categoryService.CreateCategory(services.CreateCategoryInput{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		h.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Category created successfully",
		"category": dto.ToCategoryDTO(*category),
	})
}

// ListCategories returns the user's categories sorted by name.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		h.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": dto.ToCategoryDTOs(categories),
	})
}

// UpdateCategory renames or recolors a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "category", "Invalid category ID")
		return
	}

	type UpdateCategoryRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "body", "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(services.UpdateCategoryInput{
		UserID: userID,
		ID:     categoryID,
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		h.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Category updated successfully",
		"category": dto.ToCategoryDTO(*category),
	})
}

// DeleteCategory deletes a category and detaches it from the user's
// notes. The notes themselves survive.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "category", "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		h.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted successfully and removed from all notes",
	})
}

func (h *CategoryHandler) respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "category", "Category not found")
	case errors.Is(err, services.ErrCategoryNameRequired):
		apierrors.BadRequest(c, "name", "Category name is required")
	case errors.Is(err, services.ErrDuplicateCategory):
		apierrors.BadRequest(c, "name", "Category already exists")
	case errors.Is(err, utils.ErrInvalidColor):
		apierrors.BadRequest(c, "color", "Color must be a valid hex color code")
	default:
		h.logger.Error("category operation failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
