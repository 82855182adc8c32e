package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/constants"
	"github.com/notesapp/notes-api/internal/dto"
	apierrors "github.com/notesapp/notes-api/internal/errors"
	"github.com/notesapp/notes-api/internal/middleware"
	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/services"
	"github.com/notesapp/notes-api/internal/utils"
	"go.uber.org/zap"
)

// NoteHandler coordinates note HTTP handlers.
type NoteHandler struct {
	noteService *services.NoteService
	logger      *zap.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService *services.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// parseCategoryIDs reads the categories query parameter, accepting
// both repeated parameters and comma-separated values.
func parseCategoryIDs(c *gin.Context) ([]uint64, bool) {
	var ids []uint64
	for _, raw := range c.QueryArray("categories") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

// ListNotes serves the home feed: every note the viewer owns or is
// shared on, filtered, sorted most-recently-updated first, paginated.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	categoryIDs, ok := parseCategoryIDs(c)
	if !ok {
		apierrors.BadRequest(c, "categories", "Invalid category filter")
		return
	}

	params := utils.GetPaginationParams(c)

	notes, total, err := h.noteService.ListNotes(services.ListNotesInput{
		ViewerID:    userID,
		Query:       c.Query("query"),
		Color:       c.Query("color"),
		CategoryIDs: categoryIDs,
		Page:        params.Page,
		Limit:       params.Limit,
	})
	if err != nil {
		h.respondNoteError(c, err)
		return
	}

	totalPages := utils.TotalPages(total, params.Limit)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Notes retrieved successfully",
		"pagination": dto.NewPaginationDTO(params.Page, params.Limit, total, totalPages),
		"notes":      dto.ToNoteDTOs(notes, userID),
	})
}

// CreateNote creates a note owned by the logged-in user.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateNoteRequest struct {
		Title      string   `json:"title" binding:"required"`
		Body       string   `json:"body" binding:"required"`
		Color      string   `json:"color"`
		Categories []uint64 `json:"categories"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "body", "Title and body are required")
		return
	}

	note, err := h.noteService.CreateNote(services.CreateNoteInput{
		UserID:      userID,
		Title:       req.Title,
		Body:        req.Body,
		Color:       req.Color,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		h.respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Note created successfully",
		"note":    dto.ToNoteDTO(*note, userID),
	})
}

// GetNote returns a note. Access was already checked by
// RequireNoteAccess.
func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	note, ok := middleware.GetNote(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"note":    dto.ToNoteDTO(note, userID),
	})
}

// UpdateNote updates a note as owner or edit share.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	note, ok := middleware.GetNote(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	perm, _ := middleware.GetNotePermission(c)

	type UpdateNoteRequest struct {
		Title      *string   `json:"title"`
		Body       *string   `json:"body"`
		Color      *string   `json:"color"`
		Categories *[]uint64 `json:"categories"`
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "body", "Invalid request body")
		return
	}

	updated, err := h.noteService.UpdateNote(&note, perm, services.UpdateNoteInput{
		Title:       req.Title,
		Body:        req.Body,
		Color:       req.Color,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		h.respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Note updated successfully",
		"note":    dto.ToNoteDTO(*updated, userID),
	})
}

// DeleteNote deletes a note. Owner only.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	note, ok := middleware.GetNote(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	perm, _ := middleware.GetNotePermission(c)

	if err := h.noteService.DeleteNote(&note, perm); err != nil {
		h.respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Note deleted successfully",
	})
}

// ShareNote adds a share or updates its permission. Owner only.
func (h *NoteHandler) ShareNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	note, ok := middleware.GetNote(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	perm, _ := middleware.GetNotePermission(c)

	type ShareRequest struct {
		User       string `json:"user" binding:"required"`
		Permission string `json:"permission"`
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "user", "Username or email is required")
		return
	}

	permission := models.Permission(req.Permission)
	if req.Permission == "" {
		permission = models.PermissionView
	}

	updated, err := h.noteService.ShareNote(&note, perm, req.User, permission)
	if err != nil {
		h.respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Note shared successfully",
		"note":    dto.ToNoteDTO(*updated, userID),
	})
}

// UnshareNote revokes a user's access. Owner only.
func (h *NoteHandler) UnshareNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	note, ok := middleware.GetNote(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	perm, _ := middleware.GetNotePermission(c)

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "user", "Invalid user ID")
		return
	}

	updated, err := h.noteService.UnshareNote(&note, perm, targetID)
	if err != nil {
		h.respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Share removed successfully",
		"note":    dto.ToNoteDTO(*updated, userID),
	})
}

// UploadAttachment stores a multipart file on a note. Owner or edit
// share; capped at 1 MiB.
func (h *NoteHandler) UploadAttachment(c *gin.Context) {
	note, ok := middleware.GetNote(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	perm, _ := middleware.GetNotePermission(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file", "A file is required")
		return
	}
	if fileHeader.Size > constants.MaxAttachmentSize {
		apierrors.BadRequest(c, "file", "Attachment exceeds the 1 MiB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", zap.Error(err))
		apierrors.InternalError(c, "Error storing attachment")
		return
	}
	defer file.Close()

	// Read one byte past the cap so an understated header size is
	// still caught.
	data, err := io.ReadAll(io.LimitReader(file, constants.MaxAttachmentSize+1))
	if err != nil {
		h.logger.Error("failed to read uploaded file", zap.Error(err))
		apierrors.InternalError(c, "Error storing attachment")
		return
	}
	if len(data) > constants.MaxAttachmentSize {
		apierrors.BadRequest(c, "file", "Attachment exceeds the 1 MiB limit")
		return
	}

	attachment, err := h.noteService.AddAttachment(&note, perm, services.AttachmentUpload{
		OriginalName: fileHeader.Filename,
		Data:         data,
	})
	if err != nil {
		h.respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Attachment uploaded successfully",
		"attachment": dto.AttachmentDTO{
			ID:           attachment.ID,
			Filename:     attachment.Filename,
			OriginalName: attachment.OriginalName,
			MimeType:     attachment.MimeType,
			Size:         attachment.Size,
			URL:          "/uploads/" + attachment.Filename,
		},
	})
}

// DeleteAttachment removes an attachment. Owner or edit share.
func (h *NoteHandler) DeleteAttachment(c *gin.Context) {
	note, ok := middleware.GetNote(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}
	perm, _ := middleware.GetNotePermission(c)

	attachmentID, err := strconv.ParseUint(c.Param("attachmentId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "attachment", "Invalid attachment ID")
		return
	}

	if err := h.noteService.RemoveAttachment(&note, perm, attachmentID); err != nil {
		h.respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Attachment deleted successfully",
	})
}

func (h *NoteHandler) respondNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		apierrors.NotFound(c, "note", "Note not found")
	case errors.Is(err, services.ErrNoteAccessDenied):
		apierrors.Forbidden(c, "note", "You do not have permission to do that")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "title", "Title is required")
	case errors.Is(err, services.ErrBodyRequired):
		apierrors.BadRequest(c, "body", "Body is required")
	case errors.Is(err, services.ErrUnknownCategory):
		apierrors.BadRequest(c, "categories", "One or more categories do not exist")
	case errors.Is(err, utils.ErrInvalidColor):
		apierrors.BadRequest(c, "color", "Color must be a valid hex color code")
	case errors.Is(err, services.ErrInvalidPermission):
		apierrors.BadRequest(c, "permission", "Permission must be view or edit")
	case errors.Is(err, services.ErrShareTargetNotFound):
		apierrors.NotFound(c, "user", "User not found")
	case errors.Is(err, services.ErrCannotShareWithSelf):
		apierrors.BadRequest(c, "user", "Cannot share a note with yourself")
	case errors.Is(err, services.ErrShareNotFound):
		apierrors.NotFound(c, "user", "Share not found")
	case errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, "attachment", "Attachment not found")
	case errors.Is(err, services.ErrAttachmentTooLarge):
		apierrors.BadRequest(c, "file", "Attachment exceeds the 1 MiB limit")
	case errors.Is(err, services.ErrAttachmentEmpty):
		apierrors.BadRequest(c, "file", "Attachment is empty")
	default:
		h.logger.Error("note operation failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
