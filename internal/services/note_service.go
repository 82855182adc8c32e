package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/notesapp/notes-api/internal/constants"
	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/repository"
	"github.com/notesapp/notes-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNoteNotFound        = errors.New("note not found")
	ErrNoteAccessDenied    = errors.New("you do not have permission to modify this note")
	ErrTitleRequired       = errors.New("title is required")
	ErrBodyRequired        = errors.New("body is required")
	ErrUnknownCategory     = errors.New("one or more categories do not exist")
	ErrInvalidPermission   = errors.New("permission must be view or edit")
	ErrShareTargetNotFound = errors.New("user not found")
	ErrCannotShareWithSelf = errors.New("cannot share a note with yourself")
	ErrShareNotFound       = errors.New("share not found")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrAttachmentTooLarge  = errors.New("attachment exceeds the 1 MiB limit")
	ErrAttachmentEmpty     = errors.New("attachment is empty")
)

// NoteService handles note business logic
type NoteService struct {
	noteRepo     repository.NoteRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	uploadDir    string
	logger       *zap.Logger
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo repository.NoteRepository, categoryRepo repository.CategoryRepository, userRepo repository.UserRepository, uploadDir string, logger *zap.Logger) *NoteService {
	return &NoteService{
		noteRepo:     noteRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

// resolveCategories maps requested category ids to categories owned by
// the note's owner. Any id that does not resolve is rejected, so a
// note can never reference another user's category.
func (s *NoteService) resolveCategories(ownerID uint64, categoryIDs []uint64) ([]models.Category, error) {
	categories, err := s.categoryRepo.FindByIDs(ownerID, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	if len(categories) != len(dedupe(categoryIDs)) {
		return nil, ErrUnknownCategory
	}
	return categories, nil
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CreateNoteInput represents input for creating a note
type CreateNoteInput struct {
	UserID      uint64
	Title       string
	Body        string
	Color       string
	CategoryIDs []uint64
}

// CreateNote creates a note for its owner.
func (s *NoteService) CreateNote(input CreateNoteInput) (*models.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrBodyRequired
	}

	color, err := utils.NormalizeColor(input.Color)
	if err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(input.UserID, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		Title:      title,
		Body:       input.Body,
		Color:      color,
		UserID:     input.UserID,
		Categories: categories,
	}

	if err := s.noteRepo.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return s.GetNote(input.UserID, note.ID)
}

// GetNote loads a note and enforces visibility. A note the viewer has
// no access to reads as not found.
func (s *NoteService) GetNote(viewerID, noteID uint64) (*models.Note, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	if !note.PermissionFor(viewerID).CanRead() {
		return nil, ErrNoteNotFound
	}

	return note, nil
}

// ListNotesInput represents filters for the note feed
type ListNotesInput struct {
	ViewerID    uint64
	Query       string
	Color       string
	CategoryIDs []uint64
	Page        int
	Limit       int
}

// ListNotes returns the viewer's feed page plus the total match count.
// The color filter is normalized the same way stored colors are, so
// "#AABBCC" matches a note created with "aabbcc".
func (s *NoteService) ListNotes(input ListNotesInput) ([]models.Note, int64, error) {
	filter := repository.NoteFilter{
		ViewerID:    input.ViewerID,
		Query:       input.Query,
		CategoryIDs: input.CategoryIDs,
		Page:        input.Page,
		Limit:       input.Limit,
	}

	if input.Color != "" {
		color, err := utils.NormalizeColor(input.Color)
		if err != nil {
			return nil, 0, err
		}
		filter.Color = color
	}

	notes, total, err := s.noteRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, total, nil
}

// UpdateNoteInput represents input for updating a note. Nil fields
// stay unchanged.
type UpdateNoteInput struct {
	Title       *string
	Body        *string
	Color       *string
	CategoryIDs *[]uint64
}

// UpdateNote mutates a note on behalf of the owner or an edit share.
// Categories are owner-only: they reference the owner's category set,
// which an edit share cannot see or manage.
func (s *NoteService) UpdateNote(note *models.Note, perm models.Permission, input UpdateNoteInput) (*models.Note, error) {
	if !perm.CanWrite() {
		return nil, ErrNoteAccessDenied
	}
	if input.CategoryIDs != nil && perm != models.PermissionOwner {
		return nil, ErrNoteAccessDenied
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		note.Title = title
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, ErrBodyRequired
		}
		note.Body = *input.Body
	}
	if input.Color != nil {
		color, err := utils.NormalizeColor(*input.Color)
		if err != nil {
			return nil, err
		}
		note.Color = color
	}

	// Everything is validated before anything is written, so a
	// rejected category id cannot leave a half-applied update behind.
	var categories []models.Category
	if input.CategoryIDs != nil {
		var err error
		categories, err = s.resolveCategories(note.UserID, *input.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.noteRepo.Update(note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	if input.CategoryIDs != nil {
		if err := s.noteRepo.ReplaceCategories(note, categories); err != nil {
			return nil, fmt.Errorf("failed to replace categories: %w", err)
		}
	}

	updated, err := s.noteRepo.FindByID(note.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload note: %w", err)
	}
	return updated, nil
}

// DeleteNote removes a note. Owner only: an edit share may change
// content but not destroy it.
func (s *NoteService) DeleteNote(note *models.Note, perm models.Permission) error {
	if perm != models.PermissionOwner {
		return ErrNoteAccessDenied
	}

	if err := s.noteRepo.Delete(note); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	// Stored files go after the rows; a leftover file is harmless,
	// a dangling row is not.
	for _, attachment := range note.Attachments {
		if err := os.Remove(attachment.Path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove attachment file",
				zap.String("path", attachment.Path), zap.Error(err))
		}
	}

	return nil
}

// ShareNote grants a user access to a note, or updates the permission
// of an existing share. Owner only.
func (s *NoteService) ShareNote(note *models.Note, perm models.Permission, identifier string, permission models.Permission) (*models.Note, error) {
	if perm != models.PermissionOwner {
		return nil, ErrNoteAccessDenied
	}
	if permission != models.PermissionView && permission != models.PermissionEdit {
		return nil, ErrInvalidPermission
	}

	target, err := s.userRepo.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareTargetNotFound
		}
		return nil, fmt.Errorf("failed to find share target: %w", err)
	}

	if target.ID == note.UserID {
		return nil, ErrCannotShareWithSelf
	}

	share := &models.NoteShare{
		NoteID:     note.ID,
		UserID:     target.ID,
		Permission: permission,
	}
	if err := s.noteRepo.UpsertShare(share); err != nil {
		return nil, fmt.Errorf("failed to share note: %w", err)
	}

	updated, err := s.noteRepo.FindByID(note.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload note: %w", err)
	}
	return updated, nil
}

// UnshareNote revokes a user's access to a note. Owner only.
func (s *NoteService) UnshareNote(note *models.Note, perm models.Permission, targetUserID uint64) (*models.Note, error) {
	if perm != models.PermissionOwner {
		return nil, ErrNoteAccessDenied
	}

	if note.PermissionFor(targetUserID) == models.PermissionNone || targetUserID == note.UserID {
		return nil, ErrShareNotFound
	}

	if err := s.noteRepo.DeleteShare(note.ID, targetUserID); err != nil {
		return nil, fmt.Errorf("failed to unshare note: %w", err)
	}

	updated, err := s.noteRepo.FindByID(note.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload note: %w", err)
	}
	return updated, nil
}

// AttachmentUpload carries an uploaded file through to storage.
type AttachmentUpload struct {
	OriginalName string
	Data         []byte
}

// AddAttachment stores an uploaded file under a generated name and
// records it on the note. Owner or edit share. The MIME type is
// sniffed from the content, not taken from the client.
func (s *NoteService) AddAttachment(note *models.Note, perm models.Permission, upload AttachmentUpload) (*models.Attachment, error) {
	if !perm.CanWrite() {
		return nil, ErrNoteAccessDenied
	}
	if len(upload.Data) == 0 {
		return nil, ErrAttachmentEmpty
	}
	if len(upload.Data) > constants.MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	filename := uuid.New().String() + filepath.Ext(upload.OriginalName)
	path := filepath.Join(s.uploadDir, filename)
	if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	attachment := &models.Attachment{
		NoteID:       note.ID,
		Filename:     filename,
		OriginalName: filepath.Base(upload.OriginalName),
		MimeType:     mimetype.Detect(upload.Data).String(),
		Size:         int64(len(upload.Data)),
		Path:         path,
	}

	if err := s.noteRepo.AddAttachment(attachment); err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			s.logger.Warn("failed to remove orphaned attachment file",
				zap.String("path", path), zap.Error(removeErr))
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	return attachment, nil
}

// RemoveAttachment deletes an attachment row and its stored file.
// Owner or edit share.
func (s *NoteService) RemoveAttachment(note *models.Note, perm models.Permission, attachmentID uint64) error {
	if !perm.CanWrite() {
		return ErrNoteAccessDenied
	}

	attachment, err := s.noteRepo.FindAttachment(note.ID, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to find attachment: %w", err)
	}

	if err := s.noteRepo.DeleteAttachment(attachment); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	if err := os.Remove(attachment.Path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove attachment file",
			zap.String("path", attachment.Path), zap.Error(err))
	}

	return nil
}
