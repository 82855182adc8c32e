package dto

import (
	"time"

	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/utils"
)

// ShareDTO represents one entry of a note's share list
type ShareDTO struct {
	User       UserDTO           `json:"user"`
	Permission models.Permission `json:"permission"`
}

// AttachmentDTO represents an attachment in API responses. URL points
// into the static /uploads mount.
type AttachmentDTO struct {
	ID           uint64 `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// NoteDTO represents a note in API responses, annotated with the
// viewer's relationship to it.
type NoteDTO struct {
	ID             uint64            `json:"id"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Color          string            `json:"color"`
	Categories     []CategoryDTO     `json:"categories"`
	Attachments    []AttachmentDTO   `json:"attachments"`
	Author         UserDTO           `json:"author"`
	SharedWith     []ShareDTO        `json:"sharedWith"`
	IsOwner        bool              `json:"isOwner"`
	UserPermission models.Permission `json:"userPermission"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// PaginationDTO is the pagination metadata block of list responses
type PaginationDTO struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalNotes  int64 `json:"totalNotes"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPaginationDTO builds pagination metadata from a total count.
func NewPaginationDTO(page, limit int, total int64, totalPages int) PaginationDTO {
	return PaginationDTO{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalNotes:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// ToNoteDTO converts a Note model to NoteDTO from the viewer's point
// of view. The viewer has already passed the visibility check, so
// UserPermission is owner, edit or view here; "none" stays defined for
// completeness but is unreachable through the API.
func ToNoteDTO(note models.Note, viewerID uint64) NoteDTO {
	shares := make([]ShareDTO, len(note.Shares))
	for i, share := range note.Shares {
		shares[i] = ShareDTO{
			User:       ToUserDTO(share.User),
			Permission: share.Permission,
		}
	}

	attachments := make([]AttachmentDTO, len(note.Attachments))
	for i, attachment := range note.Attachments {
		attachments[i] = AttachmentDTO{
			ID:           attachment.ID,
			Filename:     attachment.Filename,
			OriginalName: attachment.OriginalName,
			MimeType:     attachment.MimeType,
			Size:         attachment.Size,
			URL:          "/uploads/" + attachment.Filename,
		}
	}

	return NoteDTO{
		ID:             note.ID,
		Title:          note.Title,
		Body:           note.Body,
		Color:          utils.RenderColor(note.Color),
		Categories:     ToCategoryDTOs(note.Categories),
		Attachments:    attachments,
		Author:         ToUserDTO(note.Author),
		SharedWith:     shares,
		IsOwner:        note.UserID == viewerID,
		UserPermission: note.PermissionFor(viewerID),
		CreatedAt:      note.CreatedAt,
		UpdatedAt:      note.UpdatedAt,
	}
}

// ToNoteDTOs converts a slice of notes for a viewer
func ToNoteDTOs(notes []models.Note, viewerID uint64) []NoteDTO {
	dtos := make([]NoteDTO, len(notes))
	for i, note := range notes {
		dtos[i] = ToNoteDTO(note, viewerID)
	}
	return dtos
}
