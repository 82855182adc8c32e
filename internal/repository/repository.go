package repository

import (
	"github.com/notesapp/notes-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by exact (lowercase) username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by exact (lowercase) email
	FindByEmail(email string) (*models.User, error)

	// FindByIdentifier finds a user whose username or email matches the
	// lowercased identifier
	FindByIdentifier(identifier string) (*models.User, error)

	// UpdatePassword replaces the stored password hash
	UpdatePassword(userID uint64, passwordHash string) error
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(category *models.Category) error

	// FindByID finds a category owned by the given user
	FindByID(userID, id uint64) (*models.Category, error)

	// FindByName finds a category by (owner, lowercase name)
	FindByName(userID uint64, name string) (*models.Category, error)

	// ListByUser lists a user's categories sorted by name ascending
	ListByUser(userID uint64) ([]models.Category, error)

	// FindByIDs returns the subset of the given ids owned by the user
	FindByIDs(userID uint64, ids []uint64) ([]models.Category, error)

	// Update updates a category
	Update(category *models.Category) error

	// DeleteWithDetach deletes a category and removes it from every
	// note that references it, in one transaction
	DeleteWithDetach(category *models.Category) error
}

// NoteFilter holds filtering options for listing notes
type NoteFilter struct {
	// ViewerID scopes the listing to notes the viewer owns or is
	// shared on. Required.
	ViewerID uint64

	// Query is a case-insensitive substring matched against title or body
	Query string

	// Color is an exact match against the normalized stored color
	Color string

	// CategoryIDs requires the note to carry every listed category
	CategoryIDs []uint64

	Page  int
	Limit int
}

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	// Create creates a new note with its category associations
	Create(note *models.Note) error

	// FindByID finds a note by ID with author, categories, shares and
	// attachments loaded
	FindByID(id uint64) (*models.Note, error)

	// List retrieves visible notes most-recently-updated first,
	// with the total count before pagination
	List(filter NoteFilter) ([]models.Note, int64, error)

	// Update persists changed note fields
	Update(note *models.Note) error

	// ReplaceCategories swaps the note's category set
	ReplaceCategories(note *models.Note, categories []models.Category) error

	// Delete removes the note with its shares, attachments and
	// category links
	Delete(note *models.Note) error

	// UpsertShare creates a share or updates the permission of an
	// existing one
	UpsertShare(share *models.NoteShare) error

	// DeleteShare removes a share
	DeleteShare(noteID, userID uint64) error

	// AddAttachment appends an attachment row
	AddAttachment(attachment *models.Attachment) error

	// FindAttachment finds an attachment belonging to the note
	FindAttachment(noteID, attachmentID uint64) (*models.Attachment, error)

	// DeleteAttachment removes an attachment row
	DeleteAttachment(attachment *models.Attachment) error
}

// ResetTokenRepository defines the interface for password reset token data access
type ResetTokenRepository interface {
	// Create stores a new reset token
	Create(token *models.PasswordResetToken) error

	// FindByToken finds a reset token by its value
	FindByToken(token string) (*models.PasswordResetToken, error)

	// MarkUsed flags a token as consumed
	MarkUsed(token *models.PasswordResetToken) error
}
