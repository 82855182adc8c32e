package models

import "time"

// Permission is the access level an actor holds on a note.
type Permission string

const (
	PermissionOwner Permission = "owner"
	PermissionEdit  Permission = "edit"
	PermissionView  Permission = "view"
	PermissionNone  Permission = "none"
)

// CanRead reports whether the level allows fetching the note.
func (p Permission) CanRead() bool {
	return p == PermissionOwner || p == PermissionEdit || p == PermissionView
}

// CanWrite reports whether the level allows mutating the note's content.
func (p Permission) CanWrite() bool {
	return p == PermissionOwner || p == PermissionEdit
}

// Note is a note document. Color is a hex color stored lowercase
// without the leading "#".
type Note struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Color     string    `gorm:"type:varchar(6);not null;default:'ffffff'" json:"color"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Author      User         `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Categories  []Category   `gorm:"many2many:note_categories" json:"categories,omitempty"`
	Shares      []NoteShare  `gorm:"foreignKey:NoteID" json:"shares,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:NoteID" json:"attachments,omitempty"`
}

// PermissionFor is the sharing policy: it resolves the access level of
// an actor on this note from the owner reference and the loaded share
// list. Callers answering "none" must respond not-found, never
// forbidden, so non-shared users cannot probe for note existence.
func (n *Note) PermissionFor(userID uint64) Permission {
	if n.UserID == userID {
		return PermissionOwner
	}
	for _, share := range n.Shares {
		if share.UserID == userID {
			return share.Permission
		}
	}
	return PermissionNone
}
