package models

import "time"

// NoteShare grants a non-owner user access to a note. Permission is
// restricted to PermissionView or PermissionEdit; owner access is
// implied by Note.UserID and never stored as a share.
type NoteShare struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	NoteID     uint64     `gorm:"not null;uniqueIndex:idx_note_shares_note_user" json:"note_id"`
	UserID     uint64     `gorm:"not null;uniqueIndex:idx_note_shares_note_user" json:"user_id"`
	Permission Permission `gorm:"type:varchar(10);not null;default:'view'" json:"permission"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relations
	Note Note `gorm:"foreignKey:NoteID" json:"note,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
