package models

import "time"

// Attachment is a file uploaded to a note. Filename is the
// server-generated storage name; OriginalName is what the client sent.
type Attachment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	NoteID       uint64    `gorm:"not null;index" json:"note_id"`
	Filename     string    `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	MimeType     string    `gorm:"type:varchar(255);not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	Path         string    `gorm:"type:varchar(512);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
