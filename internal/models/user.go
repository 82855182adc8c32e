package models

import "time"

// User is an account holder. Username and email are stored lowercase
// so uniqueness is case-insensitive.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Notes      []Note      `gorm:"foreignKey:UserID" json:"-"`
	Categories []Category  `gorm:"foreignKey:UserID" json:"-"`
	Shares     []NoteShare `gorm:"foreignKey:UserID" json:"-"`
}
