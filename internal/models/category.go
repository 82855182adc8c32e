package models

import "time"

// Category is a per-user named tag. Names are stored lowercase and are
// unique per owner, not globally.
type Category struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Color     string    `gorm:"type:varchar(6);not null;default:'ffffff'" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Notes []Note `gorm:"many2many:note_categories" json:"notes,omitempty"`
}
