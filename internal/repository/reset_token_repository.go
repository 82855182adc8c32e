package repository

import (
	"github.com/notesapp/notes-api/internal/models"
	"gorm.io/gorm"
)

// GormResetTokenRepository is a GORM implementation of ResetTokenRepository
type GormResetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &GormResetTokenRepository{db: db}
}

// Create stores a new reset token
func (r *GormResetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

// FindByToken finds a reset token by its value
func (r *GormResetTokenRepository) FindByToken(token string) (*models.PasswordResetToken, error) {
	var reset models.PasswordResetToken
	if err := r.db.Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// MarkUsed flags a token as consumed
func (r *GormResetTokenRepository) MarkUsed(token *models.PasswordResetToken) error {
	return r.db.Model(token).Update("used", true).Error
}
