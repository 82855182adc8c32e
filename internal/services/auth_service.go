package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/notesapp/notes-api/internal/constants"
	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/repository"
	"github.com/notesapp/notes-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already taken")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidUsername      = errors.New("username must be 3-30 characters of letters, numbers and underscores")
	ErrInvalidEmail         = errors.New("please enter a valid email")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid email/username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrResetTokenInvalid    = errors.New("reset token is invalid or already used")
	ErrResetTokenExpired    = errors.New("reset token has expired")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

const resetTokenLifetime = time.Hour

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// AuthService handles registration, login and the password flows.
type AuthService struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	mailer    Mailer
	baseURL   string
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository, mailer Mailer, baseURL string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user. Username and email are normalized to
// lowercase before the uniqueness checks, so collisions are
// case-insensitive.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication. Identifier may
// be a username or an email.
type LoginInput struct {
	Identifier string
	Password   string
}

// Login verifies credentials and returns the authenticated user. Both
// an unknown identifier and a wrong password answer the same error so
// callers cannot probe for registered accounts.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByIdentifier(strings.TrimSpace(input.Identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ChangePassword rehashes after verifying the current password.
func (s *AuthService) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// ForgotPassword stores a single-use reset token and mails the reset
// link. An unknown email is not an error: the endpoint must answer the
// same either way.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	tokenValue, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	reset := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     tokenValue,
		ExpiresAt: time.Now().Add(resetTokenLifetime),
	}
	if err := s.resetRepo.Create(reset); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, tokenValue)
	if err := s.mailer.SendPasswordReset(user.Email, user.Username, resetURL); err != nil {
		// The token is already stored; a mail failure should not leak
		// account existence through the response either.
		s.logger.Error("failed to send password reset mail", zap.Error(err), zap.Uint64("user_id", user.ID))
	}

	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(tokenValue, newPassword string) error {
	reset, err := s.resetRepo.FindByToken(tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to find reset token: %w", err)
	}

	if reset.Used {
		return ErrResetTokenInvalid
	}
	if time.Now().After(reset.ExpiresAt) {
		return ErrResetTokenExpired
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	// The token is consumed before the password is written: a failure
	// between the two wastes the token, it never extends it.
	if err := s.resetRepo.MarkUsed(reset); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}

	if err := s.userRepo.UpdatePassword(reset.UserID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
