package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureMailer records the reset link instead of sending it.
type captureMailer struct {
	lastEmail string
	lastURL   string
}

func (m *captureMailer) SendPasswordReset(toEmail, username, resetURL string) error {
	m.lastEmail = toEmail
	m.lastURL = resetURL
	return nil
}

type authServiceEnv struct {
	db      *gorm.DB
	service *AuthService
	mailer  *captureMailer
}

func setupAuthService(t *testing.T) authServiceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.PasswordResetToken{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	mailer := &captureMailer{}
	service := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewResetTokenRepository(db),
		mailer,
		"http://localhost:3000",
		zap.NewNop(),
	)

	return authServiceEnv{db: db, service: service, mailer: mailer}
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	env := setupAuthService(t)

	user, err := env.service.Register(RegisterInput{
		Username: "Alice",
		Email:    "Alice@Example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)

	// Email differing only in case collides.
	_, err = env.service.Register(RegisterInput{
		Username: "someoneelse",
		Email:    "ALICE@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	// So does a username differing only in case.
	_, err = env.service.Register(RegisterInput{
		Username: "ALICE",
		Email:    "other@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	env := setupAuthService(t)

	_, err := env.service.Register(RegisterInput{Username: "ab", Email: "a@b.co", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = env.service.Register(RegisterInput{Username: "alice", Email: "not-an-email", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = env.service.Register(RegisterInput{Username: "alice", Email: "a@b.co", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginConstantError(t *testing.T) {
	env := setupAuthService(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Wrong password and unknown identifier must be indistinguishable.
	_, wrongPassword := env.service.Login(LoginInput{Identifier: "alice", Password: "wrong"})
	_, unknownUser := env.service.Login(LoginInput{Identifier: "nobody", Password: "supersecret"})
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	env := setupAuthService(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	byUsername, err := env.service.Login(LoginInput{Identifier: "ALICE", Password: "supersecret"})
	require.NoError(t, err)

	byEmail, err := env.service.Login(LoginInput{Identifier: "Alice@Example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.Equal(t, byUsername.ID, byEmail.ID)
}

func TestChangePassword(t *testing.T) {
	env := setupAuthService(t)

	user, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.ErrorIs(t, env.service.ChangePassword(user.ID, "wrong", "newpassword"), ErrWrongPassword)
	require.ErrorIs(t, env.service.ChangePassword(user.ID, "supersecret", "short"), ErrPasswordTooShort)
	require.NoError(t, env.service.ChangePassword(user.ID, "supersecret", "newpassword"))

	_, err = env.service.Login(LoginInput{Identifier: "alice", Password: "newpassword"})
	require.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	env := setupAuthService(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Unknown email is silently accepted and sends nothing.
	require.NoError(t, env.service.ForgotPassword("nobody@example.com"))
	require.Empty(t, env.mailer.lastURL)

	require.NoError(t, env.service.ForgotPassword("alice@example.com"))
	require.Equal(t, "alice@example.com", env.mailer.lastEmail)
	require.Contains(t, env.mailer.lastURL, "token=")

	tokenValue := env.mailer.lastURL[strings.Index(env.mailer.lastURL, "token=")+len("token="):]

	require.ErrorIs(t, env.service.ResetPassword("bogus", "newpassword"), ErrResetTokenInvalid)
	require.ErrorIs(t, env.service.ResetPassword(tokenValue, "short"), ErrPasswordTooShort)
	require.NoError(t, env.service.ResetPassword(tokenValue, "newpassword"))

	// Single use.
	require.ErrorIs(t, env.service.ResetPassword(tokenValue, "anotherpassword"), ErrResetTokenInvalid)

	_, err = env.service.Login(LoginInput{Identifier: "alice", Password: "newpassword"})
	require.NoError(t, err)
}

// brokenPasswordUserRepo fails every password write.
type brokenPasswordUserRepo struct {
	repository.UserRepository
}

func (r *brokenPasswordUserRepo) UpdatePassword(userID uint64, passwordHash string) error {
	return errors.New("write failed")
}

// The token must be consumed before the password write, so a failure
// in between cannot leave a spent token reusable.
func TestResetPasswordConsumesTokenEvenIfPasswordWriteFails(t *testing.T) {
	env := setupAuthService(t)

	_, err := env.service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.ForgotPassword("alice@example.com"))
	tokenValue := env.mailer.lastURL[strings.Index(env.mailer.lastURL, "token=")+len("token="):]

	broken := NewAuthService(
		&brokenPasswordUserRepo{repository.NewUserRepository(env.db)},
		repository.NewResetTokenRepository(env.db),
		env.mailer,
		"http://localhost:3000",
		zap.NewNop(),
	)
	require.Error(t, broken.ResetPassword(tokenValue, "newpassword"))

	var reset models.PasswordResetToken
	require.NoError(t, env.db.Where("token = ?", tokenValue).First(&reset).Error)
	require.True(t, reset.Used)
}
