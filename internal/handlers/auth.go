package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/constants"
	"github.com/notesapp/notes-api/internal/dto"
	apierrors "github.com/notesapp/notes-api/internal/errors"
	"github.com/notesapp/notes-api/internal/middleware"
	"github.com/notesapp/notes-api/internal/services"
	"github.com/notesapp/notes-api/internal/token"
	"go.uber.org/zap"
)

const sessionCookieMaxAge = int(token.Lifetime / time.Second)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *token.Manager
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *token.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		logger:      logger,
	}
}

// setSessionCookie delivers the token as an http-only cookie. It is
// also returned in the body for non-cookie clients.
func (h *AuthHandler) setSessionCookie(c *gin.Context, tokenString string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, tokenString, sessionCookieMaxAge, "/", "", false, true)
}

// Register creates a new account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "body", "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	tokenString, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		apierrors.InternalError(c, "Error registering user")
		return
	}
	h.setSessionCookie(c, tokenString)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"token":   tokenString,
		"user":    dto.ToUserDTO(*user),
	})
}

// Login authenticates a user. The "email" field carries an email or a
// username.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "body", "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Identifier: req.Email,
		Password:   req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	tokenString, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		apierrors.InternalError(c, "Error logging in")
		return
	}
	h.setSessionCookie(c, tokenString)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   tokenString,
		"user":    dto.ToUserDTO(*user),
	})
}

// Logout invalidates the session cookie client-side by overwriting it
// with an already-expired one. The token itself stays valid until its
// expiry; that is the stateless-token trade-off.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.ToUserDTO(*user),
	})
}

// ChangePassword updates the password of the logged-in user.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangePasswordRequest struct {
		OldPassword     string `json:"oldPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "body", "Invalid request body")
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		apierrors.BadRequest(c, "confirmPassword", "Passwords do not match")
		return
	}

	if err := h.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}

// ForgotPassword starts the reset flow. The response is the same
// whether the email is registered or not.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "email", "Email is required")
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		h.logger.Error("forgot-password flow failed", zap.Error(err))
		apierrors.InternalError(c, "Error processing request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If an account exists with this email, you will receive password reset instructions",
	})
}

// ResetPassword consumes a mailed reset token and sets a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "body", "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password has been reset, you can now log in",
	})
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidUsername):
		apierrors.BadRequest(c, "username", "Username must be between 3 and 30 characters of letters, numbers and underscores")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.BadRequest(c, "username", "Username already taken")
	case errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, "email", "Please enter a valid email")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequest(c, "email", "Email already registered")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, "password", "Password must be at least 6 characters long")
	case errors.Is(err, services.ErrInvalidCredentials):
		// Same wording for unknown identifier and wrong password.
		apierrors.BadRequest(c, "email", "Invalid email/username or password")
	case errors.Is(err, services.ErrWrongPassword):
		apierrors.BadRequest(c, "oldPassword", "Current password is incorrect")
	case errors.Is(err, services.ErrResetTokenInvalid):
		apierrors.BadRequest(c, "token", "Reset link is invalid or already used")
	case errors.Is(err, services.ErrResetTokenExpired):
		apierrors.BadRequest(c, "token", "Reset link has expired")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "user", "User not found")
	default:
		h.logger.Error("auth operation failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
