package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/config"
	"github.com/notesapp/notes-api/internal/database"
	"github.com/notesapp/notes-api/internal/handlers"
	"github.com/notesapp/notes-api/internal/logger"
	"github.com/notesapp/notes-api/internal/middleware"
	"github.com/notesapp/notes-api/internal/repository"
	"github.com/notesapp/notes-api/internal/services"
	"github.com/notesapp/notes-api/internal/token"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Initialize structured logging
	zapLogger, err := logger.New(cfg.GinMode != "release")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Session tokens
	tokens := token.NewManager(cfg.JWTSecret)

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	resetRepo := repository.NewResetTokenRepository(db)

	// Reset mail goes through SendGrid when configured and the log
	// otherwise, so development works without an API key.
	var mailer services.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		mailer = services.NewLogMailer(zapLogger)
	}

	// Services
	authService := services.NewAuthService(userRepo, resetRepo, mailer, cfg.AppBaseURL, zapLogger)
	categoryService := services.NewCategoryService(categoryRepo)
	noteService := services.NewNoteService(noteRepo, categoryRepo, userRepo, cfg.UploadDir, zapLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokens, zapLogger)
	categoryHandler := handlers.NewCategoryHandler(categoryService, zapLogger)
	noteHandler := handlers.NewNoteHandler(noteService, zapLogger)

	// Initialize Gin router
	r := gin.Default()

	// Uploaded files are public static assets once stored.
	r.Static("/uploads", cfg.UploadDir)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Notes API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			credentialLimit := middleware.RateLimit(10, 10)
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", credentialLimit, authHandler.Login)
			auth.POST("/logout", middleware.RequireAuth(tokens), authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(tokens), authHandler.Me)
			auth.POST("/reset-password", middleware.RequireAuth(tokens), authHandler.ChangePassword)
			auth.POST("/forgot-password", credentialLimit, authHandler.ForgotPassword)
			auth.POST("/reset-password/confirm", authHandler.ResetPassword)
		}

		// Home feed
		api.GET("/", middleware.RequireAuth(tokens), noteHandler.ListNotes)

		// Note routes (protected)
		notes := api.Group("/notes")
		notes.Use(middleware.RequireAuth(tokens))
		{
			notes.GET("", noteHandler.ListNotes)
			notes.POST("", noteHandler.CreateNote)
			notes.GET("/:id", middleware.RequireNoteAccess(), noteHandler.GetNote)
			notes.PUT("/:id", middleware.RequireNoteAccess(), noteHandler.UpdateNote)
			notes.DELETE("/:id", middleware.RequireNoteAccess(), noteHandler.DeleteNote)
			notes.POST("/:id/share", middleware.RequireNoteAccess(), noteHandler.ShareNote)
			notes.DELETE("/:id/share/:userId", middleware.RequireNoteAccess(), noteHandler.UnshareNote)
			notes.POST("/:id/attachments", middleware.RequireNoteAccess(), noteHandler.UploadAttachment)
			notes.DELETE("/:id/attachments/:attachmentId", middleware.RequireNoteAccess(), noteHandler.DeleteAttachment)
		}

		// Category routes (protected)
		categories := api.Group("/categories")
		categories.Use(middleware.RequireAuth(tokens))
		{
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("", categoryHandler.ListCategories)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}

	// Start server
	zapLogger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}
