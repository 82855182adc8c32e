package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/database"
	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/token"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func authTestRouter(tokens *token.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestRequireAuth_Cookie(t *testing.T) {
	tokens := token.NewManager("test-secret")
	r := authTestRouter(tokens)

	tokenString, err := tokens.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tokenString})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "42")
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	tokens := token.NewManager("test-secret")
	r := authTestRouter(tokens)

	tokenString, err := tokens.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens := token.NewManager("test-secret")
	r := authTestRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	tokens := token.NewManager("test-secret")
	r := authTestRouter(tokens)

	forged, err := token.NewManager("other-secret").Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: forged})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func noteAccessTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Note{},
		&models.NoteShare{},
		&models.Attachment{},
	))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	r := gin.New()
	// Viewer identity comes from a header so each request can pick one.
	r.GET("/notes/:id",
		func(c *gin.Context) {
			userID, _ := strconv.ParseUint(c.GetHeader("X-Test-User"), 10, 64)
			c.Set("user_id", userID)
		},
		RequireNoteAccess(),
		func(c *gin.Context) {
			note, _ := GetNote(c)
			perm, _ := GetNotePermission(c)
			c.JSON(http.StatusOK, gin.H{"id": note.ID, "permission": perm})
		})
	return r, db
}

func getNoteAs(r *gin.Engine, noteID, userHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/notes/"+noteID, nil)
	req.Header.Set("X-Test-User", userHeader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireNoteAccess_ResolvesPermission(t *testing.T) {
	r, db := noteAccessTestRouter(t)

	db.Create(&models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"})
	db.Create(&models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"})
	db.Create(&models.Note{Title: "shared", Body: "text", Color: "ffffff", UserID: 1})
	db.Create(&models.NoteShare{NoteID: 1, UserID: 2, Permission: models.PermissionEdit})

	owner := getNoteAs(r, "1", "1")
	require.Equal(t, http.StatusOK, owner.Code)
	require.Contains(t, owner.Body.String(), `"permission":"owner"`)

	editor := getNoteAs(r, "1", "2")
	require.Equal(t, http.StatusOK, editor.Code)
	require.Contains(t, editor.Body.String(), `"permission":"edit"`)
}

func TestRequireNoteAccess_HidesExistence(t *testing.T) {
	r, db := noteAccessTestRouter(t)

	db.Create(&models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"})
	db.Create(&models.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"})
	db.Create(&models.Note{Title: "private", Body: "text", Color: "ffffff", UserID: 1})

	// A note the viewer has no access to and a note that does not
	// exist answer the same way.
	hidden := getNoteAs(r, "1", "2")
	missing := getNoteAs(r, "99", "2")

	require.Equal(t, http.StatusNotFound, hidden.Code)
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.JSONEq(t, missing.Body.String(), hidden.Body.String())
}

func TestRequireNoteAccess_InvalidID(t *testing.T) {
	r, _ := noteAccessTestRouter(t)

	w := getNoteAs(r, "abc", "1")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit_TripsAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(1, 3), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	var lastCode int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		lastCode = w.Code
		if i < 3 {
			require.Equal(t, http.StatusOK, w.Code)
		}
	}
	require.Equal(t, http.StatusTooManyRequests, lastCode)
}
