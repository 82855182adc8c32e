package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/database"
	"github.com/notesapp/notes-api/internal/models"
	"github.com/notesapp/notes-api/internal/repository"
	"github.com/notesapp/notes-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CategoryHandlerTestSuite defines the test suite for CategoryHandler
type CategoryHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CategoryHandler
}

// SetupTest runs before each test
func (suite *CategoryHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Note{},
		&models.NoteShare{},
		&models.Attachment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	categoryService := services.NewCategoryService(repository.NewCategoryRepository(suite.db))
	suite.handler = NewCategoryHandler(categoryService, zap.NewNop())

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CategoryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CategoryHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *CategoryHandlerTestSuite) createTestCategory(userID uint64, name string) *models.Category {
	category := &models.Category{
		UserID: userID,
		Name:   name,
		Color:  "ffffff",
	}
	suite.db.Create(category)
	return category
}

func (suite *CategoryHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// TestCreateCategory_Success tests creation with normalization
func (suite *CategoryHandlerTestSuite) TestCreateCategory_Success() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]string{"name": "Work", "color": "#AABBCC"})
	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), true, response["success"])

	category := response["category"].(map[string]interface{})
	assert.Equal(suite.T(), "work", category["name"])
	assert.Equal(suite.T(), "#aabbcc", category["color"])
}

// TestCreateCategory_DuplicateCaseInsensitive tests the per-user name constraint
func (suite *CategoryHandlerTestSuite) TestCreateCategory_DuplicateCaseInsensitive() {
	user := suite.createTestUser("alice")
	suite.createTestCategory(user.ID, "work")

	body, _ := json.Marshal(map[string]string{"name": "WORK"})
	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), false, response["success"])

	errs := response["errors"].(map[string]interface{})
	assert.Equal(suite.T(), "Category already exists", errs["name"])
}

// TestCreateCategory_SameNameDifferentUsers tests that the name constraint is per user
func (suite *CategoryHandlerTestSuite) TestCreateCategory_SameNameDifferentUsers() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestCategory(alice.ID, "work")

	body, _ := json.Marshal(map[string]string{"name": "work"})
	c, w := suite.createAuthContext("POST", "/api/categories", body, bob.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

// TestCreateCategory_InvalidColor tests color validation
func (suite *CategoryHandlerTestSuite) TestCreateCategory_InvalidColor() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]string{"name": "work", "color": "not-a-color"})
	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListCategories_SortedByName tests the list ordering
func (suite *CategoryHandlerTestSuite) TestListCategories_SortedByName() {
	user := suite.createTestUser("alice")
	other := suite.createTestUser("bob")
	suite.createTestCategory(user.ID, "work")
	suite.createTestCategory(user.ID, "home")
	suite.createTestCategory(other.ID, "aaa")

	c, w := suite.createAuthContext("GET", "/api/categories", nil, user.ID)

	suite.handler.ListCategories(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	categories := response["categories"].([]interface{})
	assert.Len(suite.T(), categories, 2)
	assert.Equal(suite.T(), "home", categories[0].(map[string]interface{})["name"])
	assert.Equal(suite.T(), "work", categories[1].(map[string]interface{})["name"])
}

// TestUpdateCategory_Success tests renaming
func (suite *CategoryHandlerTestSuite) TestUpdateCategory_Success() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory(user.ID, "work")

	body, _ := json.Marshal(map[string]string{"name": "Projects"})
	c, w := suite.createAuthContext("PUT", "/api/categories/1", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateCategory(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Category
	suite.db.First(&updated, category.ID)
	assert.Equal(suite.T(), "projects", updated.Name)
}

// TestUpdateCategory_DuplicateName tests rename collision with another category
func (suite *CategoryHandlerTestSuite) TestUpdateCategory_DuplicateName() {
	user := suite.createTestUser("alice")
	suite.createTestCategory(user.ID, "work")
	suite.createTestCategory(user.ID, "home")

	body, _ := json.Marshal(map[string]string{"name": "Work"})
	c, w := suite.createAuthContext("PUT", "/api/categories/2", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	suite.handler.UpdateCategory(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateCategory_NotOwned tests that another user's category reads as not found
func (suite *CategoryHandlerTestSuite) TestUpdateCategory_NotOwned() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestCategory(alice.ID, "work")

	body, _ := json.Marshal(map[string]string{"name": "stolen"})
	c, w := suite.createAuthContext("PUT", "/api/categories/1", body, bob.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateCategory(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteCategory_DetachesFromNotes tests the delete cascade: the
// category disappears from notes but the notes survive.
func (suite *CategoryHandlerTestSuite) TestDeleteCategory_DetachesFromNotes() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory(user.ID, "work")

	note := &models.Note{
		Title:  "Meeting notes",
		Body:   "Agenda",
		Color:  "ffffff",
		UserID: user.ID,
	}
	suite.db.Create(note)
	err := suite.db.Model(note).Association("Categories").Append(category)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("DELETE", "/api/categories/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.DeleteCategory(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Category{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)

	var reloaded models.Note
	err = suite.db.Preload("Categories").First(&reloaded, note.ID).Error
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), reloaded.Categories)
}

// TestDeleteCategory_NotFound tests deleting a missing category
func (suite *CategoryHandlerTestSuite) TestDeleteCategory_NotFound() {
	user := suite.createTestUser("alice")

	c, w := suite.createAuthContext("DELETE", "/api/categories/99", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	suite.handler.DeleteCategory(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCategoryHandlerTestSuite runs the test suite
func TestCategoryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerTestSuite))
}
