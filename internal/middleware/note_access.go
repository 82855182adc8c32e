package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/constants"
	"github.com/notesapp/notes-api/internal/database"
	apierrors "github.com/notesapp/notes-api/internal/errors"
	"github.com/notesapp/notes-api/internal/models"
)

// RequireNoteAccess loads the note from the URL parameter and resolves
// the viewer's permission on it. A note that does not exist and a note
// the viewer has no access to answer the same 404, so non-shared users
// cannot probe for note existence.
func RequireNoteAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		noteIDStr := c.Param("id")
		noteID, err := strconv.ParseUint(noteIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "note", "Invalid note ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var note models.Note
		if err := database.GetDB().
			Preload("Author").
			Preload("Categories").
			Preload("Shares").
			Preload("Shares.User").
			Preload("Attachments").
			First(&note, noteID).Error; err != nil {
			apierrors.NotFound(c, "note", "Note not found")
			c.Abort()
			return
		}

		permission := note.PermissionFor(userID)
		if !permission.CanRead() {
			apierrors.NotFound(c, "note", "Note not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyNote, note)
		c.Set(constants.ContextKeyNotePermission, permission)
		c.Next()
	}
}

// GetNote retrieves the note loaded by RequireNoteAccess.
func GetNote(c *gin.Context) (models.Note, bool) {
	noteValue, exists := c.Get(constants.ContextKeyNote)
	if !exists {
		return models.Note{}, false
	}
	note, ok := noteValue.(models.Note)
	return note, ok
}

// GetNotePermission retrieves the viewer's permission on the loaded note.
func GetNotePermission(c *gin.Context) (models.Permission, bool) {
	permValue, exists := c.Get(constants.ContextKeyNotePermission)
	if !exists {
		return models.PermissionNone, false
	}
	perm, ok := permValue.(models.Permission)
	return perm, ok
}
