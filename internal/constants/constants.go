package constants

// Session
const (
	SessionCookieName = "token"
	ContextKeyUserID  = "user_id"
)

// Note access context keys (set by middleware.RequireNoteAccess)
const (
	ContextKeyNote           = "note"
	ContextKeyNotePermission = "note_permission"
)

// Validation limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Attachments
const MaxAttachmentSize = 1 << 20 // 1 MiB

// DefaultColor is the hex color applied to notes and categories when
// no color is supplied. Stored without the leading "#".
const DefaultColor = "ffffff"
