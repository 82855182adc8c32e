package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionFor(t *testing.T) {
	note := &Note{
		ID:     1,
		UserID: 10,
		Shares: []NoteShare{
			{NoteID: 1, UserID: 20, Permission: PermissionView},
			{NoteID: 1, UserID: 30, Permission: PermissionEdit},
		},
	}

	require.Equal(t, PermissionOwner, note.PermissionFor(10))
	require.Equal(t, PermissionView, note.PermissionFor(20))
	require.Equal(t, PermissionEdit, note.PermissionFor(30))
	require.Equal(t, PermissionNone, note.PermissionFor(40))
}

func TestPermissionLevels(t *testing.T) {
	require.True(t, PermissionOwner.CanRead())
	require.True(t, PermissionOwner.CanWrite())
	require.True(t, PermissionEdit.CanRead())
	require.True(t, PermissionEdit.CanWrite())
	require.True(t, PermissionView.CanRead())
	require.False(t, PermissionView.CanWrite())
	require.False(t, PermissionNone.CanRead())
	require.False(t, PermissionNone.CanWrite())
}
