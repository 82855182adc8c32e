package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/notesapp/notes-api/internal/constants"
)

// ErrInvalidColor is returned when a color is not a 3- or 6-digit hex code.
var ErrInvalidColor = errors.New("color must be a valid hex color code")

var colorPattern = regexp.MustCompile(`^([0-9a-f]{3}|[0-9a-f]{6})$`)

// NormalizeColor converts a client-supplied color to storage form:
// leading "#" stripped, lowercased. Empty input falls back to the
// default white. The normalized value must be 3 or 6 hex digits.
func NormalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return constants.DefaultColor, nil
	}

	color = strings.ToLower(strings.TrimPrefix(color, "#"))
	if !colorPattern.MatchString(color) {
		return "", ErrInvalidColor
	}

	return color, nil
}

// RenderColor converts a stored color back to the "#"-prefixed form
// used in API responses.
func RenderColor(color string) string {
	if color == "" {
		color = constants.DefaultColor
	}
	return "#" + color
}
