package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNewListRowTruncatesByRune(t *testing.T) {
	title := strings.Repeat("é", 30)
	row := NewListRow("id1", title, "")

	assert.True(t, utf8.ValidString(row.Title), "no rune split mid-sequence")
	assert.Equal(t, maxRowTitle, utf8.RuneCountInString(row.Title))
	assert.True(t, strings.HasSuffix(row.Title, "..."))
}

func TestNewListRowKeepsShortStrings(t *testing.T) {
	row := NewListRow("id1", "Suya", "Spicy grilled beef")
	assert.Equal(t, "Suya", row.Title)
	assert.Equal(t, "Spicy grilled beef", row.Description)
}
