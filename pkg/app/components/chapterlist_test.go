package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChapterList_Empty(t *testing.T) {
	list := NewChapterList()

	assert.Equal(t, -1, list.Selected())
	list.Next()
	list.Prev()
	assert.Equal(t, -1, list.Selected())
	assert.Contains(t, list.View(), "No chapters")
}

func TestChapterList_NextPrevWrap(t *testing.T) {
	list := NewChapterList()
	list.SetItems([]string{"One", "Two", "Three"})

	list.Next()
	assert.Equal(t, 1, list.Selected())
	list.Next()
	list.Next()
	assert.Equal(t, 0, list.Selected(), "wraps to top")

	list.Prev()
	assert.Equal(t, 2, list.Selected(), "wraps to bottom")
}

func TestChapterList_SetItemsClampsSelection(t *testing.T) {
	list := NewChapterList()
	list.SetItems([]string{"One", "Two", "Three"})
	list.SelectedIndex = 2

	list.SetItems([]string{"One"})
	assert.Equal(t, 0, list.Selected())

	list.SetItems(nil)
	assert.Equal(t, -1, list.Selected())
}

func TestChapterList_SetCurrent(t *testing.T) {
	list := NewChapterList()
	list.SetItems([]string{"One", "Two", "Three"})

	list.SetCurrent(2)
	assert.Equal(t, 2, list.Current)
	assert.Equal(t, 2, list.Selected())
}

func TestChapterList_View(t *testing.T) {
	list := NewChapterList()
	list.SetItems([]string{"One", "Two"})
	list.SetCurrent(1)

	view := list.View()
	assert.Contains(t, view, "1. One")
	assert.Contains(t, view, "> 2. Two")
}

func TestChapterList_ViewScrollsWithCursor(t *testing.T) {
	list := NewChapterList()
	titles := make([]string, 50)
	for i := range titles {
		titles[i] = "Chapter"
	}
	list.SetItems(titles)
	list.Height = 5
	list.SetCurrent(40)

	view := list.View()
	assert.Len(t, strings.Split(view, "\n"), 5)
	assert.Contains(t, view, "41. Chapter")
	assert.NotContains(t, view, " 1. Chapter")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"a longer title", 8, "a lon..."},
		{"Глава первая", 8, "Глава..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.input, tt.width))
	}
}
