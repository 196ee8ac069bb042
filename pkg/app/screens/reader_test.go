package screens

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testBook() *align.AlignedBook {
	return &align.AlignedBook{
		Original:   []align.ParagraphList{{"A", "B"}, {"C"}, {"D"}},
		Translated: []align.ParagraphList{{"Я"}, {"Б", "В"}, {"Г"}},
		Titles:     []string{"One", "Two", "Three"},
	}
}

func longBook() *align.AlignedBook {
	paragraphs := make(align.ParagraphList, 100)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 5)
	}
	return &align.AlignedBook{
		Original:   []align.ParagraphList{paragraphs, paragraphs},
		Translated: []align.ParagraphList{paragraphs, paragraphs},
		Titles:     []string{"Long", "Longer"},
	}
}

func sized(s *ReaderScreen) *ReaderScreen {
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return s
}

func TestReaderScreen_StartsAtFirstChapter(t *testing.T) {
	s := sized(NewReaderScreen("Book", testBook()))

	assert.Equal(t, 0, s.nav.Index())
	view := s.View()
	assert.Contains(t, view, "One (1/3)")
	assert.Contains(t, view, "A")
	assert.Contains(t, view, "Я")
	assert.Contains(t, view, "n →: next")
	assert.NotContains(t, view, "← p: back")
}

func TestReaderScreen_NextAndBack(t *testing.T) {
	s := sized(NewReaderScreen("Book", testBook()))

	s.Update(keyRunes("n"))
	assert.Equal(t, 1, s.nav.Index())
	assert.Equal(t, 1, s.chapters.Current)

	s.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, s.nav.Index())

	// At the last chapter next is a no-op and its hint disappears.
	s.Update(keyRunes("n"))
	assert.Equal(t, 2, s.nav.Index())
	assert.NotContains(t, s.View(), "n →: next")
	assert.Contains(t, s.View(), "← p: back")

	s.Update(keyRunes("p"))
	assert.Equal(t, 1, s.nav.Index())
	s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, s.nav.Index())
}

func TestReaderScreen_SidebarSelect(t *testing.T) {
	s := sized(NewReaderScreen("Book", testBook()))

	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, s.nav.Index(), "moving the cursor does not change chapter")

	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, s.nav.Index())
	assert.Contains(t, s.View(), "Three (3/3)")
	assert.Contains(t, s.View(), "Г")
}

func TestReaderScreen_ScrollResetsOnNavigation(t *testing.T) {
	s := sized(NewReaderScreen("Book", longBook()))

	s.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	require.Greater(t, s.viewport.YOffset, 0)

	s.Update(keyRunes("n"))
	assert.Equal(t, 1, s.nav.Index())
	assert.Equal(t, 0, s.viewport.YOffset)

	s.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	require.Greater(t, s.viewport.YOffset, 0)

	// No-op moves keep the scroll position.
	s.Update(keyRunes("n"))
	assert.Greater(t, s.viewport.YOffset, 0)
}

func TestReaderScreen_EmptyBook(t *testing.T) {
	s := sized(NewReaderScreen("Book", &align.AlignedBook{}))
	s.SetError(errors.New("source unavailable"))

	s.Update(keyRunes("n"))
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, s.nav.Index())

	view := s.View()
	assert.Contains(t, view, "Error: source unavailable")
	assert.Contains(t, view, "No chapters")
	assert.NotContains(t, view, "next")
	assert.NotContains(t, view, "back")
}

func TestReaderScreen_InvalidGoToShowsError(t *testing.T) {
	s := sized(NewReaderScreen("Book", testBook()))
	s.chapters.SelectedIndex = 7

	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, s.nav.Index())
	assert.ErrorIs(t, s.err, reader.ErrInvalidChapterIndex)
}

func TestRenderBlocksOrder(t *testing.T) {
	out := renderBlocks(align.Merge(align.ParagraphList{"first", "third"}, align.ParagraphList{"second"}), 40)

	first := strings.Index(out, "first")
	second := strings.Index(out, "second")
	third := strings.Index(out, "third")
	assert.True(t, first < second && second < third, out)
}
