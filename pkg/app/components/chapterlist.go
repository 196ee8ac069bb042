package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/dualbook/pkg/app/styles"
)

// ChapterList is the reader sidebar. The cursor moves freely while Current
// marks the chapter on screen.
type ChapterList struct {
	Titles        []string
	SelectedIndex int
	Current       int
	Width         int
	Height        int
}

func NewChapterList() *ChapterList {
	return &ChapterList{
		Titles: []string{},
		Width:  30,
		Height: 20,
	}
}

func (c *ChapterList) SetItems(titles []string) {
	c.Titles = titles
	if c.SelectedIndex >= len(titles) && len(titles) > 0 {
		c.SelectedIndex = len(titles) - 1
	}
	if len(titles) == 0 {
		c.SelectedIndex = 0
		c.Current = 0
	}
}

func (c *ChapterList) Next() {
	if len(c.Titles) == 0 {
		return
	}
	c.SelectedIndex++
	if c.SelectedIndex >= len(c.Titles) {
		c.SelectedIndex = 0
	}
}

func (c *ChapterList) Prev() {
	if len(c.Titles) == 0 {
		return
	}
	c.SelectedIndex--
	if c.SelectedIndex < 0 {
		c.SelectedIndex = len(c.Titles) - 1
	}
}

// SetCurrent marks index as the open chapter and moves the cursor onto it.
func (c *ChapterList) SetCurrent(index int) {
	c.Current = index
	c.SelectedIndex = index
}

// Selected returns the cursor position, or -1 for an empty list.
func (c *ChapterList) Selected() int {
	if len(c.Titles) == 0 {
		return -1
	}
	return c.SelectedIndex
}

func (c *ChapterList) View() string {
	if len(c.Titles) == 0 {
		return styles.MutedStyle.Width(c.Width).Render("No chapters")
	}

	start, end := c.window()
	var b strings.Builder
	for i := start; i < end; i++ {
		cursor := "  "
		if i == c.SelectedIndex {
			cursor = styles.CursorStyle.Render("> ")
		}

		title := truncate(fmt.Sprintf("%d. %s", i+1, c.Titles[i]), c.Width-2)
		if i == c.Current {
			title = styles.CurrentChapterStyle.Render(title)
		} else {
			title = styles.TextStyle.Render(title)
		}

		b.WriteString(cursor + title)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Width(c.Width).Render(b.String())
}

// window keeps the cursor visible when titles outgrow the height.
func (c *ChapterList) window() (int, int) {
	height := max(1, c.Height)
	if len(c.Titles) <= height {
		return 0, len(c.Titles)
	}

	start := c.SelectedIndex - height/2
	start = max(0, min(start, len(c.Titles)-height))
	return start, start + height
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
