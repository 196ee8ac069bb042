package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/app/components"
	"github.com/kerbaras/dualbook/pkg/app/styles"
	"github.com/kerbaras/dualbook/pkg/reader"
)

const maxSidebarWidth = 32

// ReaderScreen shows one chapter of an aligned book next to the chapter list.
type ReaderScreen struct {
	title    string
	book     *align.AlignedBook
	nav      *reader.Navigator
	chapters *components.ChapterList
	viewport viewport.Model
	status   string
	err      error
	width    int
	height   int
}

func NewReaderScreen(title string, book *align.AlignedBook) *ReaderScreen {
	s := &ReaderScreen{
		title:    title,
		book:     book,
		chapters: components.NewChapterList(),
		viewport: viewport.New(80, 20),
	}
	s.nav = reader.NewNavigator(book.Len(), func() { s.viewport.GotoTop() })

	titles := make([]string, book.Len())
	for i := range titles {
		titles[i] = book.Title(i)
	}
	s.chapters.SetItems(titles)
	s.refresh()
	return s
}

// SetError puts err on the status line.
func (s *ReaderScreen) SetError(err error) {
	s.err = err
}

// SetStatus puts a notice on the status line.
func (s *ReaderScreen) SetStatus(status string) {
	s.status = status
}

func (s *ReaderScreen) Init() tea.Cmd {
	return nil
}

func (s *ReaderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.chapters.Prev()
			return s, nil
		case "down", "j":
			s.chapters.Next()
			return s, nil
		case "enter":
			if i := s.chapters.Selected(); i >= 0 {
				if err := s.nav.GoTo(i); err != nil {
					s.err = err
				}
				s.refresh()
			}
			return s, nil
		case "n", "right":
			if s.nav.Next() {
				s.refresh()
			}
			return s, nil
		case "p", "left":
			if s.nav.Previous() {
				s.refresh()
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *ReaderScreen) resize(width, height int) {
	s.width = width
	s.height = height

	sidebar := min(maxSidebarWidth, width/3)
	s.chapters.Width = sidebar
	s.chapters.Height = max(1, height-4)

	s.viewport.Width = max(10, width-sidebar-3)
	s.viewport.Height = max(1, height-4)
	s.refresh()
}

// refresh syncs the sidebar and the main pane with the navigator.
func (s *ReaderScreen) refresh() {
	if s.nav.Len() == 0 {
		s.viewport.SetContent(styles.MutedStyle.Render("Nothing to read."))
		return
	}
	s.chapters.SetCurrent(s.nav.Index())
	s.viewport.SetContent(renderBlocks(s.book.Chapter(s.nav.Index()), s.viewport.Width))
}

func renderBlocks(blocks []align.DisplayBlock, width int) string {
	original := styles.OriginalStyle.Width(width)
	translated := styles.TranslatedStyle.Width(width)

	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Kind == align.Original {
			parts = append(parts, original.Render(block.Text))
		} else {
			parts = append(parts, translated.Render(block.Text))
		}
	}
	return strings.Join(parts, "\n")
}

func (s *ReaderScreen) View() string {
	header := styles.TitleStyle.Render(s.title)
	if s.nav.Len() > 0 {
		header += styles.MutedStyle.Render(fmt.Sprintf("  %s (%d/%d)",
			s.book.Title(s.nav.Index()), s.nav.Index()+1, s.nav.Len()))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.SidebarStyle.Render(s.chapters.View()),
		" ",
		s.viewport.View(),
	)

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, s.statusLine(), s.help())
}

func (s *ReaderScreen) statusLine() string {
	if s.err != nil {
		return styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	}
	if s.status != "" {
		return styles.StatusWarning.Render(s.status)
	}
	return ""
}

// help lists the controls, leaving out back/next when they would do nothing.
func (s *ReaderScreen) help() string {
	var hints []string
	if s.nav.CanPrevious() {
		hints = append(hints, "← p: back")
	}
	if s.nav.CanNext() {
		hints = append(hints, "n →: next")
	}
	if s.nav.Len() > 0 {
		hints = append(hints, "↑/↓ enter: chapter", "pgup/pgdn: scroll")
	}
	hints = append(hints, "q: quit")
	return styles.HelpStyle.Render(strings.Join(hints, " • "))
}
