package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/dualbook/pkg/app/styles"
	"github.com/kerbaras/dualbook/pkg/data"
	"github.com/kerbaras/dualbook/pkg/services"
)

// LibraryScreen lets the user pick a registered book pair.
type LibraryScreen struct {
	library       Library
	pairs         []*data.BookPair
	selectedIndex int
	width         int
	height        int
	err           error
}

func NewLibraryScreen(library Library) *LibraryScreen {
	return &LibraryScreen{library: library}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.loadLibrary
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selectedIndex > 0 {
				s.selectedIndex--
			}
		case "down", "j":
			if s.selectedIndex < len(s.pairs)-1 {
				s.selectedIndex++
			}
		case "r":
			return s, s.loadLibrary
		case "d":
			if pair := s.selected(); pair != nil {
				return s, s.deletePair(pair.ID)
			}
		case "enter":
			if pair := s.selected(); pair != nil {
				return s, func() tea.Msg {
					return OpenPairMsg{Title: pair.Name, Request: services.RequestFor(pair)}
				}
			}
		}

	case libraryLoadedMsg:
		s.pairs = msg.pairs
		s.err = msg.err
		if s.selectedIndex >= len(s.pairs) {
			s.selectedIndex = max(0, len(s.pairs)-1)
		}

	case pairDeletedMsg:
		if msg.err != nil {
			s.err = msg.err
		}
		return s, s.loadLibrary
	}

	return s, nil
}

func (s *LibraryScreen) selected() *data.BookPair {
	if s.selectedIndex < 0 || s.selectedIndex >= len(s.pairs) {
		return nil
	}
	return s.pairs[s.selectedIndex]
}

func (s *LibraryScreen) View() string {
	header := styles.TitleStyle.Render("📚 Library")

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	}

	help := styles.HelpStyle.Render("↑/k: up • ↓/j: down • enter: read • d: delete • r: refresh • q: quit")

	return fmt.Sprintf("%s\n\n%s%s\n%s", header, errorMsg, s.renderPairs(), help)
}

func (s *LibraryScreen) renderPairs() string {
	if len(s.pairs) == 0 {
		return styles.MutedStyle.Render("No book pairs yet. Add one with: dualbook add <name> --original ... --translated ...") + "\n"
	}

	width := max(20, s.width-4)
	var b strings.Builder
	for i, pair := range s.pairs {
		cardStyle := styles.CardStyle
		if i == s.selectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		content := lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render(pair.Name),
			styles.MutedStyle.Render(fmt.Sprintf("original:   %s (from #%d)", pair.OriginalLocation, pair.OriginalOffset)),
			styles.MutedStyle.Render(fmt.Sprintf("translated: %s (from #%d)", pair.TranslatedLocation, pair.TranslatedOffset)),
		)
		b.WriteString(cardStyle.Width(width).Render(content))
		b.WriteString("\n")
	}
	return b.String()
}

// Messages
type libraryLoadedMsg struct {
	pairs []*data.BookPair
	err   error
}

type pairDeletedMsg struct {
	err error
}

// Commands
func (s *LibraryScreen) loadLibrary() tea.Msg {
	pairs, err := s.library.ListPairs()
	return libraryLoadedMsg{pairs: pairs, err: err}
}

func (s *LibraryScreen) deletePair(id string) tea.Cmd {
	return func() tea.Msg {
		return pairDeletedMsg{err: s.library.RemovePair(id)}
	}
}
