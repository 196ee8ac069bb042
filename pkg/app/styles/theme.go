package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#FF6B9D")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Foreground = lipgloss.Color("#EEFFFF")

	RoundedBorder = lipgloss.RoundedBorder()
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Paragraph styles, one per edition
	OriginalStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	TranslatedStyle = lipgloss.NewStyle().
			Foreground(Info).
			Italic(true).
			MarginBottom(1)

	SidebarStyle = lipgloss.NewStyle().
			Border(RoundedBorder, false, true, false, false).
			BorderForeground(Muted).
			PaddingRight(1)

	// Chapter being read
	CurrentChapterStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	// Sidebar cursor
	CursorStyle = lipgloss.NewStyle().
			Foreground(Secondary)

	CardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 2)

	ActiveCardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Primary).
			Padding(0, 2)

	StatusLoading = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	StatusCompleted = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)
)

// StatusStyle maps a load status to its style.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "loading":
		return StatusLoading
	case "loaded":
		return StatusCompleted
	case "skipped":
		return StatusWarning
	case "error":
		return StatusError
	default:
		return MutedStyle
	}
}
