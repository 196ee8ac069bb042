package screens

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/app/components"
	"github.com/kerbaras/dualbook/pkg/data"
	"github.com/kerbaras/dualbook/pkg/logging"
	"github.com/kerbaras/dualbook/pkg/services"
)

// Library is the pair registry the library screen browses.
type Library interface {
	ListPairs() ([]*data.BookPair, error)
	RemovePair(ref string) error
}

// Controller is everything the TUI needs from the service layer.
type Controller interface {
	Library
	Open(ctx context.Context, req services.Request) (*align.AlignedBook, error)
}

type screenType int

const (
	libraryView screenType = iota
	loadingView
	readerView
)

// OpenPairMsg asks the root screen to load and show a book pair.
type OpenPairMsg struct {
	Title   string
	Request services.Request
}

type bookLoadedMsg struct {
	title string
	book  *align.AlignedBook
	err   error
}

type RootScreen struct {
	ctx        context.Context
	cancel     context.CancelFunc
	controller Controller
	progress   <-chan services.LoadProgress

	currentView screenType
	hasLibrary  bool
	library     *LibraryScreen
	tracker     *components.LoadTracker
	reader      *ReaderScreen

	initial *OpenPairMsg

	width  int
	height int
}

// NewRootScreen starts in the library when open is nil, otherwise it loads
// open straight away. progress may be nil.
func NewRootScreen(controller Controller, progress <-chan services.LoadProgress, open *OpenPairMsg) *RootScreen {
	ctx, cancel := context.WithCancel(context.Background())
	r := &RootScreen{
		ctx:        ctx,
		cancel:     cancel,
		controller: controller,
		progress:   progress,
		library:    NewLibraryScreen(controller),
		tracker:    components.NewLoadTracker(60),
		initial:    open,
	}
	if open == nil {
		r.hasLibrary = true
		r.currentView = libraryView
	} else {
		r.currentView = loadingView
	}
	return r
}

func (r *RootScreen) Init() tea.Cmd {
	if r.initial != nil {
		return r.open(*r.initial)
	}
	return r.library.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.tracker.SetWidth(min(80, msg.Width))
		r.library.Update(msg)
		if r.reader != nil {
			r.reader.Update(msg)
		}
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			r.cancel()
			return r, tea.Quit
		case "esc":
			if r.currentView == readerView && r.hasLibrary {
				r.currentView = libraryView
				return r, r.library.Init()
			}
		}

	case OpenPairMsg:
		return r, r.open(msg)

	case services.LoadProgress:
		if r.currentView != loadingView {
			return r, nil
		}
		r.tracker.Update(msg)
		return r, r.listenForProgress

	case bookLoadedMsg:
		r.showBook(msg)
		return r, nil
	}

	switch r.currentView {
	case libraryView:
		_, cmd := r.library.Update(msg)
		return r, cmd
	case readerView:
		_, cmd := r.reader.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *RootScreen) View() string {
	switch r.currentView {
	case libraryView:
		return r.library.View()
	case loadingView:
		return r.tracker.View()
	case readerView:
		return r.reader.View()
	}
	return ""
}

func (r *RootScreen) open(msg OpenPairMsg) tea.Cmd {
	r.currentView = loadingView
	r.tracker.Clear()

	load := func() tea.Msg {
		book, err := r.controller.Open(r.ctx, msg.Request)
		return bookLoadedMsg{title: msg.Title, book: book, err: err}
	}
	if r.progress == nil {
		return load
	}
	return tea.Batch(load, r.listenForProgress)
}

// showBook switches to the reader. A failed load still opens an empty
// reader so the error stays on screen.
func (r *RootScreen) showBook(msg bookLoadedMsg) {
	log := logging.Component("tui")
	r.drainProgress()

	book := msg.book
	if book == nil {
		book = &align.AlignedBook{}
	}
	r.reader = NewReaderScreen(msg.title, book)
	if r.width > 0 {
		r.reader.Update(tea.WindowSizeMsg{Width: r.width, Height: r.height})
	}

	switch {
	case msg.err != nil:
		log.Error().Err(msg.err).Msg("failed to load books")
		r.reader.SetError(msg.err)
	case book.Len() == 0:
		r.reader.SetStatus("The two books have no chapters in common at these offsets.")
	case r.tracker.Skipped() > 0:
		r.reader.SetStatus(skippedStatus(r.tracker.Skipped()))
	}

	r.currentView = readerView
}

func skippedStatus(n int) string {
	if n == 1 {
		return "1 chapter could not be loaded and was skipped; pairs after it may be shifted."
	}
	return strconv.Itoa(n) + " chapters could not be loaded and were skipped; pairs after them may be shifted."
}

// drainProgress applies events still queued when the load finished.
func (r *RootScreen) drainProgress() {
	if r.progress == nil {
		return
	}
	for {
		select {
		case progress := <-r.progress:
			r.tracker.Update(progress)
		default:
			return
		}
	}
}

func (r *RootScreen) listenForProgress() tea.Msg {
	select {
	case progress := <-r.progress:
		return progress
	case <-r.ctx.Done():
		return nil
	}
}
