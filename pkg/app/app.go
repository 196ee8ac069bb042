package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/dualbook/pkg/app/screens"
	"github.com/kerbaras/dualbook/pkg/services"
)

type App struct {
	controller *services.BookController
}

func NewApp(controller *services.BookController) *App {
	return &App{controller: controller}
}

// Read opens the reader on a single book pair.
func (a *App) Read(title string, req services.Request) error {
	return a.run(&screens.OpenPairMsg{Title: title, Request: req})
}

// Browse starts in the library of registered pairs.
func (a *App) Browse() error {
	return a.run(nil)
}

func (a *App) run(open *screens.OpenPairMsg) error {
	model := screens.NewRootScreen(a.controller, a.controller.Loader().Progress(), open)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
