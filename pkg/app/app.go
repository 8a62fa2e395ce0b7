package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/comicripper/pkg/app/screens"
	"github.com/kerbaras/comicripper/pkg/services"
)

// ErrInterrupted is returned by Run when the user stops the run early.
var ErrInterrupted = errors.New("interrupted")

type App struct {
	reporter *services.ProgressReporter
	options  []tea.ProgramOption
}

func NewApp(reporter *services.ProgressReporter, options ...tea.ProgramOption) *App {
	return &App{reporter: reporter, options: options}
}

// Run executes work in the background while rendering its progress. The
// reporter is closed once work returns, which ends the program. If the user
// quits first, cancel is called and Run waits for work to stop.
func (a *App) Run(cancel context.CancelFunc, work func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer a.reporter.Close()
		work()
	}()

	model := screens.NewDownloadScreen(a.reporter.Channel())
	p := tea.NewProgram(model, a.options...)
	_, err := p.Run()

	if model.Interrupted() {
		cancel()
		<-done
		return ErrInterrupted
	}
	<-done
	return err
}
