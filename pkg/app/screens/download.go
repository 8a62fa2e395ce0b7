package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/comicripper/pkg/app/components"
	"github.com/kerbaras/comicripper/pkg/app/styles"
	"github.com/kerbaras/comicripper/pkg/services"
)

// progressClosedMsg is sent once the progress channel is drained and closed.
type progressClosedMsg struct{}

// DownloadScreen shows live progress for every chapter of a run. It quits
// on its own when the progress channel closes.
type DownloadScreen struct {
	updates     <-chan services.Progress
	tracker     *components.ProgressTracker
	finished    bool
	interrupted bool
}

func NewDownloadScreen(updates <-chan services.Progress) *DownloadScreen {
	return &DownloadScreen{
		updates: updates,
		tracker: components.NewProgressTracker(80),
	}
}

// Interrupted reports whether the user quit before the run finished.
func (s *DownloadScreen) Interrupted() bool {
	return s.interrupted
}

func (s *DownloadScreen) Init() tea.Cmd {
	return s.waitForProgress()
}

func (s *DownloadScreen) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-s.updates
		if !ok {
			return progressClosedMsg{}
		}
		return update
	}
}

func (s *DownloadScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.tracker.SetWidth(msg.Width)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			s.interrupted = true
			return s, tea.Quit
		}

	case services.Progress:
		s.tracker.Update(msg)
		return s, s.waitForProgress()

	case progressClosedMsg:
		s.finished = true
		return s, tea.Quit
	}

	return s, nil
}

func (s *DownloadScreen) View() string {
	var b strings.Builder
	b.WriteString(s.tracker.View())

	if s.finished {
		counts := s.tracker.Counts()
		summary := fmt.Sprintf("%d complete · %d partial · %d skipped · %d failed",
			counts["complete"], counts["partial"], counts["skipped"], counts["error"])
		b.WriteString(styles.SummaryStyle.Render(summary))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.HelpStyle.Render("q: stop"))
	b.WriteString("\n")
	return b.String()
}
