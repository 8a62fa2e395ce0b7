package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/kerbaras/comicripper/pkg/app/styles"
	"github.com/kerbaras/comicripper/pkg/services"
)

type ProgressTracker struct {
	chapters map[string]*services.Progress
	order    []string
	bar      progress.Model
	width    int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		chapters: make(map[string]*services.Progress),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth(width))),
		width:    width,
	}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
	p.bar.Width = barWidth(width)
}

func (p *ProgressTracker) Update(update services.Progress) {
	key := update.ChapterURL
	if _, ok := p.chapters[key]; !ok {
		p.order = append(p.order, key)
	}
	prog := update // Copy
	p.chapters[key] = &prog
}

func (p *ProgressTracker) HasActive() bool {
	for _, prog := range p.chapters {
		if !prog.Done() {
			return true
		}
	}
	return false
}

// Counts returns how many chapters ended in each final status.
func (p *ProgressTracker) Counts() map[string]int {
	counts := make(map[string]int)
	for _, prog := range p.chapters {
		if prog.Done() {
			counts[prog.Status]++
		}
	}
	return counts
}

func (p *ProgressTracker) View() string {
	if len(p.chapters) == 0 {
		return styles.MutedStyle.Render("Waiting for chapters...")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Chapters"))
	b.WriteString("\n")

	for _, key := range p.order {
		prog := p.chapters[key]

		b.WriteString(styles.TextStyle.Render(prog.Title))
		b.WriteString("\n")

		statusText := prog.Status
		if prog.TotalPages > 0 && !prog.Done() {
			percentage := float64(prog.CurrentPage) / float64(prog.TotalPages)
			b.WriteString(p.bar.ViewAs(percentage))
			b.WriteString("\n")
			statusText = fmt.Sprintf("%s (%d/%d pages)", prog.Status, prog.CurrentPage, prog.TotalPages)
		}
		if prog.Failed > 0 {
			statusText = fmt.Sprintf("%s, %d failed", statusText, prog.Failed)
		}

		b.WriteString(styles.StatusStyle(prog.Status).Render(statusText))
		b.WriteString("\n")

		if prog.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s", prog.Error)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func barWidth(width int) int {
	if width <= 4 {
		return 40
	}
	return width - 4
}
