package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/app/styles"
	"github.com/kerbaras/dualbook/pkg/services"
)

type sideProgress struct {
	total   int
	done    int
	skipped int
	lastErr error
}

// LoadTracker summarizes loader progress per edition.
type LoadTracker struct {
	sides map[align.Kind]*sideProgress
	width int
}

func NewLoadTracker(width int) *LoadTracker {
	return &LoadTracker{
		sides: make(map[align.Kind]*sideProgress),
		width: width,
	}
}

func (p *LoadTracker) SetWidth(width int) {
	p.width = width
}

func (p *LoadTracker) Update(progress services.LoadProgress) {
	side, ok := p.sides[progress.Side]
	if !ok {
		side = &sideProgress{}
		p.sides[progress.Side] = side
	}
	side.total = progress.Total

	switch progress.Status {
	case "loaded":
		side.done++
	case "skipped":
		side.done++
		side.skipped++
		side.lastErr = progress.Err
	}
}

func (p *LoadTracker) Clear() {
	p.sides = make(map[align.Kind]*sideProgress)
}

// Skipped returns how many chapters were dropped across both editions.
func (p *LoadTracker) Skipped() int {
	n := 0
	for _, side := range p.sides {
		n += side.skipped
	}
	return n
}

func (p *LoadTracker) View() string {
	var b strings.Builder
	b.WriteString(styles.StatusLoading.Render("Loading books..."))
	b.WriteString("\n\n")

	for _, kind := range []align.Kind{align.Original, align.Translated} {
		side, ok := p.sides[kind]
		if !ok {
			b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%-10s waiting", kind)))
			b.WriteString("\n\n")
			continue
		}

		b.WriteString(styles.TextStyle.Render(fmt.Sprintf("%-10s %d/%d chapters", kind, side.done, side.total)))
		b.WriteString("\n")
		b.WriteString(renderProgressBar(side.done, side.total, p.width-4))
		b.WriteString("\n")

		if side.skipped > 0 {
			b.WriteString(styles.StatusStyle("skipped").Render(fmt.Sprintf("%d skipped", side.skipped)))
			if side.lastErr != nil {
				b.WriteString(styles.MutedStyle.Render(fmt.Sprintf(" (last: %s)", side.lastErr)))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}
