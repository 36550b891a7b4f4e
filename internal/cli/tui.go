package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirrorlab/mirrorsnap/pkg/mirror"
	"github.com/mirrorlab/mirrorsnap/pkg/progress"
)

// Crawl view styles
var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// tickMsg drives the periodic refresh of the crawl view.
type tickMsg time.Time

// crawlDoneMsg is sent when the snapshot goroutine returns.
type crawlDoneMsg struct{}

// =============================================================================
// crawlModel - Live crawl progress view
// =============================================================================

// crawlModel is the bubbletea model for the live crawl view. It renders
// a progress tracker owned by the crawl, which runs in a separate
// goroutine; the model only ever reads the tracker.
type crawlModel struct {
	tracker  *progress.Tracker
	info     string
	cancel   context.CancelFunc
	width    int
	canceled bool
}

func newCrawlModel(tracker *progress.Tracker, info string, cancel context.CancelFunc) crawlModel {
	return crawlModel{
		tracker: tracker,
		info:    info,
		cancel:  cancel,
		width:   80,
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m crawlModel) Init() tea.Cmd {
	return tick()
}

func (m crawlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Stop the crawl but keep the view up until the workers
			// have drained; crawlDoneMsg quits.
			m.canceled = true
			m.cancel()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case crawlDoneMsg:
		return m, tea.Quit
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m crawlModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Snapshot"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.info))
	b.WriteString("\n\n")

	done, total := m.tracker.Done(), m.tracker.Total()
	b.WriteString(renderBar(done, total, m.barWidth()))
	b.WriteString(fmt.Sprintf(" %d/%d", done, total))
	b.WriteString("\n")

	switch {
	case m.canceled:
		b.WriteString(StyleWarning.Render("canceling, waiting for crawlers to drain"))
	case m.tracker.Finished():
		b.WriteString(StyleSuccess.Render(m.tracker.Message()))
	default:
		current := m.tracker.Message()
		if current == "" {
			current = "starting"
		}
		b.WriteString(StyleDim.Render("scanning ") + StyleValue.Render(current))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("elapsed " + m.tracker.Elapsed().Round(time.Second).String()))
	b.WriteString("\n")

	return b.String()
}

func (m crawlModel) barWidth() int {
	w := m.width - 12
	if w > 48 {
		w = 48
	}
	if w < 10 {
		w = 10
	}
	return w
}

// renderBar draws a fixed-width progress bar.
func renderBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
		if filled > width {
			filled = width
		}
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// =============================================================================
// Runner
// =============================================================================

// takeSnapshotTUI runs the snapshot with the live crawl view attached.
// The view reads the mission's tracker; quitting the view cancels the
// crawl.
func (c *CLI) takeSnapshotTUI(ctx context.Context, src mirror.Source, m mirror.Mission, cfg mirror.SnapshotConfig) (*mirror.Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		snap *mirror.Snapshot
		err  error
	}
	done := make(chan result, 1)

	p := tea.NewProgram(newCrawlModel(m.Progress, src.Info(), cancel), tea.WithOutput(os.Stderr))
	go func() {
		snap, err := src.Snapshot(ctx, m, cfg)
		done <- result{snap: snap, err: err}
		p.Send(crawlDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("run crawl view: %w", err)
	}

	res := <-done
	return res.snap, res.err
}
