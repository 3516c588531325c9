package cli

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/minuted/minuted/internal/service"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// stageMsg advances the display to a pipeline stage.
type stageMsg struct {
	index int
}

// doneMsg carries the pipeline outcome.
type doneMsg struct {
	result *service.IngestResult
	err    error
}

// stageModel is the bubbletea model for staged pipeline progress.
type stageModel struct {
	stages   []string
	current  int
	progress progress.Model
	theme    Theme
	done     bool
	quitting bool
	err      error
	result   *service.IngestResult
}

func newStageModel(stages []string) stageModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)
	return stageModel{
		stages:   stages,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command.
func (m stageModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m stageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case stageMsg:
		m.current = msg.index
		return m, nil

	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m stageModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m stageModel) renderContent() string {
	if m.done || m.quitting {
		return m.finalView()
	}

	pct := float64(m.current) / float64(len(m.stages))
	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", m.stages[m.current]))
	counts := fmt.Sprintf("%d/%d stages", m.current+1, len(m.stages))
	hint := m.theme.hintStyle().Render("Press Ctrl+C to cancel")

	return fmt.Sprintf("%s %s %s\n%s\n", status, m.progress.ViewAs(pct), counts, hint)
}

func (m stageModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render("\nCancelled.\n")
	}
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Failed: %s\n", m.err))
	}
	return m.theme.completedStyle().Render("✓ Completed\n")
}

// runWithProgress drives run in the background while rendering staged
// progress. cancel is invoked when the user aborts the display.
func runWithProgress(cancel context.CancelFunc, stages []string, run func(report func(stage int)) (*service.IngestResult, error)) (*service.IngestResult, error) {
	p := tea.NewProgram(newStageModel(stages))

	go func() {
		result, err := run(func(stage int) {
			p.Send(stageMsg{index: stage})
		})
		p.Send(doneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("progress display: %w", err)
	}

	m := final.(stageModel)
	if m.quitting {
		cancel()
		return nil, fmt.Errorf("cancelled")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
