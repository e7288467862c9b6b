// Package app is the live upload view: a bubbletea program fed by the
// engine's progress event stream.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/darwin256/comick-uploader/pkg/app/components"
	"github.com/darwin256/comick-uploader/pkg/app/styles"
	"github.com/darwin256/comick-uploader/pkg/services"
)

type progressMsg services.ProgressEvent

// runFinishedMsg arrives when the engine closes its event channel.
type runFinishedMsg struct{}

type Model struct {
	board   *components.Board
	overall progress.Model
	events  <-chan services.ProgressEvent
	total   int
	done    bool
	width   int
}

func NewModel(keys []string, events <-chan services.ProgressEvent) *Model {
	return &Model{
		board:   components.NewBoard(keys, 80),
		overall: progress.New(progress.WithDefaultGradient()),
		events:  events,
		total:   len(keys),
		width:   80,
	}
}

func waitForEvent(events <-chan services.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return runFinishedMsg{}
		}
		return progressMsg(event)
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.overall.Width = msg.Width - 20
		m.board.SetWidth(msg.Width)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case progressMsg:
		m.board.Update(msg.Key, msg.Status, msg.Progress)
		return m, waitForEvent(m.events)

	case runFinishedMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) View() string {
	completed := m.board.Completed()
	frac := 0.0
	if m.total > 0 {
		frac = float64(completed) / float64(m.total)
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("Uploading (%d/%d)", completed, m.total))
	out := header + "\n" + m.overall.ViewAs(frac) + "\n\n" + m.board.View()
	if !m.done {
		out += styles.HelpStyle.Render("ctrl+c to abort")
	}
	return out + "\n"
}

// Run displays the live board until the engine's event channel closes.
func Run(keys []string, events <-chan services.ProgressEvent) error {
	p := tea.NewProgram(NewModel(keys, events))
	_, err := p.Run()
	return err
}
