// Package tui is the live terminal view of a running invocation.
package tui

import (
	"fmt"
	"strings"
	"time"

	"toolrun/internal/invoker"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultMaxLines bounds the scrollback kept by the view.
const DefaultMaxLines = 5000

type Options struct {
	// Events is a bus subscription carrying invoker events.
	Events <-chan any
	Title  string
	// OnInterrupt is called once when the user presses ctrl+c. The view keeps
	// running until the invocation reports its result.
	OnInterrupt    func()
	MaxLines       int
	CopyableOutput bool
}

type busEventMsg struct {
	Event any
}

type busClosedMsg struct{}

type Model struct {
	viewport    viewport.Model
	spin        spinner.Model
	sub         <-chan any
	title       string
	onInterrupt func()
	interrupted bool

	state    invoker.State
	pid      int
	lines    []string
	maxLines int
	follow   bool
	result   *invoker.Result
	started  time.Time
	now      func() time.Time

	width  int
	height int
}

var (
	accent    = lipgloss.Color("#7D56F4")
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	errLine   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC0000"))
	titleText = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

func New(opts Options) *Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(accent)

	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	title := opts.Title
	if title == "" {
		title = "toolrun"
	}
	return &Model{
		viewport:    viewport.New(90, 16),
		spin:        spin,
		sub:         opts.Events,
		title:       title,
		onInterrupt: opts.OnInterrupt,
		maxLines:    maxLines,
		follow:      true,
		now:         time.Now,
		started:     time.Now(),
		width:       90,
		height:      24,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listenEvents(), m.spin.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if !m.interrupted && m.onInterrupt != nil {
				m.onInterrupt()
			}
			m.interrupted = true
			if m.onInterrupt == nil {
				return m, tea.Quit
			}
			return m, nil
		case "end", "G":
			m.follow = true
			m.viewport.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.follow = m.viewport.AtBottom()
		return m, cmd
	case spinner.TickMsg:
		if m.result != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case busEventMsg:
		if done := m.handleEvent(msg.Event); done {
			return m, tea.Quit
		}
		return m, m.listenEvents()
	case busClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleEvent(evt any) bool {
	switch ev := evt.(type) {
	case invoker.StateEvent:
		m.state = ev.State
	case invoker.StartedEvent:
		m.pid = ev.Pid
		m.started = m.now()
	case invoker.LineEvent:
		text := ev.Line.Text
		if ev.Line.Stream == invoker.StreamStderr {
			text = errLine.Render(text)
		}
		m.appendLine(text)
	case invoker.FinishedEvent:
		res := ev.Result
		m.result = &res
		m.state = res.Outcome.State()
		return true
	}
	return false
}

func (m *Model) appendLine(text string) {
	m.lines = append(m.lines, text)
	if over := len(m.lines) - m.maxLines; over > 0 {
		m.lines = append(m.lines[:0:0], m.lines[over:]...)
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) listenEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		evt, ok := <-sub
		if !ok {
			return busClosedMsg{}
		}
		return busEventMsg{Event: evt}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	bodyHeight := height - 4 // header, pane border, hints
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = bodyHeight
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) View() string {
	header := m.statusLine()
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5E6472")).
		Render(m.viewport.View())
	hints := dimStyle.Render("↑/↓ scroll • end follow • ctrl+c stop")
	return lipgloss.JoinVertical(lipgloss.Left, header, pane, hints)
}

func (m *Model) statusLine() string {
	parts := []string{titleText.Render(m.title)}
	if m.result == nil {
		parts = append(parts, m.spin.View())
	}
	state := string(m.state)
	if state == "" {
		state = "starting"
	}
	if m.interrupted && m.result == nil {
		state = "stopping"
	}
	parts = append(parts, state)
	if m.pid > 0 {
		parts = append(parts, fmt.Sprintf("pid %d", m.pid))
	}
	elapsed := m.now().Sub(m.started)
	if m.result != nil {
		elapsed = m.result.Duration
	}
	parts = append(parts, elapsed.Round(time.Second).String())
	return parts[0] + " " + strings.Join(parts[1:], dimStyle.Render(" • "))
}

// Result returns the finished invocation, or nil when the view ended early.
func (m *Model) Result() *invoker.Result {
	return m.result
}

// Interrupted reports whether the user asked to stop the invocation.
func (m *Model) Interrupted() bool {
	return m.interrupted
}

// Lines returns the plain scrollback, newest last.
func (m *Model) Lines() []string {
	return append([]string(nil), m.lines...)
}
