// Package tui renders the meditation and stillness countdowns in the
// terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/jagarana/internal/timer"
	"github.com/rcliao/jagarana/internal/tui/theme"
)

// TickInterval is how often a running countdown is brought up to the clock.
const TickInterval = time.Second

type tickMsg struct{ handle timer.Handle }

type keyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys(pauseLabel string) keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "start/"+pauseLabel)),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset},
		{k.Help, k.Quit},
	}
}

// Model is a countdown screen. A tick carries the handle of the running
// period that scheduled it, so ticks scheduled before a pause or reset are
// dropped.
type Model struct {
	driver   Driver
	keys     keyMap
	help     help.Model
	bar      progress.Model
	interval time.Duration

	handle  timer.Handle
	running bool
	frame   Frame
	status  string
	err     error
}

// New builds a screen over driver. The countdown starts when the program
// starts.
func New(driver Driver) Model {
	return Model{
		driver:   driver,
		keys:     defaultKeys(driver.PauseLabel()),
		help:     help.New(),
		bar:      progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)), progress.WithoutPercentage()),
		interval: TickInterval,
		frame:    driver.Status(),
	}
}

// Err returns the error that ended the screen, if any.
func (m Model) Err() error { return m.err }

// Completed reports whether the countdown finished while on screen.
func (m Model) Completed() bool { return m.frame.Completed }

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

type startMsg struct{}

func (m Model) tick() tea.Cmd {
	h := m.handle
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{handle: h} })
}

func (m Model) start() (Model, tea.Cmd) {
	h, err := m.driver.Start()
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.handle = h
	m.running = true
	m.status = ""
	m.frame = m.driver.Status()
	return m, m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		if m.frame.Completed {
			return m, nil
		}
		return m.start()

	case tickMsg:
		if !m.running || msg.handle != m.handle {
			return m, nil
		}
		m.frame = m.driver.Tick(msg.handle)
		switch {
		case m.frame.Stale:
			m.running = false
			return m, nil
		case m.frame.Completed:
			m.running = false
			m.status = "Complete."
			return m, nil
		}
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-12, 10), 60)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.running {
				m.driver.Pause()
				m.running = false
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.running {
				m.driver.Pause()
				m.running = false
				m.frame = m.driver.Status()
				m.status = "Paused."
				return m, nil
			}
			return m.start()
		case key.Matches(msg, m.keys.Reset):
			m.driver.Reset()
			m.running = false
			m.frame = m.driver.Status()
			m.status = "Reset."
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(m.driver.Title()))
	b.WriteString("\n\n")
	b.WriteString(theme.Clock.Render(FormatClock(m.frame.Remaining)))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.frame.Fraction()))
	b.WriteString("\n\n")

	switch {
	case m.frame.Completed:
		b.WriteString(theme.Done.Render("Complete. Om Namah Shivaya."))
	case m.running && m.frame.Label != "":
		b.WriteString(theme.Hot.Render(m.frame.Label))
	case m.status != "":
		b.WriteString(theme.Muted.Render(m.status))
	default:
		b.WriteString(theme.Muted.Render("Ready."))
	}

	pane := theme.Pane
	if m.frame.Completed {
		pane = theme.PaneDone
	}
	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		pane.Render(b.String()),
		m.help.View(m.keys),
	))
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Run shows a countdown screen until it is quit or ctx ends. It reports
// whether the countdown completed while on screen.
func Run(ctx context.Context, driver Driver, opts ...tea.ProgramOption) (bool, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(New(driver), opts...).Run()
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return false, fmt.Errorf("run %s screen: %w", strings.ToLower(driver.Title()), err)
	}
	m := final.(Model)
	return m.Completed(), m.Err()
}
