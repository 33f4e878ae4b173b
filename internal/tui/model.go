// Package tui is the terminal frontend: the memory grid, one entry per row,
// a view toggle and the periodic voltage reset, all driven by bubbletea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/ramsim/internal/config"
	"github.com/san-kum/ramsim/internal/logging"
	"github.com/san-kum/ramsim/internal/ram"
	"github.com/san-kum/ramsim/internal/storage"
)

const historyCapacity = 120

type TickMsg time.Time

// Options configure a Model. Store may be nil to disable snapshots.
type Options struct {
	Refresh time.Duration
	Palette config.PaletteConfig
	Logger  zerolog.Logger
	Store   *storage.Store
	Seed    int64
	Source  string
}

// Model owns the bank and all terminal UI state.
type Model struct {
	bank     *ram.Bank
	opts     Options
	log      zerolog.Logger
	colors   cellColors
	keys     keyMap
	help     help.Model
	input    textinput.Model
	entries  []string
	cursor   int
	editing  bool
	status   string
	failed   bool
	history  []float64
	resets   int
	width    int
	quitting bool
}

func NewModel(bank *ram.Bank, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = time.Duration(config.DefaultRefreshMs) * time.Millisecond
	}
	if opts.Palette.Charged == "" || opts.Palette.Empty == "" {
		opts.Palette = config.DefaultConfig().Palette
	}

	in := textinput.New()
	in.CharLimit = 256
	in.Width = bank.Cols() + 4
	in.Prompt = "> "

	entries := make([]string, bank.Rows())
	for i := range entries {
		entries[i] = bank.RowString(i)
	}

	m := Model{
		bank:    bank,
		opts:    opts,
		log:     logging.Component(opts.Logger, "tui"),
		colors:  newCellColors(opts.Palette.Charged, opts.Palette.Empty),
		keys:    defaultKeys(),
		help:    help.New(),
		input:   in,
		entries: entries,
		width:   80,
		history: []float64{float64(bank.Charged())},
	}
	m.syncToggleHelp()
	return m
}

func (m Model) Bank() *ram.Bank    { return m.bank }
func (m Model) Cursor() int        { return m.cursor }
func (m Model) Editing() bool      { return m.editing }
func (m Model) Status() string     { return m.status }
func (m Model) Failed() bool       { return m.failed }
func (m Model) Entry(r int) string { return m.entries[r] }
func (m Model) Resets() int        { return m.resets }
func (m Model) History() []float64 { return m.history }

func (m Model) Init() tea.Cmd {
	return tick(m.opts.Refresh)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.resetVoltages()
		return m, tick(m.opts.Refresh)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg)
		}
		return m.gridKey(msg)
	}
	return m, nil
}

func (m Model) gridKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.bank.Rows()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		mode := m.bank.ToggleView()
		m.syncToggleHelp()
		m.log.Debug().Str("view", mode.String()).Msg("view toggled")
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.SetValue(m.entries[m.cursor])
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Save):
		m.saveSnapshot()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		m.entries[m.cursor] = m.input.Value()
		m.submitRow(m.cursor, m.input.Value())
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitRow applies an entry to the bank. A rejected entry stays in its
// field so it can be corrected.
func (m *Model) submitRow(r int, s string) {
	if err := m.bank.UpdateRow(r, s); err != nil {
		m.log.Warn().Err(err).Int("row", r).Str("input", s).Int("cols", m.bank.Cols()).Msg("invalid row input")
		m.status, m.failed = fmt.Sprintf("Invalid input: %s. Please enter a binary string of length %d.", s, m.bank.Cols()), true
		return
	}
	m.entries[r] = m.bank.RowString(r)
	m.status, m.failed = fmt.Sprintf("row %d set to %s", r, m.entries[r]), false
	m.log.Info().Int("row", r).Str("bits", m.entries[r]).Msg("row updated")
}

func (m *Model) resetVoltages() {
	m.bank.ResetVoltages()
	m.resets++
	m.history = append(m.history, float64(m.bank.Charged()))
	if len(m.history) > historyCapacity {
		m.history = m.history[len(m.history)-historyCapacity:]
	}
	m.log.Debug().Int("reset", m.resets).Int("charged", m.bank.Charged()).Msg("voltages reset")
}

func (m *Model) saveSnapshot() {
	if m.opts.Store == nil {
		m.status, m.failed = "snapshots disabled", true
		return
	}
	if err := m.opts.Store.Init(); err != nil {
		m.log.Error().Err(err).Msg("snapshot dir")
		m.status, m.failed = err.Error(), true
		return
	}
	id, err := m.opts.Store.Save(m.bank, m.opts.Seed, m.opts.Source)
	if err != nil {
		m.log.Error().Err(err).Msg("snapshot save failed")
		m.status, m.failed = err.Error(), true
		return
	}
	m.log.Info().Str("id", id).Msg("snapshot saved")
	m.status, m.failed = "saved "+id, false
}

func (m *Model) syncToggleHelp() {
	m.keys.Toggle.SetHelp("v", m.bank.View().ToggleLabel())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("RAM Simulator"))
	b.WriteString("  ")
	b.WriteString(metricLabel.Render("view "))
	b.WriteString(metricValue.Render(m.bank.View().String()))
	b.WriteString(metricLabel.Render("  refresh "))
	b.WriteString(metricValue.Render(m.opts.Refresh.String()))
	b.WriteString(metricLabel.Render("  resets "))
	b.WriteString(metricValue.Render(fmt.Sprint(m.resets)))
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.gridView()))
	b.WriteString("\n")

	if m.status != "" {
		style := statusOK
		if m.failed {
			style = statusErr
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(40),
			asciigraph.Caption("charged cells per refresh"),
		)
		b.WriteString("\n")
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) gridView() string {
	cells := m.bank.Render()
	rows := make([]string, 0, len(cells)+1)
	rows = append(rows, headerStyle.Render(fmt.Sprintf("%d x %d cells", m.bank.Rows(), m.bank.Cols())))

	for i, row := range cells {
		rendered := make([]string, 0, len(row)+3)
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		rendered = append(rendered, marker)
		for _, cell := range row {
			rendered = append(rendered, m.colors.style(cell.Charged).Render(cell.Text))
		}
		rendered = append(rendered, "  ")
		if m.editing && i == m.cursor {
			rendered = append(rendered, m.input.View())
		} else {
			rendered = append(rendered, entryStyle.Render("[ "+m.entries[i]+" ]"))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Run starts the terminal program and blocks until it exits.
func Run(bank *ram.Bank, opts Options) error {
	p := tea.NewProgram(NewModel(bank, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
