// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Thermoquad/cancrc/pkg/crc15"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	tuiBits       string
	tuiIterations int
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive CRC calculator",
	Long: `Open a terminal form for computing CRCs interactively.

Type a bit string (up to 96 bits, spaces ignored), pick the number of
repetitions on the logarithmic slider and press Enter. The CRC, total time
and per-iteration time are shown, and every result is kept in the history
panel.

Keys:
  tab / shift+tab   move between input, slider and history
  left / right      adjust the slider (pgup / pgdown for a full decade)
  enter             compute
  esc / ctrl+c      quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiBits, "bits", "10000111", "Initial bit string")
	tuiCmd.Flags().IntVarP(&tuiIterations, "iterations", "n", 1, "Initial number of repetitions (used exactly until the slider moves)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	m := initialCalcModel(tuiBits, tuiIterations)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// Focus states
const (
	focusInput = iota
	focusSlider
	focusHistory
	focusCount
)

// Slider geometry: 10 positions per decade, 10^0 through 10^9
const (
	sliderStepsPerDecade = 10
	sliderMax            = 9 * sliderStepsPerDecade
	sliderWidth          = 36
	maxHistoryEntries    = 50
)

// iterationsAt maps a slider position to a repetition count
func iterationsAt(pos int) int {
	if pos <= 0 {
		return 1
	}
	if pos >= sliderMax {
		return crc15.MaxIterations
	}
	n := int(math.Round(math.Pow(10, float64(pos)/sliderStepsPerDecade)))
	if n < 1 {
		n = 1
	}
	return n
}

// sliderPosFor returns the slider position closest to n
func sliderPosFor(n int) int {
	if n <= 1 {
		return 0
	}
	pos := int(math.Round(math.Log10(float64(n)) * sliderStepsPerDecade))
	if pos > sliderMax {
		pos = sliderMax
	}
	return pos
}

// calcResult is one completed computation
type calcResult struct {
	data      []byte
	crc       uint16
	timing    crc15.Timing
	timestamp time.Time
}

// historyItem adapts a calcResult for the history list
type historyItem struct {
	result calcResult
}

func (i historyItem) Title() string {
	return fmt.Sprintf("%s  <- %s", crc15.FormatCRC(i.result.crc), formatInput(i.result.data))
}

func (i historyItem) Description() string {
	return fmt.Sprintf("%s  %d x %v", i.result.timestamp.Format("15:04:05"), i.result.timing.Iterations, i.result.timing.PerIteration)
}

func (i historyItem) FilterValue() string {
	return crc15.FormatCRC(i.result.crc)
}

// TUI model
type calcModel struct {
	engine *crc15.Engine

	input     textinput.Model
	sliderPos int
	exact     int // --iterations value, used until the slider moves
	history   list.Model
	focus     int

	last      *calcResult
	errMsg    string
	computing bool

	width    int
	height   int
	quitting bool
}

// Messages
type calcDoneMsg struct {
	result calcResult
	err    error
}

func initialCalcModel(bits string, iterations int) calcModel {
	ti := textinput.New()
	ti.Placeholder = "10000111"
	ti.CharLimit = 0 // length is checked by ParseBitString
	ti.Width = 48
	ti.Prompt = ""
	ti.SetValue(bits)
	ti.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	history := list.New([]list.Item{}, delegate, 60, 10)
	history.Title = "History"
	history.SetShowStatusBar(false)
	history.SetShowHelp(false)
	history.SetFilteringEnabled(false)

	return calcModel{
		engine:    crc15.New(),
		input:     ti,
		sliderPos: sliderPosFor(iterations),
		exact:     iterations,
		history:   history,
		focus:     focusInput,
		width:     80,
		height:    24,
	}
}

func (m calcModel) Init() tea.Cmd {
	return textinput.Blink
}

// iterations returns the --iterations value, or the slider count once moved
func (m calcModel) iterations() int {
	if m.exact > 0 {
		return m.exact
	}
	return iterationsAt(m.sliderPos)
}

// computeCmd parses and computes off the UI goroutine
func computeCmd(engine *crc15.Engine, input string, iterations int) tea.Cmd {
	return func() tea.Msg {
		data, err := crc15.ParseBitString(input)
		if err != nil {
			return calcDoneMsg{err: err}
		}
		crc, timing, err := crc15.Run(engine, data, iterations)
		if err != nil {
			return calcDoneMsg{err: err}
		}
		return calcDoneMsg{result: calcResult{
			data:      data,
			crc:       crc,
			timing:    timing,
			timestamp: time.Now(),
		}}
	}
}

func (m calcModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.SetSize(msg.Width-4, m.historyHeight())
		return m, nil

	case calcDoneMsg:
		m.computing = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		result := msg.result
		m.last = &result
		cmd := m.history.InsertItem(0, historyItem{result: result})
		if n := len(m.history.Items()); n > maxHistoryEntries {
			m.history.RemoveItem(n - 1)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m calcModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "q":
		if m.focus != focusInput {
			m.quitting = true
			return m, tea.Quit
		}

	case "tab":
		return m.cycleFocus(1), nil

	case "shift+tab":
		return m.cycleFocus(-1), nil

	case "enter":
		if m.computing {
			return m, nil
		}
		m.computing = true
		m.errMsg = ""
		return m, computeCmd(m.engine, m.input.Value(), m.iterations())
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		m.input, cmd = m.input.Update(msg)

	case focusSlider:
		switch msg.String() {
		case "left", "h":
			m.sliderPos = max(0, m.sliderPos-1)
		case "right", "l":
			m.sliderPos = min(sliderMax, m.sliderPos+1)
		case "pgdown", "down", "j":
			m.sliderPos = max(0, m.sliderPos-sliderStepsPerDecade)
		case "pgup", "up", "k":
			m.sliderPos = min(sliderMax, m.sliderPos+sliderStepsPerDecade)
		case "home":
			m.sliderPos = 0
		case "end":
			m.sliderPos = sliderMax
		default:
			return m, nil
		}
		m.exact = 0

	case focusHistory:
		m.history, cmd = m.history.Update(msg)
	}

	return m, cmd
}

func (m calcModel) cycleFocus(delta int) calcModel {
	m.focus = (m.focus + delta + focusCount) % focusCount
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	return m
}

func (m calcModel) historyHeight() int {
	h := m.height - 16 // Reserve space for form and results
	if h < 4 {
		h = 4
	}
	return h
}

// renderSlider draws the logarithmic iteration slider
func (m calcModel) renderSlider() string {
	filled := m.sliderPos * sliderWidth / sliderMax
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", sliderWidth-filled) + "]"
}

func (m calcModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	focusedBoxStyle := boxStyle.
		BorderForeground(lipgloss.Color("12"))

	boxFor := func(field int) lipgloss.Style {
		if m.focus == field {
			return focusedBoxStyle
		}
		return boxStyle
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("CANCRC - CRC-15/CAN CALCULATOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render("tab: next field | enter: compute | esc: quit"))
	s.WriteString("\n\n")

	// Form
	s.WriteString(labelStyle.Render("Bits:"))
	s.WriteString("\n")
	s.WriteString(boxFor(focusInput).Render(m.input.View()))
	s.WriteString("\n")

	s.WriteString(labelStyle.Render("Iterations:"))
	s.WriteString("\n")
	s.WriteString(boxFor(focusSlider).Render(fmt.Sprintf("%s %s",
		m.renderSlider(), valueStyle.Render(fmt.Sprintf("%d", m.iterations())))))
	s.WriteString("\n\n")

	// Results
	result := strings.Builder{}
	switch {
	case m.computing:
		result.WriteString(warningStyle.Render(fmt.Sprintf("Computing %d iterations...", m.iterations())))
	case m.last != nil:
		result.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Parsed bits:   "), crc15.FormatBits(m.last.data)))
		result.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Result:        "), valueStyle.Render(crc15.FormatCRC(m.last.crc))))
		result.WriteString(fmt.Sprintf("%s %v\n", labelStyle.Render("Execution time:"), m.last.timing.Total))
		result.WriteString(fmt.Sprintf("%s %v", labelStyle.Render("Iteration time:"), m.last.timing.PerIteration))
	default:
		result.WriteString(headerStyle.Render("(press enter to compute)"))
	}
	if m.errMsg != "" {
		result.WriteString("\n")
		result.WriteString(errorStyle.Render(m.errMsg))
	}
	s.WriteString(boxStyle.Render(result.String()))
	s.WriteString("\n\n")

	// History
	if len(m.history.Items()) == 0 {
		s.WriteString(headerStyle.Render("  (no history yet)"))
	} else {
		s.WriteString(boxFor(focusHistory).Render(m.history.View()))
	}

	return s.String()
}
