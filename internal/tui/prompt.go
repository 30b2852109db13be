// Package tui implements the interactive operating-point session.
package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pipeflow/internal/flow"
	"github.com/san-kum/pipeflow/internal/viz"
)

var (
	cyan = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Evaluator computes an operating point for a pipe.
type Evaluator interface {
	OperatingPoint(spec flow.PipeSpec) (flow.OperatingPoint, error)
}

type stage int

const (
	stageDiameter stage = iota
	stageRoughness
	stageFlow
	stageContinue
)

var prompts = map[stage]string{
	stageDiameter:  "Pipe diameter (in): ",
	stageRoughness: "Absolute roughness (micro-in): ",
	stageFlow:      "Flow rate (gpm): ",
	stageContinue:  "Evaluate another point? (y/n): ",
}

// Model prompts for diameter, roughness and flow rate, evaluates the point
// and asks whether to continue. Input that does not parse re-prompts the
// same field without calling the evaluator.
type Model struct {
	ev      Evaluator
	stage   stage
	input   string
	spec    flow.PipeSpec
	errMsg  string
	last    *flow.OperatingPoint
	points  []flow.OperatingPoint
	done    bool
	aborted bool
}

func New(ev Evaluator) Model {
	return Model{ev: ev}
}

// Points returns the operating points evaluated so far, in order.
func (m Model) Points() []flow.OperatingPoint { return m.points }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.done, m.aborted = true, true
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyRunes, tea.KeySpace:
		if m.stage == stageContinue {
			return m.answer(string(key.Runes))
		}
		m.input += string(key.Runes)
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.stage == stageContinue {
		return m.answer(m.input)
	}

	raw := strings.TrimSpace(m.input)
	m.input = ""
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.errMsg = fmt.Sprintf("could not parse %q as a number", raw)
		return m, nil
	}
	m.errMsg = ""

	switch m.stage {
	case stageDiameter:
		m.spec.DiameterInches = v
		m.stage = stageRoughness
	case stageRoughness:
		m.spec.RoughnessMicroInches = v
		m.stage = stageFlow
	case stageFlow:
		m.spec.FlowRateGPM = v
		op, err := m.ev.OperatingPoint(m.spec)
		if err != nil {
			m.errMsg = err.Error()
			m.spec = flow.PipeSpec{}
			m.stage = stageDiameter
			return m, nil
		}
		m.last = &op
		m.points = append(m.points, op)
		m.stage = stageContinue
	}
	return m, nil
}

func (m Model) answer(s string) (tea.Model, tea.Cmd) {
	m.input = ""
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		m.stage = stageDiameter
		m.spec = flow.PipeSpec{}
		m.errMsg = ""
		return m, nil
	case "n", "no", "q":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render("pipe operating point") + "\n")
	b.WriteString(dim.Render("water at 1e-5 ft^2/s, ctrl+c to quit") + "\n\n")

	if n := len(m.points); n > 1 {
		for _, op := range m.points[:n-1] {
			b.WriteString(dim.Render(Summary(op)) + "\n")
		}
		b.WriteString("\n")
	}

	if m.stage == stageContinue && m.last != nil {
		b.WriteString(viz.OperatingPanel(*m.last) + "\n")
		b.WriteString(Summary(*m.last) + "\n\n")
	}
	if m.errMsg != "" {
		b.WriteString(viz.ErrorText.Render(m.errMsg) + "\n")
	}
	if !m.done {
		b.WriteString(cyan.Render(prompts[m.stage]) + m.input + "\n")
	}
	return b.String()
}

// Summary formats an operating point on one line.
func Summary(op flow.OperatingPoint) string {
	return fmt.Sprintf("%c Re = %.2f  f = %.5f  head loss = %.5f ft/ft (%s)",
		op.Marker.Symbol(), op.Reynolds, op.FrictionFactor, op.HeadLossPerFoot, op.Regime)
}

// Run drives the session on in/out and returns the collected points.
func Run(ev Evaluator, in io.Reader, out io.Writer) ([]flow.OperatingPoint, error) {
	p := tea.NewProgram(New(ev), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("tui: unexpected model %T", final)
	}
	return m.points, nil
}
