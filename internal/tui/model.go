package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/KaramelBytes/aqicast-cli/internal/pollutant"
	"github.com/KaramelBytes/aqicast-cli/internal/predict"
	"github.com/KaramelBytes/aqicast-cli/internal/session"
	"github.com/KaramelBytes/aqicast-cli/internal/tooltip"
)

const (
	labelWidth   = 10
	inputWidth   = 12
	popoverWidth = 38
	// rows rendered above the first input
	headerRows = 3
)

type submitDoneMsg struct {
	out predict.Outcome
	err error
}

// Model is the interactive prediction form.
type Model struct {
	ctx  context.Context
	sess *session.Session

	inputs []textinput.Model
	focus  int

	popover    tooltip.Popover
	showActual bool
	submitting bool
	outcome    *predict.Outcome
	status     string

	spin   spinner.Model
	help   help.Model
	keys   KeyMap
	styles Styles

	width, height int
}

// New builds a form model over sess.
func New(ctx context.Context, sess *session.Session) *Model {
	m := &Model{
		ctx:    ctx,
		sess:   sess,
		spin:   spinner.New(),
		help:   help.New(),
		keys:   DefaultKeyMap(),
		styles: NewStyles(),
		width:  80,
		height: 24,
	}
	m.spin.Spinner = spinner.Dot
	m.inputs = make([]textinput.Model, len(pollutant.Names))
	for i, name := range pollutant.Names {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = "0"
		in.CharLimit = 16
		in.Width = inputWidth
		in.SetValue(sess.Form.Get(name))
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

// Run starts the form full-screen and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		out := msg.out
		m.outcome = &out
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Info):
		m.popover.Handle(tooltip.TriggerClick, float64(m.width))
		return m, nil
	case key.Matches(msg, m.keys.Actual):
		m.showActual = !m.showActual
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	}

	// The form and selection stay frozen while a request is outstanding.
	if m.submitting {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.NextSample):
		m.cycleSample(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevSample):
		m.cycleSample(-1)
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.sess.ClearSample()
		m.syncInputs()
		m.status = "Cleared"
		return m, nil
	}
	return m, m.edit(msg)
}

// edit forwards a keystroke to the focused input and keeps it only if the
// form accepts the resulting text.
func (m *Model) edit(msg tea.KeyMsg) tea.Cmd {
	name := pollutant.Names[m.focus]
	prev := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	next := m.inputs[m.focus].Value()
	if next != prev && !m.sess.Form.Set(name, next) {
		m.inputs[m.focus].SetValue(prev)
		m.inputs[m.focus].CursorEnd()
	}
	return cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.popover.Handle(tooltip.OutsideClick, float64(m.width))
	m.inputs[m.focus].Blur()
	n := len(m.inputs)
	m.focus = ((m.focus+delta)%n + n) % n
	return m.inputs[m.focus].Focus()
}

func (m *Model) cycleSample(delta int) {
	samples := m.sess.Samples()
	if len(samples) == 0 {
		m.status = "No samples loaded"
		return
	}
	_, cur, ok := m.sess.Selected()
	next := 0
	if ok {
		n := len(samples)
		next = ((cur+delta)%n + n) % n
	} else if delta < 0 {
		next = len(samples) - 1
	}
	if err := m.sess.Select(next); err != nil {
		m.status = err.Error()
		return
	}
	m.syncInputs()
	m.status = ""
}

func (m *Model) submit() tea.Cmd {
	if m.submitting || m.sess.Busy() {
		m.status = session.ErrSubmitInFlight.Error()
		return nil
	}
	m.submitting = true
	m.outcome = nil
	m.status = ""
	sess, ctx := m.sess, m.ctx
	run := func() tea.Msg {
		out, err := sess.Submit(ctx)
		return submitDoneMsg{out: out, err: err}
	}
	return tea.Batch(m.spin.Tick, run)
}

func (m *Model) syncInputs() {
	for i, name := range pollutant.Names {
		m.inputs[i].SetValue(m.sess.Form.Get(name))
		m.inputs[i].CursorEnd()
	}
}
