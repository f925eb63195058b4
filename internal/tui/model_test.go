package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KaramelBytes/aqicast-cli/internal/dataset"
	"github.com/KaramelBytes/aqicast-cli/internal/predict"
	"github.com/KaramelBytes/aqicast-cli/internal/session"
)

type stubPredictor struct {
	got map[string]float64
	out predict.Outcome
}

func (p *stubPredictor) Run(_ context.Context, features map[string]float64) predict.Outcome {
	p.got = features
	return p.out
}

func newModel(t *testing.T, p session.Predictor) *Model {
	t.Helper()
	samples := []dataset.SampleRecord{
		{"City": "Delhi", "PM2.5": "300", "CO": "2.1", "AQI": "450"},
		{"City": "Mumbai", "PM2.5": "50", "AQI": ""},
	}
	m := New(context.Background(), session.New(samples, p))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// findDone runs cmd (unwrapping batches) and returns the submit result.
func findDone(t *testing.T, cmd tea.Cmd) submitDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	switch msg := cmd().(type) {
	case submitDoneMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if done, ok := c().(submitDoneMsg); ok {
				return done
			}
		}
	}
	t.Fatalf("no submit result in command")
	return submitDoneMsg{}
}

func TestEditsGoThroughForm(t *testing.T) {
	m := newModel(t, &stubPredictor{})
	press(m, runes("5"))
	if got := m.sess.Form.Get("PM2.5"); got != "05" {
		t.Fatalf("accepted edit not stored: %q", got)
	}
	press(m, runes("a"))
	if got := m.inputs[0].Value(); got != "05" {
		t.Fatalf("rejected edit should restore input, got %q", got)
	}
	if got := m.sess.Form.Get("PM2.5"); got != "05" {
		t.Fatalf("rejected edit changed form: %q", got)
	}
	press(m, runes("."), runes("5"), runes("."))
	if got := m.sess.Form.Get("PM2.5"); got != "05.5" {
		t.Fatalf("second decimal point should be rejected, got %q", got)
	}
}

func TestFocusCyclesAndClosesPopover(t *testing.T) {
	m := newModel(t, &stubPredictor{})
	press(m, runes("?"))
	if !m.popover.Open() {
		t.Fatalf("? should open the info popover")
	}
	if v := m.View(); !strings.Contains(v, "Fine inhalable") {
		t.Fatalf("popover content missing from view:\n%s", v)
	}
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.popover.Open() {
		t.Fatalf("moving focus should close the popover")
	}
	if m.focus != 1 {
		t.Fatalf("focus = %d, want 1", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != len(m.inputs)-1 {
		t.Fatalf("focus should wrap to last field, got %d", m.focus)
	}
	press(m, runes("?"), runes("?"))
	if m.popover.Open() {
		t.Fatalf("second ? should close the popover")
	}
}

func TestSampleCyclingAndClear(t *testing.T) {
	m := newModel(t, &stubPredictor{})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if rec, _, ok := m.sess.Selected(); !ok || rec.City() != "Delhi" {
		t.Fatalf("ctrl+n should select the first city")
	}
	if m.inputs[0].Value() != "300" || m.inputs[1].Value() != "" {
		t.Fatalf("inputs not synced: %q %q", m.inputs[0].Value(), m.inputs[1].Value())
	}
	press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if rec, _, _ := m.sess.Selected(); rec.City() != "Mumbai" {
		t.Fatalf("expected Mumbai, got %q", rec.City())
	}
	press(m, tea.KeyMsg{Type: tea.KeyCtrlP}, tea.KeyMsg{Type: tea.KeyCtrlP})
	if rec, _, _ := m.sess.Selected(); rec.City() != "Mumbai" {
		t.Fatalf("ctrl+p should wrap, got %q", rec.City())
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	if v := m.View(); !strings.Contains(v, "Actual AQI: N/A") {
		t.Fatalf("expected N/A actual value in view:\n%s", v)
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if _, _, ok := m.sess.Selected(); ok {
		t.Fatalf("clear should deselect")
	}
	for i, in := range m.inputs {
		if in.Value() != "" {
			t.Fatalf("input %d not cleared: %q", i, in.Value())
		}
	}
}

func TestSubmitShowsResult(t *testing.T) {
	v := 412.3
	p := &stubPredictor{out: predict.Outcome{Result: &predict.Result{Prediction: &v, AQICategory: "Severe", ModelUsed: "Random Forest"}}}
	m := newModel(t, p)
	press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.submitting {
		t.Fatalf("expected submitting state")
	}
	if !strings.Contains(m.View(), "Predicting") {
		t.Fatalf("expected progress indicator")
	}
	press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if _, _, ok := m.sess.Selected(); !ok {
		t.Fatalf("form must stay frozen while submitting")
	}

	done := findDone(t, cmd)
	press(m, done)
	if m.submitting {
		t.Fatalf("should leave submitting state")
	}
	if p.got["PM2.5"] != 300 || p.got["CO"] != 2.1 || p.got["NO"] != 0 {
		t.Fatalf("unexpected features: %v", p.got)
	}
	view := m.View()
	if !strings.Contains(view, "Predicted AQI: 412.30") || !strings.Contains(view, "Severe") {
		t.Fatalf("result missing from view:\n%s", view)
	}
}

func TestSubmitShowsFailureMessage(t *testing.T) {
	p := &stubPredictor{out: predict.Outcome{Failure: &predict.Failure{Kind: predict.KindBackendUnavailable, Message: predict.MsgBackendUnavailable}}}
	m := newModel(t, p)
	press(m, findDone(t, press(m, tea.KeyMsg{Type: tea.KeyEnter})))
	if !strings.Contains(m.View(), predict.MsgBackendUnavailable) {
		t.Fatalf("failure message missing:\n%s", m.View())
	}
}

func TestOverlayPlacesBoxInCells(t *testing.T) {
	base := "aaaaaaaa\nbbbbbbbb\ncccccccc"
	got := overlay(base, "XY\nZW", 3, 1)
	want := "aaaaaaaa\nbbbXYbbb\ncccZWccc"
	if got != want {
		t.Fatalf("overlay:\n got %q\nwant %q", got, want)
	}
	got = overlay("ab", "XY", 4, 0)
	if got != "ab  XY" {
		t.Fatalf("overlay past line end: %q", got)
	}
}
