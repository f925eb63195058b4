package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/KaramelBytes/aqicast-cli/internal/aqi"
	"github.com/KaramelBytes/aqicast-cli/internal/pollutant"
	"github.com/KaramelBytes/aqicast-cli/internal/tooltip"
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("aqicast · AQI prediction"))
	b.WriteString("\n")
	b.WriteString(m.selectionLine())
	b.WriteString("\n\n")

	for i, name := range pollutant.Names {
		label := m.styles.Label.Render(name)
		if i == m.focus {
			label = m.styles.Focused.Render(name)
		}
		unit := m.styles.Muted.Render(pollutant.Describe(name).Unit)
		b.WriteString(fmt.Sprintf("  %s %s %s\n", label, m.inputs[i].View(), unit))
	}
	b.WriteString("\n")
	b.WriteString(m.resultView())
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	view := b.String()
	if m.popover.Open() {
		view = m.overlayPopover(view)
	}
	return view
}

func (m *Model) selectionLine() string {
	rec, idx, ok := m.sess.Selected()
	if !ok {
		n := len(m.sess.Samples())
		return m.styles.Muted.Render(fmt.Sprintf("No city selected (%d samples, ctrl+n to pick)", n))
	}
	line := fmt.Sprintf("City: %s (%d/%d)", rec.City(), idx+1, len(m.sess.Samples()))
	if m.showActual {
		if v, ok := m.sess.ActualAQI(); ok {
			line += "  Actual AQI: " + v
			if label, ok := aqi.Classify(v); ok {
				line += " " + aqi.Emoji(label) + " " + label
			}
		}
	}
	return line
}

func (m *Model) resultView() string {
	if m.submitting {
		return m.spin.View() + " Predicting..."
	}
	if m.outcome == nil {
		return m.styles.Muted.Render("Press enter to predict.")
	}
	if f := m.outcome.Failure; f != nil {
		return m.styles.Error.Render("✗ " + f.Message)
	}
	res := m.outcome.Result
	value := "N/A"
	if res.Prediction != nil {
		value = fmt.Sprintf("%.2f", *res.Prediction)
	}
	var b strings.Builder
	b.WriteString("Predicted AQI: " + value)
	if cat, ok := aqi.Lookup(res.AQICategory); ok {
		b.WriteString("  " + categoryStyle(cat.Color).Render(cat.Emoji+" "+cat.Label))
		b.WriteString("\n" + cat.Status)
		for _, tip := range cat.Tips {
			b.WriteString("\n  " + tip.Icon + " " + tip.Text)
		}
	} else if res.AQICategory != "" {
		b.WriteString("  " + aqi.Emoji(res.AQICategory) + " " + res.AQICategory)
	}
	if res.ModelUsed != "" {
		b.WriteString("\n" + m.styles.Muted.Render("model: "+res.ModelUsed))
	}
	return b.String()
}

func (m *Model) popoverContent() string {
	info := pollutant.Describe(pollutant.Names[m.focus])
	body := lipgloss.NewStyle().Bold(true).Render(info.Name) + "\n" + info.Description
	if info.Unit != "" {
		body += "\nUnit: " + info.Unit
	}
	if info.Note != "" {
		body += "\n" + info.Note
	}
	return m.styles.Popover.Render(body)
}

// overlayPopover draws the focused field's info box over view, positioned
// against the field label in terminal cells.
func (m *Model) overlayPopover(view string) string {
	box := m.popoverContent()
	size := tooltip.Size{Width: float64(lipgloss.Width(box)), Height: float64(lipgloss.Height(box))}
	row := float64(headerRows + m.focus)
	trigger := tooltip.Rect{Left: 2, Top: row, Right: 2 + labelWidth, Bottom: row + 1}
	viewport := tooltip.Size{Width: float64(m.width), Height: float64(m.height)}

	p := tooltip.Decide(trigger, size, viewport)
	fx, fy := tooltip.Origin(p, trigger, size, 0)
	x := clamp(int(fx), 0, m.width-int(size.Width))
	y := clamp(int(fy), 0, m.height-int(size.Height))
	return overlay(view, box, x, y)
}

// overlay replaces the cells of base under box with box's lines.
func overlay(base, box string, x, y int) string {
	lines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	for len(lines) < y+len(boxLines) {
		lines = append(lines, "")
	}
	for i, bl := range boxLines {
		line := lines[y+i]
		left := ansi.Truncate(line, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ""
		if ansi.StringWidth(line) > x+ansi.StringWidth(bl) {
			right = ansi.TruncateLeft(line, x+ansi.StringWidth(bl), "")
		}
		lines[y+i] = left + bl + right
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
