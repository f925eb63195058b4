package tooltip

// TouchBreakpoint is the viewport width below which popovers use tap interaction.
const TouchBreakpoint = 900

// Mode is how a popover is opened and closed.
type Mode int

const (
	// ModeHover opens on pointer enter or focus and closes on leave or blur.
	ModeHover Mode = iota
	// ModeTouch toggles on trigger click and closes on an outside click.
	ModeTouch
)

func (m Mode) String() string {
	if m == ModeTouch {
		return "touch"
	}
	return "hover"
}

// ModeFor picks the interaction mode for a viewport width.
func ModeFor(viewportWidth float64) Mode {
	if viewportWidth < TouchBreakpoint {
		return ModeTouch
	}
	return ModeHover
}

// Event is a user interaction relevant to a popover.
type Event int

const (
	PointerEnter Event = iota
	PointerLeave
	Focus
	Blur
	TriggerClick
	OutsideClick
)

// Popover tracks whether an informational popover is open.
// The mode is chosen when an open is attempted and kept until it closes.
type Popover struct {
	open bool
	mode Mode
}

// Open reports whether the popover is showing.
func (p *Popover) Open() bool { return p.open }

// Mode returns the mode chosen for the current (or last) open.
func (p *Popover) Mode() Mode { return p.mode }

// Handle applies ev and returns whether the popover is open afterwards.
func (p *Popover) Handle(ev Event, viewportWidth float64) bool {
	if !p.open {
		switch ev {
		case PointerEnter, Focus, TriggerClick:
			p.mode = ModeFor(viewportWidth)
			p.open = opens(p.mode, ev)
		}
		return p.open
	}
	switch p.mode {
	case ModeHover:
		if ev == PointerLeave || ev == Blur {
			p.open = false
		}
	case ModeTouch:
		if ev == TriggerClick || ev == OutsideClick {
			p.open = false
		}
	}
	return p.open
}

// Close hides the popover unconditionally.
func (p *Popover) Close() { p.open = false }

func opens(m Mode, ev Event) bool {
	if m == ModeTouch {
		return ev == TriggerClick
	}
	return ev == PointerEnter || ev == Focus
}
