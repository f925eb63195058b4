package tooltip

// Rect is an element's box in viewport coordinates (origin top-left).
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width of the box.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height of the box.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX is the horizontal midpoint.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Vertical is which side of the trigger the popover opens on.
type Vertical int

const (
	Top Vertical = iota
	Bottom
)

func (v Vertical) String() string {
	if v == Bottom {
		return "bottom"
	}
	return "top"
}

// Horizontal is how the popover is aligned against the trigger.
type Horizontal int

const (
	Centered Horizontal = iota
	ShiftedLeft
	ShiftedRight
)

func (h Horizontal) String() string {
	switch h {
	case ShiftedLeft:
		return "shifted-left"
	case ShiftedRight:
		return "shifted-right"
	default:
		return "centered"
	}
}

// Placement is where a popover goes relative to its trigger.
type Placement struct {
	Vertical   Vertical
	Horizontal Horizontal
}

const (
	// EdgeClearance is the slack required beyond the popover height to fit on one side.
	EdgeClearance = 16
	// ViewportMargin keeps the popover this far from the viewport's side edges.
	ViewportMargin = 8
)

// Decide picks a placement for a popover of size popover next to trigger
// inside a viewport of the given size. It is a pure function of geometry.
func Decide(trigger Rect, popover Size, viewport Size) Placement {
	var p Placement

	spaceAbove := trigger.Top
	spaceBelow := viewport.Height - trigger.Bottom
	switch {
	case spaceAbove > popover.Height+EdgeClearance:
		p.Vertical = Top
	case spaceBelow > popover.Height+EdgeClearance:
		p.Vertical = Bottom
	case spaceAbove >= spaceBelow:
		p.Vertical = Top
	default:
		p.Vertical = Bottom
	}

	left := trigger.CenterX() - popover.Width/2
	right := left + popover.Width
	switch {
	case right > viewport.Width-ViewportMargin:
		p.Horizontal = ShiftedLeft
	case left < ViewportMargin:
		p.Horizontal = ShiftedRight
	default:
		p.Horizontal = Centered
	}
	return p
}

// Origin returns the popover's top-left corner for placement p, leaving gap
// between the popover and the trigger.
// ShiftedLeft pins the popover's right edge to the trigger's right edge;
// ShiftedRight pins its left edge to the trigger's left edge.
func Origin(p Placement, trigger Rect, popover Size, gap float64) (x, y float64) {
	switch p.Horizontal {
	case ShiftedLeft:
		x = trigger.Right - popover.Width
	case ShiftedRight:
		x = trigger.Left
	default:
		x = trigger.CenterX() - popover.Width/2
	}
	if p.Vertical == Top {
		y = trigger.Top - gap - popover.Height
	} else {
		y = trigger.Bottom + gap
	}
	return x, y
}
