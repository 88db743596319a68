package view

// DefaultClickSlop is the distance in pixels a press may move and still be
// released as a click.
const DefaultClickSlop = 3

// ClickGuard tells a click from the release of a drag. Frame based event
// loops see a click as a press and a release of the same button, so a
// release counts as a click only if the pointer stayed within Slop of the
// press position.
type ClickGuard struct {
	// Slop is the tolerated movement in pixels. Zero selects
	// DefaultClickSlop.
	Slop float64

	x, y    float64
	pressed bool
	moved   bool
}

func (c *ClickGuard) slop() float64 {
	if c.Slop <= 0 {
		return DefaultClickSlop
	}
	return c.Slop
}

// Press records the pointer position at a button press.
func (c *ClickGuard) Press(x, y float64) {
	c.x, c.y = x, y
	c.pressed, c.moved = true, false
}

// Move tracks the pointer while the button is held.
func (c *ClickGuard) Move(x, y float64) {
	if !c.pressed || c.moved {
		return
	}
	dx, dy := x-c.x, y-c.y
	if s := c.slop(); dx*dx+dy*dy > s*s {
		c.moved = true
	}
}

// Release reports whether the press ending at (x, y) is a click.
func (c *ClickGuard) Release(x, y float64) bool {
	c.Move(x, y)
	click := c.pressed && !c.moved
	c.pressed, c.moved = false, false
	return click
}
