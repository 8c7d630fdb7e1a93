package ui

import "github.com/hajimehoshi/ebiten/v2"

// Widget is implemented by everything a Panel can hold
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	// MoveTo places the widget top-left corner
	MoveTo(x, y float64)
}

// inside reports whether the point lies in the rectangle, edges included
func inside(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}

// clickTracker turns a held mouse button into a single click
type clickTracker struct {
	pressed bool
}

// click returns true once per press that starts over the widget
func (c *clickTracker) click(over, down bool) bool {
	if over && down {
		if !c.pressed {
			c.pressed = true
			return true
		}
		return false
	}
	c.pressed = false
	return false
}

func cursorInside(x, y, w, h float64) bool {
	mx, my := ebiten.CursorPosition()
	return inside(float64(mx), float64(my), x, y, w, h)
}
