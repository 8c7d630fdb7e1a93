package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 25.0
	sectionHeight = 25.0
	padding       = 10.0
)

// Panel stacks widgets under section headers in a fixed-width column
type Panel struct {
	Title   string
	X, Y    float64
	Width   float64
	Visible bool
	entries []panelEntry

	// Styling
	BGColor      color.RGBA
	BorderColor  color.RGBA
	SectionColor color.RGBA
}

// a panel entry is either a section header or a widget
type panelEntry struct {
	section string
	widget  Widget
}

// NewPanel creates a new, visible, empty panel
func NewPanel(title string, x, y, width float64) *Panel {
	return &Panel{
		Title:        title,
		X:            x,
		Y:            y,
		Width:        width,
		Visible:      true,
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection adds a section header
func (p *Panel) AddSection(title string) {
	p.entries = append(p.entries, panelEntry{section: title})
}

// AddCheckbox adds a checkbox under the last section
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.add(c)
	return c
}

// AddButton adds a full-width button under the last section
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-2*padding, 20, label, onClick)
	p.add(b)
	return b
}

func (p *Panel) add(w Widget) {
	p.entries = append(p.entries, panelEntry{widget: w})
	p.layout()
}

// layout places every widget from the top of the panel
func (p *Panel) layout() {
	y := p.Y + titleHeight
	for _, e := range p.entries {
		if e.widget == nil {
			y += sectionHeight
			continue
		}
		e.widget.MoveTo(p.X+padding, y)
		y += e.widget.Height()
	}
}

// Height is the total height of the panel content
func (p *Panel) Height() float64 {
	h := titleHeight + padding
	for _, e := range p.entries {
		if e.widget == nil {
			h += sectionHeight
			continue
		}
		h += e.widget.Height()
	}
	return h
}

// Contains reports whether the point lies on the panel
func (p *Panel) Contains(x, y float64) bool {
	return p.Visible && inside(x, y, p.X, p.Y, p.Width, p.Height())
}

// Update handles input for all widgets
func (p *Panel) Update() {
	if !p.Visible {
		return
	}
	for _, e := range p.entries {
		if e.widget != nil {
			e.widget.Update()
		}
	}
}

// Draw renders the panel and all widgets
func (p *Panel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}
	h := p.Height()
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+padding), int(p.Y+5))

	y := p.Y + titleHeight
	for _, e := range p.entries {
		if e.widget == nil {
			vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, p.SectionColor, true)
			ebitenutil.DebugPrintAt(screen, e.section, int(p.X+padding), int(y+2))
			y += sectionHeight
			continue
		}
		e.widget.Draw(screen)
		y += e.widget.Height()
	}
}
