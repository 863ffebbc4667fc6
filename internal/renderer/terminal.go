package renderer

import (
	"math"
	"sort"

	"github.com/charmbracelet/harmonica"
	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/source"
	"github.com/ivlev/carousel/internal/viewport"
)

var (
	cardStyle   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	activeStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Terminal draws the carousel as boxes on a tcell screen. Lateral offsets
// follow their targets through critically damped springs so slides animate
// between commands.
type Terminal struct {
	screen     tcell.Screen
	items      []source.Item
	classifier viewport.Classifier
	spring     harmonica.Spring

	target []engine.Assignment
	pos    []float64
	vel    []float64
}

// NewTerminal uses the slot counts of classifier with the terminal column breakpoint
func NewTerminal(screen tcell.Screen, items []source.Item, classifier viewport.Classifier, fps int) *Terminal {
	if fps <= 0 {
		fps = 60
	}
	return &Terminal{
		screen:     screen,
		items:      items,
		classifier: classifier.ForTerminal(),
		spring:     harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// SlotCount is the number of visible slots for the current screen width
func (t *Terminal) SlotCount() int {
	w, _ := t.screen.Size()
	return t.classifier.SlotCount(w)
}

// SetTarget sets the assignments the cards move towards. The first target
// after construction or a change in item count is applied without animation.
func (t *Terminal) SetTarget(as []engine.Assignment) {
	snap := len(t.pos) != len(as)
	if snap {
		t.pos = make([]float64, len(as))
		t.vel = make([]float64, len(as))
	}
	t.target = append(t.target[:0], as...)
	if snap {
		for i, a := range t.target {
			t.pos[i] = a.LateralOffset
		}
	}
}

// Step advances the springs by one frame and reports whether any card is still moving.
func (t *Terminal) Step() bool {
	moving := false
	for i, a := range t.target {
		t.pos[i], t.vel[i] = t.spring.Update(t.pos[i], t.vel[i], a.LateralOffset)
		if math.Abs(t.pos[i]-a.LateralOffset) > 0.05 || math.Abs(t.vel[i]) > 0.05 {
			moving = true
		} else {
			t.pos[i], t.vel[i] = a.LateralOffset, 0
		}
	}
	return moving
}

// Position is the current animated lateral offset of an item
func (t *Terminal) Position(item int) float64 {
	for i, a := range t.target {
		if a.ItemIndex == item {
			return t.pos[i]
		}
	}
	return 0
}

// Draw paints all visible cards and a status line, then shows the screen.
func (t *Terminal) Draw(status string) {
	t.screen.Clear()
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	cw := int(float64(w) / 2.6)
	if t.classifier.Mode(w) == viewport.Compact {
		cw = int(float64(w) * 0.8)
	}
	ch := min(h-2, 12)
	top := (h - 1 - ch) / 2

	idx := make([]int, 0, len(t.target))
	for i, a := range t.target {
		if a.Opacity > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.target[idx[a]].StackOrder < t.target[idx[b]].StackOrder
	})

	for _, i := range idx {
		a := t.target[i]
		cx := w/2 + int(math.Round(t.pos[i]/100*float64(cw)))
		style := cardStyle
		if a.Active {
			style = activeStyle
		}
		var it source.Item
		if a.ItemIndex >= 0 && a.ItemIndex < len(t.items) {
			it = t.items[a.ItemIndex]
		}
		t.drawCard(cx-cw/2, top, cw, ch, it, style)
	}

	t.drawText(0, h-1, w, status, statusStyle)
	t.screen.Show()
}

func (t *Terminal) drawCard(x, y, w, h int, it source.Item, style tcell.Style) {
	if w < 4 || h < 3 {
		return
	}
	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			r := ' '
			switch {
			case cy == y && cx == x:
				r = '┌'
			case cy == y && cx == x+w-1:
				r = '┐'
			case cy == y+h-1 && cx == x:
				r = '└'
			case cy == y+h-1 && cx == x+w-1:
				r = '┘'
			case cy == y || cy == y+h-1:
				r = '─'
			case cx == x || cx == x+w-1:
				r = '│'
			}
			t.setCell(cx, cy, r, style)
		}
	}

	inner := w - 4
	row := y + 1
	t.drawText(x+2, row, inner, it.Title, style)
	row++
	if b := Byline(it); b != "" && row < y+h-1 {
		t.drawText(x+2, row, inner, b, style)
		row++
	}
	row++
	for _, line := range wrapText(it.Quote, inner) {
		if row >= y+h-1 {
			break
		}
		t.drawText(x+2, row, inner, line, style)
		row++
	}
}

func (t *Terminal) drawText(x, y, width int, s string, style tcell.Style) {
	for _, r := range truncate(s, width) {
		t.setCell(x, y, r, style)
		x++
	}
}

func (t *Terminal) setCell(x, y int, r rune, style tcell.Style) {
	w, h := t.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	t.screen.SetContent(x, y, r, nil, style)
}
