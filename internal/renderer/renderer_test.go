package renderer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/carousel/internal/effects"
	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/source"
	"github.com/ivlev/carousel/internal/viewport"
)

func TestInterpolateEndpoints(t *testing.T) {
	from := engine.ComputeAssignments(6, 0, 5)
	to := engine.ComputeAssignments(6, 1, 5)

	start := Interpolate(from, to, 0, effects.EaseInOutCubic)
	end := Interpolate(from, to, 1, effects.EaseInOutCubic)

	for i := range to {
		if end[i] != to[i] {
			t.Errorf("t=1 item %d: expected %+v, got %+v", i, to[i], end[i])
		}
		if start[i].LateralOffset != from[i].LateralOffset {
			t.Errorf("t=0 item %d: expected offset %.1f, got %.1f", i, from[i].LateralOffset, start[i].LateralOffset)
		}
		if start[i].Active != from[i].Active {
			t.Errorf("t=0 item %d: active flag should still be the source's", i)
		}
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	from := []engine.Assignment{{ItemIndex: 0, LateralOffset: 0, Scale: 1.05, Opacity: 1, Active: true}}
	to := []engine.Assignment{{ItemIndex: 0, LateralOffset: -35, Scale: 1, Opacity: 1}}

	mid := Interpolate(from, to, 0.5, effects.Linear)
	if math.Abs(mid[0].LateralOffset+17.5) > 1e-9 {
		t.Errorf("expected offset -17.5, got %f", mid[0].LateralOffset)
	}
	if mid[0].Active {
		t.Error("flags should switch to the target at the midpoint")
	}

	// out-of-range progress is clamped
	over := Interpolate(from, to, 3, nil)
	if over[0].LateralOffset != -35 {
		t.Errorf("expected clamp to -35, got %f", over[0].LateralOffset)
	}
}

func TestInterpolateNewItem(t *testing.T) {
	to := []engine.Assignment{{ItemIndex: 4, LateralOffset: 70, Scale: 1, Opacity: 1, Visible: true}}
	got := Interpolate(nil, to, 0.2, effects.Linear)
	if got[0] != to[0] {
		t.Errorf("unmatched items should jump to the target, got %+v", got[0])
	}
}

func TestTextCard(t *testing.T) {
	item := source.Item{
		Title:  "Ada Lovelace",
		Author: "Ada",
		Role:   "Analyst",
		Quote:  "The engine weaves algebraic patterns just as the loom weaves flowers and leaves.",
		Link:   "https://example.com/ada",
	}
	card := TextCard(item, 320, 240)
	if card.Bounds() != image.Rect(0, 0, 320, 240) {
		t.Fatalf("unexpected bounds %v", card.Bounds())
	}
	if got := card.RGBAAt(0, 0); got != cardBorder {
		t.Errorf("expected border colour at corner, got %v", got)
	}

	// the QR code puts dark modules into the bottom right corner
	dark := 0
	for y := 240 - cardPadding - 60; y < 240-cardPadding; y++ {
		for x := 320 - cardPadding - 60; x < 320-cardPadding; x++ {
			if c := card.RGBAAt(x, y); c.R < 64 && c.G < 64 && c.B < 64 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("expected a QR code in the corner")
	}
}

func TestTextCardTooSmall(t *testing.T) {
	card := TextCard(source.Item{Title: "x"}, 20, 20)
	if card.Bounds().Dx() != 20 {
		t.Errorf("expected a blank 20px card, got %v", card.Bounds())
	}
}

func TestImageCardLetterbox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	red := color.RGBA{R: 255, A: 255}
	for i := range src.Pix {
		if i%4 == 0 || i%4 == 3 {
			src.Pix[i] = 255
		}
	}

	card := ImageCard(src, 200, 200)
	if got := card.RGBAAt(100, 100); got.R < 240 || got.G > 15 || got.B > 15 {
		t.Errorf("expected %v in the middle, got %v", red, got)
	}
	if got := card.RGBAAt(100, 10); got != cardBackground {
		t.Errorf("expected background above the letterboxed image, got %v", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three fourfivesix", 8)
	want := []string{"one two", "three", "fourfive", "six"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, lines)
	}
	if truncate("abcdefgh", 5) != "ab..." {
		t.Errorf("unexpected truncate result %q", truncate("abcdefgh", 5))
	}
	if truncate("abc", 0) != "" {
		t.Error("zero width should truncate to nothing")
	}
}

type stubSource struct {
	items []source.Item
	img   image.Image
}

func (s stubSource) Items() []source.Item { return s.items }
func (s stubSource) Close() error         { return nil }
func (s stubSource) Render(index, dpi int) (image.Image, error) {
	if index == 0 {
		return s.img, nil
	}
	if index == 1 {
		return nil, source.ErrNoImage
	}
	return nil, errors.New("broken")
}

func TestFramePrepareFallsBackToText(t *testing.T) {
	items := []source.Item{{Title: "a"}, {Title: "b"}}
	f := NewFrame(640, 360, 0.3)
	src := stubSource{items: items, img: image.NewRGBA(image.Rect(0, 0, 10, 10))}
	if err := f.Prepare(items, src, 72); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(f.cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(f.cards))
	}

	items = append(items, source.Item{Title: "c"})
	if err := f.Prepare(items, stubSource{items: items}, 72); err == nil {
		t.Error("expected render errors other than ErrNoImage to surface")
	}
}

func TestFrameRender(t *testing.T) {
	items := []source.Item{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}, {Title: "e"}, {Title: "f"}}
	f := NewFrame(640, 360, 0.25)
	if err := f.Prepare(items, nil, 0); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	img := f.Render(engine.ComputeAssignments(len(items), 0, 5))
	defer f.Release(img)

	if img.Bounds() != image.Rect(0, 0, 640, 360) {
		t.Fatalf("unexpected frame bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 2); got != f.Background {
		t.Errorf("expected background in the corner, got %v", got)
	}
	// the active card covers the centre
	if got := img.RGBAAt(320, 180); got == f.Background {
		t.Error("expected a card in the middle of the frame")
	}
}

func TestFramePlacement(t *testing.T) {
	f := NewFrame(1000, 500, 0.2)
	cw, ch := f.CardSize()
	r := f.Placement(engine.Assignment{LateralOffset: 100, Scale: 1}, cw, ch)
	if r.Dx() != cw || r.Min.X != 500+cw-cw/2 {
		t.Errorf("unexpected placement %v for card %dx%d", r, cw, ch)
	}
	big := f.Placement(engine.Assignment{Scale: 1.05}, cw, ch)
	if big.Dx() <= cw {
		t.Errorf("scaled card should be wider than %d, got %d", cw, big.Dx())
	}
}

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestTerminalDrawsActiveCard(t *testing.T) {
	screen := newTestScreen(t, 120, 20)
	items := []source.Item{{Title: "Alpha"}, {Title: "Beta"}, {Title: "Gamma"}, {Title: "Delta"}, {Title: "Eps"}, {Title: "Zeta"}}
	term := NewTerminal(screen, items, viewport.Default(), 60)

	if got := term.SlotCount(); got != 5 {
		t.Fatalf("expected 5 slots on a wide terminal, got %d", got)
	}
	term.SetTarget(engine.ComputeAssignments(len(items), 0, term.SlotCount()))
	term.Draw("focus 1/6")

	// the active card is centred, its title starts two cells inside the left border
	width, height := screen.Size()
	cw := int(float64(width) / 2.6)
	x := width/2 - cw/2 + 2
	ch := min(height-2, 12)
	y := (height-1-ch)/2 + 1
	var got strings.Builder
	for i := 0; i < len("Gamma"); i++ {
		r, _, style, _ := screen.GetContent(x+i, y)
		got.WriteRune(r)
		if i == 0 && style != activeStyle {
			t.Errorf("expected active style on the centred card")
		}
	}
	if got.String() != "Gamma" {
		t.Errorf("expected %q at the centre, got %q", "Gamma", got.String())
	}

	var status strings.Builder
	for i := 0; i < len("focus 1/6"); i++ {
		r, _, _, _ := screen.GetContent(i, 19)
		status.WriteRune(r)
	}
	if status.String() != "focus 1/6" {
		t.Errorf("unexpected status line %q", status.String())
	}
}

func TestTerminalCompact(t *testing.T) {
	screen := newTestScreen(t, 60, 16)
	term := NewTerminal(screen, []source.Item{{Title: "a"}, {Title: "b"}, {Title: "c"}}, viewport.Default(), 30)
	if got := term.SlotCount(); got != 1 {
		t.Errorf("expected 1 slot on a narrow terminal, got %d", got)
	}
}

func TestTerminalUsesConfiguredSlots(t *testing.T) {
	screen := newTestScreen(t, 120, 20)
	classifier := viewport.Classifier{Breakpoint: 2000, CompactSlots: 1, ExpandedSlots: 3}
	term := NewTerminal(screen, make([]source.Item, 6), classifier, 30)

	// slot counts come from the classifier, the breakpoint is in columns
	if got := term.SlotCount(); got != 3 {
		t.Errorf("expected 3 configured slots, got %d", got)
	}
}

func TestTerminalSpringSettles(t *testing.T) {
	screen := newTestScreen(t, 120, 20)
	items := make([]source.Item, 6)
	term := NewTerminal(screen, items, viewport.Default(), 60)

	term.SetTarget(engine.ComputeAssignments(6, 0, 5))
	if term.Step() {
		t.Error("first target should be applied without animation")
	}

	term.SetTarget(engine.ComputeAssignments(6, 1, 5))
	if !term.Step() {
		t.Fatal("expected cards to move after focus change")
	}
	for i := 0; i < 600 && term.Step(); i++ {
	}
	if term.Step() {
		t.Fatal("springs did not settle")
	}
	if got := term.Position(3); got != 0 {
		t.Errorf("new active item should settle at 0, got %f", got)
	}
	if got := term.Position(2); got != -35 {
		t.Errorf("previous active item should settle at -35, got %f", got)
	}
}
