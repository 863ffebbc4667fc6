package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/source"
	"github.com/ivlev/carousel/internal/system"
)

// Frame composes carousel frames. Cards are prepared once per item and then
// placed according to each frame's assignments.
type Frame struct {
	Width, Height int
	CardRatio     float64 // card width as a share of the frame width
	Background    color.RGBA

	cards []*image.RGBA
}

func NewFrame(width, height int, cardRatio float64) *Frame {
	if cardRatio <= 0 {
		cardRatio = 0.28
	}
	return &Frame{
		Width:      width,
		Height:     height,
		CardRatio:  cardRatio,
		Background: color.RGBA{R: 18, G: 22, B: 38, A: 255},
	}
}

// CardSize is the unscaled card size in pixels
func (f *Frame) CardSize() (int, int) {
	w := int(float64(f.Width) * f.CardRatio)
	h := f.Height * 7 / 10
	return w, h
}

// Prepare builds one card per item. Items with an image in src become image
// cards; everything else becomes a text card.
func (f *Frame) Prepare(items []source.Item, src source.Source, dpi int) error {
	w, h := f.CardSize()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("frame %dx%d too small for cards", f.Width, f.Height)
	}

	f.cards = make([]*image.RGBA, len(items))
	for i, it := range items {
		if src != nil {
			img, err := src.Render(i, dpi)
			switch {
			case err == nil:
				f.cards[i] = ImageCard(img, w, h)
				continue
			case !errors.Is(err, source.ErrNoImage):
				return fmt.Errorf("render item %d: %w", i, err)
			}
		}
		f.cards[i] = TextCard(it, w, h)
	}
	return nil
}

// Render draws one frame. The caller owns the result and should hand it back with Release.
func (f *Frame) Render(assignments []engine.Assignment) *image.RGBA {
	dst := system.GetImage(image.Rect(0, 0, f.Width, f.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(f.Background), image.Point{}, draw.Src)

	order := make([]engine.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.Opacity > 0 && a.ItemIndex >= 0 && a.ItemIndex < len(f.cards) {
			order = append(order, a)
		}
	}
	// painter's order: lowest stack order first
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].StackOrder < order[j].StackOrder
	})

	cw, ch := f.CardSize()
	for _, a := range order {
		r := f.Placement(a, cw, ch)
		if !r.Overlaps(dst.Bounds()) {
			continue
		}
		card := f.cards[a.ItemIndex]
		var opts *xdraw.Options
		if a.Opacity < 1 {
			opts = &xdraw.Options{DstMask: image.NewUniform(color.Alpha{A: uint8(a.Opacity * 255)})}
		}
		xdraw.ApproxBiLinear.Scale(dst, r, card, card.Bounds(), draw.Over, opts)
	}
	return dst
}

// Placement is the on-frame rectangle of an assignment
func (f *Frame) Placement(a engine.Assignment, cw, ch int) image.Rectangle {
	w := int(float64(cw) * a.Scale)
	h := int(float64(ch) * a.Scale)
	cx := f.Width/2 + int(a.LateralOffset/100*float64(cw))
	cy := f.Height / 2
	return image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
}

// Release returns a rendered frame to the buffer pool
func (f *Frame) Release(img *image.RGBA) {
	system.PutImage(img)
}
