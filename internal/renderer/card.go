package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/carousel/internal/source"
)

var (
	cardBackground = color.RGBA{R: 250, G: 250, B: 252, A: 255}
	cardBorder     = color.RGBA{R: 210, G: 214, B: 224, A: 255}
	cardTitle      = color.RGBA{R: 20, G: 24, B: 40, A: 255}
	cardText       = color.RGBA{R: 70, G: 76, B: 96, A: 255}
)

const (
	cardPadding = 12
	lineHeight  = 16
)

// TextCard draws a testimonial card: title, wrapped quote, author line and,
// when the item links somewhere, a QR code in the bottom right corner.
func TextCard(item source.Item, w, h int) *image.RGBA {
	card := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(card, card.Bounds(), image.NewUniform(cardBorder), image.Point{}, draw.Src)
	draw.Draw(card, image.Rect(1, 1, w-1, h-1), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	charsPerLine := (w - 2*cardPadding) / face.Advance
	if charsPerLine < 4 {
		return card
	}

	qrSize := 0
	if item.Link != "" && h > 6*lineHeight {
		qrSize = min(w, h) / 4
		if q, err := qrcode.New(item.Link, qrcode.Medium); err == nil {
			q.DisableBorder = true
			code := q.Image(qrSize)
			at := image.Pt(w-cardPadding-qrSize, h-cardPadding-qrSize)
			draw.Draw(card, image.Rectangle{Min: at, Max: at.Add(image.Pt(qrSize, qrSize))}, code, image.Point{}, draw.Src)
		} else {
			qrSize = 0
		}
	}

	y := cardPadding + face.Ascent
	drawLine(card, cardTitle, cardPadding, y, truncate(item.Title, charsPerLine))
	y += 2 * lineHeight

	bottom := h - cardPadding - lineHeight
	if qrSize > 0 {
		bottom -= qrSize
	}
	for _, line := range wrapText(item.Quote, charsPerLine) {
		if y > bottom {
			break
		}
		drawLine(card, cardText, cardPadding, y, line)
		y += lineHeight
	}

	if byline := Byline(item); byline != "" {
		drawLine(card, cardTitle, cardPadding, h-cardPadding, truncate(byline, charsPerLine))
	}
	return card
}

// ImageCard letterboxes img into a w×h card
func ImageCard(img image.Image, w, h int) *image.RGBA {
	card := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(card, card.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return card
	}
	scale := min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	sw, sh := int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)
	off := image.Pt((w-sw)/2, (h-sh)/2)

	xdraw.CatmullRom.Scale(card, image.Rectangle{Min: off, Max: off.Add(image.Pt(sw, sh))}, img, b, draw.Over, nil)
	return card
}

// Byline formats "- Author, Role"
func Byline(item source.Item) string {
	switch {
	case item.Author != "" && item.Role != "":
		return "- " + item.Author + ", " + item.Role
	case item.Author != "":
		return "- " + item.Author
	}
	return ""
}

func drawLine(dst draw.Image, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// wrapText breaks s into lines of at most width runes, splitting on spaces
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = cur[:0]
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			lines = append(lines, string(cur))
			cur = append(cur[:0:0], w...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
