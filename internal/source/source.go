// Package source loads the ordered, immutable item collections a carousel shows.
package source

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrNoImage is returned by Render for items that only carry text
var ErrNoImage = errors.New("item has no image")

// Item is one carousel entry, e.g. a testimonial
type Item struct {
	Title  string `yaml:"title" json:"title"`
	Author string `yaml:"author,omitempty" json:"author,omitempty"`
	Role   string `yaml:"role,omitempty" json:"role,omitempty"`
	Quote  string `yaml:"quote,omitempty" json:"quote,omitempty"`
	Image  string `yaml:"image,omitempty" json:"image,omitempty"`
	Link   string `yaml:"link,omitempty" json:"link,omitempty"`
}

type Source interface {
	Items() []Item
	Render(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a source from the path: YAML catalog, PDF, or image directory/file
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return ReadCatalog(path)
	case ".pdf":
		return NewFitzPDFSource(path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return NewImageSource(path)
}

// FitzPDFSource turns every PDF page into an item
type FitzPDFSource struct {
	doc   *fitz.Document
	path  string
	items []Item
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	items := make([]Item, doc.NumPage())
	for i := range items {
		items[i] = Item{Title: fmt.Sprintf("%s, page %d", base, i+1)}
	}
	return &FitzPDFSource{doc: doc, path: path, items: items}, nil
}

func (f *FitzPDFSource) Items() []Item {
	return append([]Item(nil), f.items...)
}

// Render opens a private document handle so pages can be rendered from several goroutines
func (f *FitzPDFSource) Render(index int, dpi int) (image.Image, error) {
	if index < 0 || index >= len(f.items) {
		return nil, fmt.Errorf("page %d out of range", index)
	}
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
