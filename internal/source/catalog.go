package source

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog is a YAML list of items, e.g. the testimonials shown on the site
type Catalog struct {
	Version string `yaml:"version"`
	Entries []Item `yaml:"items"`

	dir string
}

// ReadCatalog reads a catalog. Relative image paths resolve against the file's directory.
func ReadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, it := range c.Entries {
		if it.Title == "" {
			return nil, fmt.Errorf("catalog %s: item %d has no title", path, i)
		}
	}
	c.dir = filepath.Dir(path)
	return &c, nil
}

// WriteCatalog writes a catalog to a YAML file
func WriteCatalog(c *Catalog, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.Entries...)
}

func (c *Catalog) Render(index int, dpi int) (image.Image, error) {
	if index < 0 || index >= len(c.Entries) {
		return nil, fmt.Errorf("item %d out of range", index)
	}
	img := c.Entries[index].Image
	if img == "" {
		return nil, ErrNoImage
	}
	if !filepath.IsAbs(img) {
		img = filepath.Join(c.dir, img)
	}
	return decodeFile(img)
}

func (c *Catalog) Close() error {
	return nil
}
