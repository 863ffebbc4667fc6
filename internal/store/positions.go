// Package store remembers where a viewer left each carousel so the next
// session can resume there.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const positionsObject = "positions"

// Position is the saved state of one catalog
type Position struct {
	Catalog string        `yaml:"catalog"`
	Focus   int           `yaml:"focus"`
	Count   int           `yaml:"count"` // collection size when saved
	Period  time.Duration `yaml:"period,omitempty"`
	Paused  bool          `yaml:"paused,omitempty"`
	SavedAt time.Time     `yaml:"saved_at"`
}

// Positions persists one Position per catalog. With a nil manager it keeps
// positions in memory only.
type Positions struct {
	mu  sync.Mutex
	m   *gdata.Manager
	mem map[string]Position
	log *zap.Logger
}

// Open opens the per-user data directory for appName. On failure the returned
// store still works in memory-only mode alongside the error.
func Open(appName string, log *zap.Logger) (*Positions, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		p := New(nil, log)
		return p, fmt.Errorf("open data dir: %w", err)
	}
	return New(m, log), nil
}

func New(m *gdata.Manager, log *zap.Logger) *Positions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Positions{m: m, mem: make(map[string]Position), log: log}
}

// Persistent reports whether positions survive the process
func (p *Positions) Persistent() bool {
	return p.m != nil
}

// key maps a catalog path to a stable property name that is safe on every platform
func key(catalog string) string {
	return strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceURL, []byte(catalog)).String(), "-", "")
}

// Load returns the saved position for catalog
func (p *Positions) Load(catalog string) (Position, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := key(catalog)
	if pos, ok := p.mem[k]; ok {
		return pos, true, nil
	}
	if p.m == nil || !p.m.ObjectPropExists(positionsObject, k) {
		return Position{}, false, nil
	}

	data, err := p.m.LoadObjectProp(positionsObject, k)
	if err != nil {
		return Position{}, false, fmt.Errorf("failed to load position: %w", err)
	}
	var pos Position
	if err := yaml.Unmarshal(data, &pos); err != nil {
		return Position{}, false, fmt.Errorf("failed to unmarshal position: %w", err)
	}
	p.mem[k] = pos
	return pos, true, nil
}

// Resume returns the position to start from. The autoplay settings are kept
// even when the saved focus no longer applies: a position saved for a
// collection of a different size starts at focus 0.
func (p *Positions) Resume(catalog string, count int) Position {
	pos, ok, err := p.Load(catalog)
	if err != nil {
		p.log.Warn("saved position unreadable", zap.String("catalog", catalog), zap.Error(err))
		return Position{Catalog: catalog, Count: count}
	}
	if !ok {
		return Position{Catalog: catalog, Count: count}
	}
	if pos.Count != count || pos.Focus < 0 || pos.Focus >= count {
		pos.Focus = 0
	}
	pos.Count = count
	return pos
}

// Save stores pos under catalog
func (p *Positions) Save(catalog string, pos Position) error {
	pos.Catalog = catalog
	if pos.SavedAt.IsZero() {
		pos.SavedAt = time.Now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	k := key(catalog)
	p.mem[k] = pos
	if p.m == nil {
		return nil
	}

	data, err := yaml.Marshal(pos)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}
	if err := p.m.SaveObjectProp(positionsObject, k, data); err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	p.log.Debug("position saved", zap.String("catalog", catalog), zap.Int("focus", pos.Focus))
	return nil
}
