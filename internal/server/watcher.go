package server

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/source"
)

// CatalogWatcher reloads a catalog file when it changes on disk. The parent
// directory is watched because editors usually replace files on save.
type CatalogWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func([]source.Item)
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	reloads int
	errors  int
}

func NewCatalogWatcher(path string, onReload func([]source.Item), log *zap.Logger) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogWatcher{
		path:     abs,
		watcher:  w,
		onReload: onReload,
		debounce: 200 * time.Millisecond,
		log:      log,
	}, nil
}

// Run processes events until ctx is done and then closes the watcher
func (cw *CatalogWatcher) Run(ctx context.Context) error {
	defer cw.watcher.Close()

	var pending bool
	var due time.Time
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cw.log.Debug("catalog changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			pending = true
			due = time.Now().Add(cw.debounce)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.log.Warn("catalog watcher error", zap.Error(err))

		case now := <-ticker.C:
			if pending && !now.Before(due) {
				pending = false
				cw.reload()
			}
		}
	}
}

func (cw *CatalogWatcher) reload() {
	cat, err := source.ReadCatalog(cw.path)
	if err != nil {
		// keep serving the previous collection
		cw.mu.Lock()
		cw.errors++
		cw.mu.Unlock()
		cw.log.Warn("catalog reload failed", zap.String("path", cw.path), zap.Error(err))
		return
	}
	cw.mu.Lock()
	cw.reloads++
	cw.mu.Unlock()
	cw.onReload(cat.Items())
}

// Reloads returns how many reloads succeeded and failed
func (cw *CatalogWatcher) Reloads() (ok, failed int) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.reloads, cw.errors
}
