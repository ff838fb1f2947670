// Package watcher invalidates cached summaries when preprocessing rewrites
// an investment's chunk files.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// DefaultDebounce is how long a chunk file must be quiet before its
// summaries are invalidated. Preprocessing writes files in several steps.
const DefaultDebounce = 500 * time.Millisecond

const chunksSuffix = "_chunks.json"

// Watcher watches <root>/<id>/*_chunks.json and drops the matching summaries.
type Watcher struct {
	root      string
	chunks    driven.ChunkStore
	summaries driving.SummaryService
	debounce  time.Duration

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time

	invalidated chan Invalidation
}

// Invalidation records one dropped summary.
type Invalidation struct {
	InvestmentID string
	Name         string
	IsWebsite    bool
}

// New creates a watcher over the data directory root.
func New(root string, chunks driven.ChunkStore, summaries driving.SummaryService) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		root:      root,
		chunks:    chunks,
		summaries: summaries,
		debounce:  DefaultDebounce,
		fs:        fsw,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetDebounce changes the quiet period. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Notify makes the watcher report each invalidation on ch. Sends never block.
func (w *Watcher) Notify(ch chan Invalidation) {
	w.invalidated = ch
}

// Run watches until ctx is cancelled, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	if err := w.fs.Add(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.watchDir(filepath.Join(w.root, e.Name()))
		}
	}
	logger.Info("Watching %s for chunk changes", w.root)

	tick := max(w.debounce/4, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)

		case <-ticker.C:
			w.flush(ctx, time.Now())
		}
	}
}

func (w *Watcher) watchDir(dir string) {
	if err := w.fs.Add(dir); err != nil {
		logger.Warn("watcher: cannot watch %s: %v", dir, err)
		return
	}
	logger.Debug("watching %s", dir)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New investment directories appear directly under root.
	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(w.root) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.watchDir(event.Name)
			return
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !strings.HasSuffix(event.Name, chunksSuffix) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush processes chunk files that have been quiet for the debounce period.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if err := w.invalidate(ctx, path); err != nil {
			logger.Warn("watcher: %v", err)
		}
	}
}

// invalidate maps <root>/<id>/<key>_chunks.json back to the documents and
// websites of the investment and drops their summaries.
func (w *Watcher) invalidate(ctx context.Context, path string) error {
	id := filepath.Base(filepath.Dir(path))
	key := strings.TrimSuffix(filepath.Base(path), chunksSuffix)

	meta, err := w.chunks.LoadMetadata(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("watcher: no metadata for %s, skipping %s", id, path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load metadata for %s: %w", id, err)
	}

	var errs []error
	for _, file := range meta.FolderFiles {
		if domain.DocumentStem(file) == key {
			errs = append(errs, w.drop(ctx, id, file, false))
		}
	}
	for _, url := range meta.Websites {
		if domain.WebsiteKey(url) == key {
			errs = append(errs, w.drop(ctx, id, url, true))
		}
	}
	return errors.Join(errs...)
}

func (w *Watcher) drop(ctx context.Context, id, name string, isWebsite bool) error {
	if err := w.summaries.Invalidate(ctx, id, name, isWebsite); err != nil {
		return err
	}
	if w.invalidated != nil {
		select {
		case w.invalidated <- Invalidation{InvestmentID: id, Name: name, IsWebsite: isWebsite}:
		default:
		}
	}
	return nil
}
