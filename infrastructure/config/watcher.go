// Package config watches the on-disk constraint catalogue and keeps a
// parsed, ready-to-compile snapshot behind a mutex, notifying registered
// callbacks on every reload. Grounded on this codebase's
// infrastructure/config/watcher.go (fsnotify + debounce + onChange
// callbacks), retargeted from a JSON feature-flag document to a YAML
// constraint catalogue.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"depconstraints/domain/services"
)

// CatalogueRecord is the on-disk YAML shape of one constraint record.
type CatalogueRecord struct {
	Description string `yaml:"description"`
	Penalty *float64 `yaml:"penalty,omitempty"`
	Boost *float64 `yaml:"boost,omitempty"`
	Premise map[string]any `yaml:"premise"`
	Condition map[string]any `yaml:"condition"`
}

// ToRawConstraint converts the YAML record into the schema-validator/
// compiler's input shape.
func (r CatalogueRecord) ToRawConstraint() services.RawConstraint {
	return services.RawConstraint{
		Description: r.Description,
		Penalty: r.Penalty,
		Boost: r.Boost,
		Premise: r.Premise,
		Condition: r.Condition,
	}
}

// CatalogueFile is the top-level YAML document: a mapping whose
// "constraints" key holds the list of records.
type CatalogueFile struct {
	Constraints []CatalogueRecord `yaml:"constraints"`
}

// CatalogueWatcher watches a YAML catalogue file for changes and hot-swaps
// the parsed record set behind a sync.RWMutex, exactly as this codebase's
// ConfigWatcher hot-swaps DynamicConfig.
type CatalogueWatcher struct {
	path string
	watcher *fsnotify.Watcher
	mu sync.RWMutex
	current []services.RawConstraint
	onChange []func([]services.RawConstraint)
	logger *zap.Logger
	stopCh chan struct{}
}

// NewCatalogueWatcher loads path once and wires an fsnotify watcher on it
// (and its parent directory, to catch atomic rename-based saves).
func NewCatalogueWatcher(path string, logger *zap.Logger) (*CatalogueWatcher, error) {
	records, err := loadCatalogueFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial catalogue: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch catalogue file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch catalogue directory", zap.Error(err))
	}

	return &CatalogueWatcher{
		path: path,
		watcher: watcher,
		current: records,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins watching for catalogue changes in the background.
func (w *CatalogueWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("catalogue watcher started", zap.String("path", w.path))
}

// Stop stops the watcher and releases the underlying fsnotify handle.
func (w *CatalogueWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("catalogue watcher stopped")
}

func (w *CatalogueWatcher) watchLoop() {
	var debounceTimer *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDuration, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalogue file watcher error", zap.Error(err))
		}
	}
}

func (w *CatalogueWatcher) reload() {
	w.logger.Info("catalogue file changed, reloading", zap.String("path", w.path))

	records, err := loadCatalogueFile(w.path)
	if err != nil {
		w.logger.Error("failed to reload catalogue, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = records
	handlers := append([]func([]services.RawConstraint){}, w.onChange...)
	w.mu.Unlock()

	w.logger.Info("catalogue reloaded", zap.Int("recordCount", len(records)))
	for _, handler := range handlers {
		go handler(records)
	}
}

// OnChange registers a callback invoked (in its own goroutine) after every
// successful reload.
func (w *CatalogueWatcher) OnChange(handler func([]services.RawConstraint)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// Current returns the most recently loaded record set.
func (w *CatalogueWatcher) Current() []services.RawConstraint {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]services.RawConstraint, len(w.current))
	copy(out, w.current)
	return out
}

func loadCatalogueFile(path string) ([]services.RawConstraint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}

	var file CatalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue YAML: %w", err)
	}

	records := make([]services.RawConstraint, 0, len(file.Constraints))
	for _, r := range file.Constraints {
		records = append(records, r.ToRawConstraint())
	}
	return records, nil
}
