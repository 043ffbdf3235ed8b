package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Exporter is the capability every entity controller offers to the
// export endpoint and the CLI.
type Exporter interface {
	ExportToJSON(ctx context.Context) (string, error)
	ExportToCSV(ctx context.Context) (string, error)
	ImportFromJSON(ctx context.Context, doc string) error
}

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var (
	// ErrUnknownEntity is returned when no exporter is registered under a key.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrUnknownFormat is returned for formats other than json and csv.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Registry maps entity keys ("applications", "listings", "resumes") to
// their exporters.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Exporter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Exporter)}
}

// Register adds an exporter under key.
// Panics if the key is already registered.
func (r *Registry) Register(key string, e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		panic(fmt.Sprintf("exporter already registered: %s", key))
	}
	r.entries[key] = e
}

// Get returns the exporter for key.
func (r *Registry) Get(key string) (Exporter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	return e, ok
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Export renders the entity under key in the given format.
func (r *Registry) Export(ctx context.Context, key, format string) (string, error) {
	e, ok := r.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, key)
	}

	switch strings.ToLower(format) {
	case FormatJSON, "":
		return e.ExportToJSON(ctx)
	case FormatCSV:
		return e.ExportToCSV(ctx)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
