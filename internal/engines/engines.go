// Package engines defines the sorting-engine interface the study dispatcher
// invokes and a process-wide registry mapping engine names to
// implementations. Engines are opaque to the study: they consume a recording
// and produce a sorting, or fail.
package engines

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sortbench/internal/recording"
	"sortbench/internal/sorting"
)

// Params carries per-engine tuning options, typically decoded from YAML.
type Params map[string]any

// Float reads a numeric param, tolerating YAML's int/float decoding split.
func (p Params) Float(key string, fallback float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

// Engine produces a sorting from a recording. Run must honor ctx
// cancellation for long computations.
type Engine interface {
	Name() string
	Run(ctx context.Context, rec *recording.Recording, params Params) (*sorting.Sorting, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Engine)
)

// Register adds an engine to the registry, replacing any previous engine of
// the same name.
func Register(e Engine) {
	mu.Lock()
	defer mu.Unlock()
	registry[e.Name()] = e
}

// Lookup resolves an engine by name.
func Lookup(name string) (Engine, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("engines: %q is not registered", name)
	}
	return e, nil
}

// Names returns the registered engine names in ascending order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
