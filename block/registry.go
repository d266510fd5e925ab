package block

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	// ErrNotFound is returned by Resolve for a name that was never
	// registered.
	ErrNotFound = errors.New("block: not registered")
	// ErrDuplicate is returned by Register for a name already in use.
	ErrDuplicate = errors.New("block: already registered")
	// ErrInvalid is returned for an empty name or nil renderer.
	ErrInvalid = errors.New("block: invalid registration")
)

// Registry maps block names to renderers. It is safe for concurrent use;
// registration normally happens once at start-up.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	logger    *log.Logger
}

// NewRegistry returns an empty registry. A nil logger discards warnings.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{
		renderers: make(map[string]Renderer),
		logger:    logger,
	}
}

func validate(name string, r Renderer) (string, error) {
	base, _ := SplitID(name)
	if base == "" || r == nil {
		return "", fmt.Errorf("%w: name %q", ErrInvalid, name)
	}
	return base, nil
}

// Register adds a renderer under name. It fails with ErrDuplicate when the
// name is taken; use RegisterOrReplace to overwrite deliberately.
func (r *Registry) Register(name string, rd Renderer) error {
	base, err := validate(name, rd)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.renderers[base]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, base)
	}
	r.renderers[base] = rd
	return nil
}

// RegisterOrReplace adds or overwrites the renderer under name. Replacing
// an existing renderer logs a warning.
func (r *Registry) RegisterOrReplace(name string, rd Renderer) error {
	base, err := validate(name, rd)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.renderers[base]; ok {
		r.logger.Warn("block already registered, replacing", "block", base)
	}
	r.renderers[base] = rd
	return nil
}

// Resolve strips any ":variant" suffix from id and returns the renderer
// registered under the base name.
func (r *Registry) Resolve(id string) (Renderer, error) {
	base, _ := SplitID(id)
	r.mu.RLock()
	rd, ok := r.renderers[base]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, base)
	}
	return rd, nil
}

// Has reports whether id resolves.
func (r *Registry) Has(id string) bool {
	_, err := r.Resolve(id)
	return err == nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.renderers))
	for n := range r.renderers {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
