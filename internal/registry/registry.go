package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/assetgrid/internal/stage"
)

// Module is the interface that all stage modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredStage holds the compiled Go parts of a stage kind.
type RegisteredStage struct {
	// NewArgs returns a pointer to a fresh, defaulted Args struct for the
	// stage body to be decoded into. Nil means the stage takes no arguments.
	NewArgs func() any
	// Build turns decoded arguments into a stage.
	Build func(args any) (stage.Stage, error)
}

// Registry holds all the registered stage kinds for a single application
// instance.
type Registry struct {
	stages map[string]*RegisteredStage
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{stages: make(map[string]*RegisteredStage)}
}

// RegisterStage registers the factory for a stage kind.
func (r *Registry) RegisterStage(kind string, s *RegisteredStage) {
	if _, exists := r.stages[kind]; exists {
		panic(fmt.Sprintf("stage with kind '%s' already registered", kind))
	}
	if s == nil || s.Build == nil {
		panic(fmt.Sprintf("stage with kind '%s' has no Build function", kind))
	}
	slog.Debug("Registering stage.", "kind", kind)
	r.stages[kind] = s
}

// Lookup returns the factory for kind.
func (r *Registry) Lookup(kind string) (*RegisteredStage, bool) {
	s, ok := r.stages[kind]
	return s, ok
}

// Kinds returns every registered kind in sorted order.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.stages))
	for k := range r.stages {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
