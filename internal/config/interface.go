package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for format-specific data binding. It acts as the
// bridge between raw stage bodies and the Args structs of stage modules.
type Converter interface {
	// DecodeStage decodes the body of a stage block into target, a pointer to
	// the module's Args struct.
	DecodeStage(ctx context.Context, st *Stage, target any, evalCtx *hcl.EvalContext) error
}
