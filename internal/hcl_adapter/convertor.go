package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeStage decodes a stage body into target. A nil target accepts only an
// empty body.
func (c *Converter) DecodeStage(ctx context.Context, st *config.Stage, target any, evalCtx *hcl.EvalContext) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding stage body.", "kind", st.Kind, "range", st.Range.String())

	if target == nil {
		target = &struct{}{}
	}
	if diags := gohcl.DecodeBody(st.Body, evalCtx, target); diags.HasErrors() {
		return fmt.Errorf("stage '%s': %w", st.Kind, diags)
	}
	return nil
}

// Functions returns the functions available to every expression of a
// pipeline file.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"replace": stdlib.ReplaceFunc,
		"upper":   stdlib.UpperFunc,
		"lower":   stdlib.LowerFunc,
		"join":    stdlib.JoinFunc,
		"trim":    stdlib.TrimSpaceFunc,
	}
}

// NewEvalContext builds the evaluation context stage bodies and banner
// templates are evaluated in.
func NewEvalContext(vars map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: vars,
		Functions: Functions(),
	}
}
