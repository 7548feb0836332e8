// Package banner renders the license banners prepended to distributed files.
// Banners are HCL template expressions evaluated against the package
// metadata, exposed as `pkg`, and a per-task `description`.
package banner

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/assetgrid/internal/hcl_adapter"
	"github.com/vk/assetgrid/internal/pkgmeta"
	"github.com/vk/assetgrid/internal/stage"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const defaultVerbose = `/**
 * ${pkg.title} v${pkg.version} - ${pkg.description}
 * ${description}
 * ------------------------
 * @link ${pkg.homepage}
 * @license ${pkg.license}
 * @author ${pkg.author.name}
 *         Website : ${replace(pkg.author.url, "http://", "")}
 */

`

const defaultCondensed = `/** ${pkg.title} v${pkg.version} - ${pkg.description}` +
	` - ${replace(pkg.homepage, "http://", "")}` +
	` - License ${pkg.license}` +
	` - Author : ${pkg.author.name}` +
	` / ${replace(pkg.author.url, "http://", "")}` +
	" */\n"

// Set holds one template per banner kind.
type Set struct {
	templates map[stage.BannerKind]hcl.Expression
	pkg       cty.Value
}

var _ stage.Banners = (*Set)(nil)

// New builds the banner set. Overrides replace the built-in template of the
// kind they are keyed by.
func New(meta *pkgmeta.Metadata, overrides map[string]hcl.Expression) (*Set, error) {
	s := &Set{
		templates: make(map[stage.BannerKind]hcl.Expression, 2),
		pkg:       meta.CtyValue(),
	}
	defaults := map[stage.BannerKind]string{
		stage.BannerVerbose:   defaultVerbose,
		stage.BannerCondensed: defaultCondensed,
	}
	for kind, src := range defaults {
		expr, diags := hclsyntax.ParseTemplate([]byte(src), "banner."+string(kind), hcl.InitialPos)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s banner: %w", kind, diags)
		}
		s.templates[kind] = expr
	}
	for kind, expr := range overrides {
		s.templates[stage.BannerKind(kind)] = expr
	}
	return s, nil
}

// Render evaluates the banner of the given kind.
func (s *Set) Render(kind stage.BannerKind, description string) (string, error) {
	expr, ok := s.templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown banner %q", kind)
	}
	evalCtx := hcl_adapter.NewEvalContext(map[string]cty.Value{
		"pkg":         s.pkg,
		"description": cty.StringVal(description),
	})
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("rendering %s banner: %w", kind, diags)
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("rendering %s banner: %w", kind, err)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("rendering %s banner: result is not a known string", kind)
	}
	return val.AsString(), nil
}
