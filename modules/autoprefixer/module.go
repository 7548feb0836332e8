// Package autoprefixer adds vendor-prefixed declarations for the configured
// browser targets.
package autoprefixer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the autoprefixer stage.
type Args struct {
	Browsers []string `hcl:"browsers,optional"`
}

// Stage rewrites stylesheets.
type Stage struct {
	targets Targets
}

// New creates a stage for the given browser queries.
func New(browsers []string) (*Stage, error) {
	if len(browsers) == 0 {
		browsers = DefaultBrowsers
	}
	t, err := ParseBrowsers(browsers)
	if err != nil {
		return nil, err
	}
	return &Stage{targets: t}, nil
}

// Apply prefixes every file.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	out := make(fileset.FileSet, len(in))
	for i, f := range in {
		data, err := s.Prefix(f.Contents)
		if err != nil {
			return nil, stage.Wrap("autoprefixer", env.Rel(f.Path), err)
		}
		out[i] = f.WithContents(data)
	}
	return out, nil
}

// declaration is one buffered property of the innermost open block.
type declaration struct {
	property string
	value    string
}

// block collects the declarations of one ruleset or at-rule body.
type block struct {
	decls []declaration
}

// Prefix re-serializes a stylesheet one declaration per line, inserting the
// prefixed variants of each declaration before it unless the block already
// declares them.
func (s *Stage) Prefix(src []byte) ([]byte, error) {
	p := css.NewParser(parse.NewInputBytes(src), false)
	var buf bytes.Buffer
	var stack []*block

	indent := func() string { return strings.Repeat("  ", len(stack)) }
	flush := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		s.writeDecls(&buf, top.decls, indent())
		top.decls = nil
	}

	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			if len(stack) != 0 {
				return nil, fmt.Errorf("unexpected end of stylesheet: %d unclosed blocks", len(stack))
			}
			return buf.Bytes(), nil
		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			flush()
			buf.WriteString(indent())
			buf.Write(data)
			writeValues(&buf, p.Values(), gt == css.BeginAtRuleGrammar)
			buf.WriteString(" {\n")
			stack = append(stack, &block{})
		case css.EndRulesetGrammar, css.EndAtRuleGrammar:
			flush()
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			buf.WriteString(indent())
			buf.WriteString("}\n")
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			var v bytes.Buffer
			writeValues(&v, p.Values(), false)
			d := declaration{property: string(data), value: strings.TrimSpace(v.String())}
			if len(stack) == 0 {
				return nil, fmt.Errorf("declaration %q outside of a block", d.property)
			}
			top := stack[len(stack)-1]
			top.decls = append(top.decls, d)
		case css.AtRuleGrammar:
			flush()
			buf.WriteString(indent())
			buf.Write(data)
			writeValues(&buf, p.Values(), true)
			buf.WriteString(";\n")
		case css.CommentGrammar:
			flush()
			buf.WriteString(indent())
			buf.Write(data)
			buf.WriteString("\n")
		default:
			buf.Write(data)
		}
	}
}

func (s *Stage) writeDecls(buf *bytes.Buffer, decls []declaration, indent string) {
	declared := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		declared[strings.ToLower(d.property)] = struct{}{}
	}
	for _, d := range decls {
		for _, prefix := range s.targets.Prefixes(d.property) {
			name := prefix + d.property
			if _, ok := declared[strings.ToLower(name)]; ok {
				continue
			}
			fmt.Fprintf(buf, "%s%s: %s;\n", indent, name, d.value)
		}
		fmt.Fprintf(buf, "%s%s: %s;\n", indent, d.property, d.value)
	}
}

// writeValues writes the tokens of a prelude or value. At-rule preludes keep
// a separating space after the rule name.
func writeValues(buf *bytes.Buffer, vals []css.Token, atRule bool) {
	for i, v := range vals {
		if i == 0 && atRule && v.TokenType != css.WhitespaceToken {
			buf.WriteByte(' ')
		}
		buf.Write(v.Data)
	}
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("autoprefixer", &registry.RegisteredStage{
		NewArgs: func() any { return new(Args) },
		Build: func(a any) (stage.Stage, error) {
			st, err := New(a.(*Args).Browsers)
			if err != nil {
				return nil, fmt.Errorf("autoprefixer: %w", err)
			}
			return st, nil
		},
	})
}
