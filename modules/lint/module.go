// Package lint checks JavaScript files and reports findings without ever
// failing the task.
package lint

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// Diagnostic codes.
const (
	CodeSyntax             = "E001"
	CodeTrailingWhitespace = "W001"
	CodeLineLength         = "W002"
	CodeMixedIndent        = "W003"
	CodeEqeqeq             = "W004"
	CodeDebugger           = "W005"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the lint stage.
type Args struct {
	MaxLineLength      int  `hcl:"max_line_length,optional"`
	Eqeqeq             bool `hcl:"eqeqeq,optional"`
	TrailingWhitespace bool `hcl:"trailing_whitespace,optional"`
}

// Stage lints files and passes them through unchanged.
type Stage struct {
	Args
}

// Apply reports the diagnostics of every file.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	total := 0
	for _, f := range in {
		diags := s.Check(f.Contents)
		total += len(diags)
		if env.Reporter != nil {
			env.Reporter.Lint(env.Rel(f.Path), diags)
		}
	}
	if total > 0 {
		env.Logger.Warn("Lint reported findings.", "files", len(in), "findings", total)
	}
	return in, nil
}

// Check returns the findings for one source file in line order.
func (s *Stage) Check(src []byte) []stage.Diagnostic {
	var diags []stage.Diagnostic
	if _, err := js.Parse(parse.NewInputBytes(src), js.Options{}); err != nil {
		d := stage.Diagnostic{Line: 1, Column: 1, Severity: stage.SeverityError, Code: CodeSyntax, Message: err.Error()}
		var perr *parse.Error
		if errors.As(err, &perr) {
			d.Line, d.Column, d.Message = perr.Line, perr.Column, perr.Message
		}
		diags = append(diags, d)
	}
	diags = append(diags, s.checkLines(src)...)
	diags = append(diags, s.checkTokens(src)...)
	slices.SortStableFunc(diags, compareDiagnostics)
	return diags
}

func (s *Stage) checkLines(src []byte) []stage.Diagnostic {
	var diags []stage.Diagnostic
	for i, line := range bytes.Split(src, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		n := i + 1
		if s.TrailingWhitespace {
			if trimmed := bytes.TrimRight(line, " \t"); len(trimmed) < len(line) {
				diags = append(diags, warning(n, len(trimmed)+1, CodeTrailingWhitespace, "trailing whitespace"))
			}
		}
		if s.MaxLineLength > 0 && len(line) > s.MaxLineLength {
			diags = append(diags, warning(n, s.MaxLineLength+1, CodeLineLength, fmt.Sprintf("line is longer than %d characters", s.MaxLineLength)))
		}
		indent := line[:len(line)-len(bytes.TrimLeft(line, " \t"))]
		if bytes.ContainsRune(indent, ' ') && bytes.ContainsRune(indent, '\t') {
			diags = append(diags, warning(n, 1, CodeMixedIndent, "mixed spaces and tabs"))
		}
	}
	return diags
}

// checkTokens scans the token stream, tracking positions by hand.
func (s *Stage) checkTokens(src []byte) []stage.Diagnostic {
	var diags []stage.Diagnostic
	l := js.NewLexer(parse.NewInputBytes(src))
	line, col := 1, 1
	for {
		tt, data := l.Next()
		if tt == js.ErrorToken {
			break
		}
		switch {
		case s.Eqeqeq && tt == js.EqEqToken:
			diags = append(diags, warning(line, col, CodeEqeqeq, "expected '===' and instead saw '=='"))
		case s.Eqeqeq && tt == js.NotEqToken:
			diags = append(diags, warning(line, col, CodeEqeqeq, "expected '!==' and instead saw '!='"))
		case tt == js.DebuggerToken:
			diags = append(diags, warning(line, col, CodeDebugger, "forgotten 'debugger' statement"))
		}
		if nl := bytes.Count(data, []byte("\n")); nl > 0 {
			line += nl
			col = len(data) - bytes.LastIndexByte(data, '\n')
		} else {
			col += len(data)
		}
	}
	return diags
}

func warning(line, col int, code, msg string) stage.Diagnostic {
	return stage.Diagnostic{Line: line, Column: col, Severity: stage.SeverityWarning, Code: code, Message: msg}
}

func compareDiagnostics(a, b stage.Diagnostic) int {
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	return cmp.Compare(a.Column, b.Column)
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("lint", &registry.RegisteredStage{
		NewArgs: func() any { return &Args{Eqeqeq: true, TrailingWhitespace: true} },
		Build: func(a any) (stage.Stage, error) {
			return &Stage{Args: *a.(*Args)}, nil
		},
	})
}
