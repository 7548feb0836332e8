package lint

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/stage"
	"github.com/vk/assetgrid/internal/testutil"
)

func defaultStage() *Stage {
	return &Stage{Args{Eqeqeq: true, TrailingWhitespace: true, MaxLineLength: 40}}
}

func codes(diags []stage.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestCheck(t *testing.T) {
	t.Run("clean file", func(t *testing.T) {
		assert.Empty(t, defaultStage().Check([]byte("var a = 1;\nif (a === 1) {\n    a++;\n}\n")))
	})

	t.Run("style findings", func(t *testing.T) {
		src := "var a = 1; \nif (a == 1) {\n\t  debugger;\n}\nvar thisLineIsWayTooLongForTheConfiguredLimit = 1;\n"
		diags := defaultStage().Check([]byte(src))

		assert.Equal(t, []string{CodeTrailingWhitespace, CodeEqeqeq, CodeMixedIndent, CodeDebugger, CodeLineLength}, codes(diags))
		assert.Equal(t, stage.Diagnostic{Line: 1, Column: 11, Severity: stage.SeverityWarning, Code: CodeTrailingWhitespace, Message: "trailing whitespace"}, diags[0])
		assert.Equal(t, 2, diags[1].Line)
		assert.Equal(t, 7, diags[1].Column)
		assert.Equal(t, 3, diags[3].Line)
		assert.Equal(t, 4, diags[3].Column)
	})

	t.Run("syntax error", func(t *testing.T) {
		diags := defaultStage().Check([]byte("var a = ;\n"))
		require.NotEmpty(t, diags)
		assert.Equal(t, CodeSyntax, diags[0].Code)
		assert.Equal(t, stage.SeverityError, diags[0].Severity)
		assert.Equal(t, 1, diags[0].Line)
	})

	t.Run("rules can be disabled", func(t *testing.T) {
		s := &Stage{}
		assert.Empty(t, s.Check([]byte("if (a != b) { x(); }   \n")))
	})
}

func TestApplyNeverFails(t *testing.T) {
	root := t.TempDir()
	env, rep := testutil.NewEnv(root)
	in := fileset.FileSet{
		{Path: filepath.Join(root, "src", "broken.js"), Contents: []byte("function (")},
		{Path: filepath.Join(root, "src", "ok.js"), Contents: []byte("var ok = true;\n")},
	}

	out, err := defaultStage().Apply(testutil.Context(), env, in)

	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.NotEmpty(t, rep.Diags["src/broken.js"])
	assert.Empty(t, rep.Diags["src/ok.js"])
}

func TestCompareDiagnostics_StableLineOrder(t *testing.T) {
	diags := []stage.Diagnostic{
		{Line: 3, Column: 1, Code: "c"},
		{Line: 1, Column: 5, Code: "b"},
		{Line: 1, Column: 2, Code: "a"},
		{Line: 3, Column: 1, Code: "d"},
	}

	slices.SortStableFunc(diags, compareDiagnostics)

	assert.Equal(t, []string{"a", "b", "c", "d"}, codes(diags))
}
