package svgstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/stage"
	"github.com/vk/assetgrid/internal/testutil"
)

func iconFile(base, name, body string) *fileset.File {
	return &fileset.File{
		Path:     filepath.Join(base, name),
		Base:     base,
		Contents: []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 72 72">` + body + `</svg>`),
	}
}

func TestApply(t *testing.T) {
	root := t.TempDir()
	env, _ := testutil.NewEnv(root)
	base := filepath.Join(root, "src", "ui", "icons")
	in := fileset.FileSet{
		iconFile(base, "trumbowyg-b.svg", `<path d="M2 2"/>`),
		iconFile(base, "trumbowyg-a.svg", ` <path d="M1 1"/> `),
	}

	out, err := (&Stage{Args{Inline: true}}).Apply(testutil.Context(), env, in)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, filepath.Join(base, "icons.svg"), out[0].Path)
	assert.Equal(t,
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`+
			`<symbol id="trumbowyg-a" viewBox="0 0 72 72"><path d="M1 1"/></symbol>`+
			`<symbol id="trumbowyg-b" viewBox="0 0 72 72"><path d="M2 2"/></symbol>`+
			`</svg>`,
		string(out[0].Contents))
}

func TestApplyWithProlog(t *testing.T) {
	env, _ := testutil.NewEnv(t.TempDir())
	in := fileset.FileSet{iconFile("icons", "a.svg", "")}

	out, err := (&Stage{Args{Name: "sprite.svg"}}).Apply(testutil.Context(), env, in)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("icons", "sprite.svg"), out[0].Path)
	assert.Contains(t, string(out[0].Contents), `<?xml version="1.0"`)
}

func TestDuplicateIDs(t *testing.T) {
	root := t.TempDir()
	env, _ := testutil.NewEnv(root)
	core := filepath.Join(root, "src", "ui", "icons")
	plugin := filepath.Join(root, "plugins", "emoji", "ui", "icons")
	in := fileset.FileSet{
		iconFile(core, "trumbowyg-a.svg", ""),
		iconFile(plugin, "trumbowyg-a.svg", ""),
	}

	_, err := (&Stage{}).Apply(testutil.Context(), env, in)

	var te *stage.TransformError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "plugins/emoji/ui/icons/trumbowyg-a.svg", te.Path)
	assert.ErrorContains(t, err, `duplicate symbol id "trumbowyg-a"`)
}

func TestMalformedIcon(t *testing.T) {
	env, _ := testutil.NewEnv(t.TempDir())
	in := fileset.FileSet{{Path: "bad.svg", Contents: []byte("<svg><path></svg>")}}

	_, err := (&Stage{}).Apply(testutil.Context(), env, in)

	var te *stage.TransformError
	assert.ErrorAs(t, err, &te)
}
