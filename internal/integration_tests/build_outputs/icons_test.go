package integration_tests

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/testutil"
)

const icon = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 72 72">
  <!-- drawn by hand -->
  <path d="M0 0h72v72H0z"/>
</svg>
`

// Test for: one sprite with one namespaced symbol per icon
func TestBuildOutputs_IconSprite(t *testing.T) {
	// Arrange
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"src/ui/icons/a.svg": icon,
		"src/ui/icons/b.svg": icon,
	})

	// Act
	runShipped(t, root, "icons")

	// Assert
	dist := testutil.ReadTree(t, root, "dist")
	require.Equal(t, []string{"dist/ui/icons.svg"}, slices.Sorted(maps.Keys(dist)))

	sprite := dist["dist/ui/icons.svg"]
	assert.Equal(t, 2, strings.Count(sprite, "<symbol "))
	assert.Contains(t, sprite, `<symbol id="trumbowyg-a" viewBox="0 0 72 72">`)
	assert.Contains(t, sprite, `<symbol id="trumbowyg-b" viewBox="0 0 72 72">`)
	assert.NotContains(t, sprite, "<?xml")
	assert.NotContains(t, sprite, "drawn by hand")
}

// Test for: plugin icons join the shared sprite
func TestBuildOutputs_PluginIcons(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"src/ui/icons/bold.svg":                 icon,
		"plugins/emoji/ui/icons/emoji.svg":      icon,
		"plugins/emoji/ui/icons/more/smile.svg": icon,
	})

	runShipped(t, root, "icons")

	sprite := testutil.ReadTree(t, root, "dist")["dist/ui/icons.svg"]
	for _, id := range []string{"trumbowyg-bold", "trumbowyg-emoji", "trumbowyg-smile"} {
		assert.Contains(t, sprite, `id="`+id+`"`)
	}
}

// Test for: the sprite keeps its name when only plugins carry icons
func TestBuildOutputs_PluginIconsOnly(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"plugins/emoji/ui/icons/emoji.svg": icon,
	})

	runShipped(t, root, "icons")

	dist := testutil.ReadTree(t, root, "dist")
	require.Equal(t, []string{"dist/ui/icons.svg"}, slices.Sorted(maps.Keys(dist)))
	assert.Contains(t, dist["dist/ui/icons.svg"], `id="trumbowyg-emoji"`)
}
