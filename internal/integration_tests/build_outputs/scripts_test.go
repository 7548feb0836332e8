package integration_tests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/testutil"
)

const coreScript = `(function ($) {
    'use strict';
    // Plugin defaults
    $.trumbowyg = {
        langs: { en: { viewHTML: 'View HTML' } }
    };
})(jQuery);
`

// Test for: banners on both artifacts and no rewrite on an unchanged rerun
func TestBuildOutputs_ScriptsAreIncremental(t *testing.T) {
	// Arrange
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"src/trumbowyg.js": coreScript})
	testutil.Touch(t, root, "src/trumbowyg.js", time.Now().Add(-time.Hour))

	// Act
	runShipped(t, root, "scripts")

	// Assert
	dist := testutil.ReadTree(t, root, "dist")
	full := dist["dist/trumbowyg.js"]
	minified := dist["dist/trumbowyg.min.js"]
	require.NotEmpty(t, full)
	require.NotEmpty(t, minified)

	assert.True(t, strings.HasPrefix(full, "/**\n * Trumbowyg v2.0.0 - A lightweight WYSIWYG editor\n * Trumbowyg core file\n"))
	assert.Contains(t, full, "Website : alex-d.fr")
	assert.Contains(t, full, "// Plugin defaults")
	assert.True(t, strings.HasPrefix(minified, "/** Trumbowyg v2.0.0 - A lightweight WYSIWYG editor - alex-d.github.io/Trumbowyg - License MIT"))
	assert.NotContains(t, minified, "// Plugin defaults")
	assert.Less(t, len(minified), len(full))

	// Act: nothing changed, so nothing is written.
	old := time.Now().Add(-10 * time.Minute)
	testutil.Touch(t, root, "dist/trumbowyg.js", old)
	testutil.Touch(t, root, "dist/trumbowyg.min.js", old)
	runShipped(t, root, "scripts")

	// Assert
	for _, rel := range []string{"dist/trumbowyg.js", "dist/trumbowyg.min.js"} {
		info, err := os.Stat(filepath.Join(root, rel))
		require.NoError(t, err)
		assert.WithinDuration(t, old, info.ModTime(), time.Second, rel)
	}
	assert.Equal(t, dist, testutil.ReadTree(t, root, "dist"))
}

// Test for: plugins keep their layout and skip their build scripts
func TestBuildOutputs_PluginsMirrorLayout(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"plugins/base64/trumbowyg.base64.js":   "(function ($) { $.extend(true, $.trumbowyg, { plugins: { base64: {} } }); })(jQuery);\n",
		"plugins/base64/gulpfile.js":           "require('gulp');\n",
		"plugins/emoji/trumbowyg.emoji.js":     "(function ($) { var emoji = ':smile:'; })(jQuery);\n",
		"plugins/emoji/langs/fr.emoji.js":      "var fr = 'bonjour';\n",
		"plugins/emoji/ui/trumbowyg.emoji.css": ".emoji { color: red; }\n",
	})

	runShipped(t, root, "plugins")

	dist := testutil.ReadTree(t, root, "dist")
	want := []string{
		"dist/plugins/base64/trumbowyg.base64.js",
		"dist/plugins/base64/trumbowyg.base64.min.js",
		"dist/plugins/emoji/langs/fr.emoji.js",
		"dist/plugins/emoji/langs/fr.emoji.min.js",
		"dist/plugins/emoji/trumbowyg.emoji.js",
		"dist/plugins/emoji/trumbowyg.emoji.min.js",
	}
	got := make([]string, 0, len(dist))
	for k := range dist {
		got = append(got, k)
	}
	assert.ElementsMatch(t, want, got)
}
