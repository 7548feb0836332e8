package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/app"
	"github.com/vk/assetgrid/internal/testutil"
)

// shippedConfig is the pipeline file at the repository root.
var shippedConfig = filepath.Join("..", "..", "..", "assetgrid.hcl")

const packageJSON = `{
  "name": "trumbowyg",
  "title": "Trumbowyg",
  "version": "2.0.0",
  "description": "A lightweight WYSIWYG editor",
  "homepage": "http://alex-d.github.io/Trumbowyg",
  "license": "MIT",
  "author": {
    "name": "Alexandre Demode (Alex-D)",
    "url": "http://alex-d.fr"
  }
}
`

// runShipped runs task of the shipped pipeline against a project tree.
func runShipped(t *testing.T, root, task string) {
	t.Helper()
	testutil.WriteTree(t, root, map[string]string{"package.json": packageJSON})
	testApp, _ := app.SetupAppTest(t, &app.Config{
		ConfigPaths: []string{shippedConfig},
		Root:        root,
		Task:        task,
		Jobs:        2,
	})
	require.NoError(t, testApp.Run(context.Background()))
}
