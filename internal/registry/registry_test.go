package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/stage"
)

func passThrough() *RegisteredStage {
	return &RegisteredStage{
		Build: func(any) (stage.Stage, error) {
			return stage.Func(func(_ context.Context, _ *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
				return in, nil
			}), nil
		},
	}
}

func TestRegisterStage(t *testing.T) {
	r := New()
	r.RegisterStage("dest", passThrough())
	r.RegisterStage("concat", passThrough())

	assert.Equal(t, []string{"concat", "dest"}, r.Kinds())
	_, ok := r.Lookup("dest")
	assert.True(t, ok)
	_, ok = r.Lookup("gzip")
	assert.False(t, ok)

	assert.PanicsWithValue(t, "stage with kind 'dest' already registered", func() {
		r.RegisterStage("dest", passThrough())
	})
	assert.Panics(t, func() { r.RegisterStage("broken", &RegisteredStage{}) })
}

func TestValidate(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := New()
	r.RegisterStage("dest", passThrough())

	t.Run("valid model", func(t *testing.T) {
		model := &config.Model{
			Selectors: []*config.Selector{{Name: "scripts", Include: []string{"src/*.js"}}},
			Tasks: []*config.Task{
				{Name: "scripts", Src: []string{"scripts"}, Stages: []*config.Stage{{Kind: "dest"}}},
				{Name: "build", DependsOn: []string{"scripts"}},
			},
			Watches: []*config.Watch{{Name: "scripts", Paths: []string{"scripts"}, Task: "scripts"}},
		}
		require.NoError(t, r.Validate(ctx, model))
	})

	t.Run("collects every problem", func(t *testing.T) {
		model := &config.Model{
			Tasks: []*config.Task{
				{Name: "scripts", Src: []string{"nope"}, Stages: []*config.Stage{{Kind: "gzip"}}},
			},
			Watches: []*config.Watch{{Name: "w", Paths: []string{"missing"}, Task: "deploy"}},
		}
		err := r.Validate(ctx, model)
		require.Error(t, err)
		assert.ErrorContains(t, err, "task 'scripts': unknown selector 'nope'")
		assert.ErrorContains(t, err, "task 'scripts': unknown stage kind 'gzip' (known: dest)")
		assert.ErrorContains(t, err, "watch 'w': unknown task 'deploy'")
		assert.ErrorContains(t, err, "watch 'w': unknown selector 'missing'")
	})
}
