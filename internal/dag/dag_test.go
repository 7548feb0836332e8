package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defs(pairs ...[]string) []Definition {
	out := make([]Definition, len(pairs))
	for i, p := range pairs {
		out[i] = Definition{Name: p[0], DependsOn: p[1:]}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("valid graph keeps declaration order", func(t *testing.T) {
		g, err := New(defs(
			[]string{"styles"},
			[]string{"scripts"},
			[]string{"build", "scripts", "styles"},
		))
		require.NoError(t, err)
		assert.Equal(t, []TaskID{"styles", "scripts", "build"}, g.Tasks())
		assert.Equal(t, []TaskID{"scripts", "styles"}, g.Prerequisites("build"))
		assert.True(t, g.IsAggregate("build"))
	})

	t.Run("duplicate prerequisites collapse", func(t *testing.T) {
		g, err := New(defs([]string{"a"}, []string{"b", "a", "a"}))
		require.NoError(t, err)
		assert.Equal(t, []TaskID{"a"}, g.Prerequisites("b"))
	})

	t.Run("error cases", func(t *testing.T) {
		_, err := New(defs([]string{""}))
		var invalid *InvalidGraphError
		require.ErrorAs(t, err, &invalid)
		assert.ErrorContains(t, err, "task name is required")

		_, err = New(defs([]string{"a"}, []string{"a"}))
		require.ErrorAs(t, err, &invalid)
		assert.ErrorContains(t, err, `duplicate task name "a"`)

		_, err = New(defs([]string{"build", "styles"}))
		var unknown *UnknownTaskError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "styles", unknown.Name)
		assert.Equal(t, TaskID("build"), unknown.ReferencedBy)
	})

	t.Run("self cycle", func(t *testing.T) {
		_, err := New(defs([]string{"a", "a"}))
		var cycle *CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []TaskID{"a", "a"}, cycle.Path)
	})

	t.Run("indirect cycle", func(t *testing.T) {
		_, err := New(defs(
			[]string{"a", "b"},
			[]string{"b", "c"},
			[]string{"c", "a"},
		))
		var cycle *CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, "dependency cycle detected: a -> b -> c -> a", cycle.Error())
	})
}

func TestLookup(t *testing.T) {
	g, err := New(defs([]string{"build"}))
	require.NoError(t, err)

	id, err := g.Lookup("build")
	require.NoError(t, err)
	assert.Equal(t, TaskID("build"), id)

	_, err = g.Lookup("deploy")
	var unknown *UnknownTaskError
	require.True(t, errors.As(err, &unknown))
	assert.Empty(t, unknown.ReferencedBy)
	assert.EqualError(t, err, `unknown task "deploy"`)
}

func TestPlan(t *testing.T) {
	testCases := []struct {
		name string
		defs []Definition
		root TaskID
		want []TaskID
	}{
		{
			name: "single task",
			defs: defs([]string{"a"}),
			root: "a",
			want: []TaskID{"a"},
		},
		{
			name: "diamond lists shared prerequisite once",
			defs: defs(
				[]string{"base"},
				[]string{"left", "base"},
				[]string{"right", "base"},
				[]string{"top", "left", "right"},
			),
			root: "top",
			want: []TaskID{"base", "left", "right", "top"},
		},
		{
			name: "declared order drives depth first walk",
			defs: defs(
				[]string{"langs"},
				[]string{"scripts"},
				[]string{"icons"},
				[]string{"build", "scripts", "langs", "icons"},
			),
			root: "build",
			want: []TaskID{"scripts", "langs", "icons", "build"},
		},
		{
			name: "only the closure is planned",
			defs: defs(
				[]string{"a"},
				[]string{"b", "a"},
				[]string{"c"},
			),
			root: "b",
			want: []TaskID{"a", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(tc.defs)
			require.NoError(t, err)

			got, err := g.Plan(tc.root)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
