package config

import (
	"github.com/hashicorp/hcl/v2"
)

// ActionWatch names the builtin action that runs the watch controller.
const ActionWatch = "watch"

// Model is the unified, format-agnostic representation of a pipeline file.
type Model struct {
	Package    *Package
	Banners    map[string]hcl.Expression
	Selectors  []*Selector
	Tasks      []*Task
	Watches    []*Watch
	LiveReload *LiveReload
}

// Package points at the metadata file and overrides individual fields of it.
// Empty fields are not overridden.
type Package struct {
	File        string
	Name        string
	Title       string
	Version     string
	Description string
	Homepage    string
	License     string
	AuthorName  string
	AuthorURL   string
}

// Selector is the format-agnostic representation of a `selector` block.
type Selector struct {
	Name    string
	Include []string
	Exclude []string
}

// Task is the format-agnostic representation of a `task` block. A task with
// neither Src nor Action is an aggregate.
type Task struct {
	Name        string
	Description string
	DependsOn   []string
	// Src names the selectors whose files seed the stage sequence.
	Src []string
	// Read is false when stages only need paths, not contents.
	Read    bool
	Action  string
	Outputs []string
	Stages  []*Stage
}

// IsAggregate reports whether the task only groups its prerequisites.
func (t *Task) IsAggregate() bool {
	return len(t.Src) == 0 && t.Action == "" && len(t.Stages) == 0
}

// Stage is one step of a task's sequence. Body is decoded later by the module
// that owns Kind.
type Stage struct {
	Kind  string
	Body  hcl.Body
	Range hcl.Range
}

// Watch binds selectors to the task rerun when any of their files change.
type Watch struct {
	Name  string
	Paths []string
	Task  string
}

// LiveReload configures the reload notification server.
type LiveReload struct {
	Addr string
}

// Task returns the named task or nil.
func (m *Model) Task(name string) *Task {
	for _, t := range m.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}
