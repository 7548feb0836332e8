package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

// ExecutionRecord holds the start and end times of one stage application.
type ExecutionRecord struct {
	Task  string
	Start time.Time
	End   time.Time
}

// RecordingModule registers a "record" stage that passes files through,
// optionally sleeping, and records every application. Stages whose label is
// listed in Fail return a TransformError after recording.
type RecordingModule struct {
	Sleep time.Duration
	Fail  []string

	mu      sync.Mutex
	records []ExecutionRecord
}

// Register implements the registry.Module interface.
func (m *RecordingModule) Register(r *registry.Registry) {
	type args struct {
		Label string `hcl:"label,optional"`
	}
	r.RegisterStage("record", &registry.RegisteredStage{
		NewArgs: func() any { return new(args) },
		Build: func(a any) (stage.Stage, error) {
			label := a.(*args).Label
			return stage.Func(func(_ context.Context, _ *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
				start := time.Now()
				time.Sleep(m.Sleep)
				m.mu.Lock()
				m.records = append(m.records, ExecutionRecord{Task: label, Start: start, End: time.Now()})
				m.mu.Unlock()
				if slices.Contains(m.Fail, label) {
					return nil, stage.Wrap("record", label, errors.New("injected failure"))
				}
				return in, nil
			}), nil
		},
	})
}

// Records returns a copy of every recorded application in completion order.
func (m *RecordingModule) Records() []ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutionRecord(nil), m.records...)
}

// Count returns how often the stage labelled label ran.
func (m *RecordingModule) Count(label string) int {
	n := 0
	for _, r := range m.Records() {
		if r.Task == label {
			n++
		}
	}
	return n
}
