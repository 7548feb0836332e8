package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/stage"
)

// Context returns a background context carrying a logger that discards
// everything.
func Context() context.Context {
	return ctxlog.WithLogger(context.Background(), DiscardLogger())
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SizeRecord is one Size call seen by a RecordingReporter.
type SizeRecord struct {
	Title string
	Bytes int
}

// RecordingReporter is a stage.Reporter that remembers every call.
type RecordingReporter struct {
	mu    sync.Mutex
	Diags map[string][]stage.Diagnostic
	Sizes []SizeRecord
}

// Lint implements stage.Reporter.
func (r *RecordingReporter) Lint(path string, diags []stage.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Diags == nil {
		r.Diags = make(map[string][]stage.Diagnostic)
	}
	r.Diags[path] = append(r.Diags[path], diags...)
}

// Size implements stage.Reporter.
func (r *RecordingReporter) Size(title string, bytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sizes = append(r.Sizes, SizeRecord{Title: title, Bytes: bytes})
}

// StaticBanners renders "<kind>:<description>\n" for every banner.
type StaticBanners struct{}

// Render implements stage.Banners.
func (StaticBanners) Render(kind stage.BannerKind, description string) (string, error) {
	return string(kind) + ":" + description + "\n", nil
}

// NewEnv builds a stage environment rooted at root.
func NewEnv(root string) (*stage.Env, *RecordingReporter) {
	rep := &RecordingReporter{}
	return &stage.Env{
		Root:     root,
		Logger:   DiscardLogger(),
		Reporter: rep,
		Banners:  StaticBanners{},
		Outputs:  &stage.OutputLog{},
	}, rep
}
