package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/fsutil"
)

// DefaultDebounce is how long a path must stay quiet before its change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// Source adapts fsnotify to a stream of debounced Events.
type Source struct {
	root        string
	watcher     *fsnotify.Watcher
	debounceDur time.Duration
	debounceMap map[string]time.Time
}

// NewSource watches every directory below the given root-relative bases.
// Bases that do not exist yet are skipped.
func NewSource(root string, bases []string, debounce time.Duration) (*Source, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	s := &Source{
		root:        root,
		watcher:     watcher,
		debounceDur: debounce,
		debounceMap: make(map[string]time.Time),
	}
	for _, b := range bases {
		if err := s.addTree(filepath.Join(root, filepath.FromSlash(b))); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return s, nil
}

// Bases returns the distinct include bases of the bindings' selectors.
func Bases(bindings []Binding) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range bindings {
		for _, s := range b.Selectors {
			for _, base := range s.Bases() {
				if _, ok := seen[base]; ok {
					continue
				}
				seen[base] = struct{}{}
				out = append(out, base)
			}
		}
	}
	return out
}

func (s *Source) addTree(dir string) error {
	dirs, err := fsutil.Dirs(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	for _, d := range dirs {
		if err := s.watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}
	return nil
}

// Run forwards debounced events to out until ctx is done, then closes out and
// the underlying watcher.
func (s *Source) Run(ctx context.Context, out chan<- Event) error {
	logger := ctxlog.FromContext(ctx)
	defer close(out)
	defer s.watcher.Close()

	ticker := time.NewTicker(s.debounceDur / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			s.handle(ctx, ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("File watcher error.", "error", err)
		case <-ticker.C:
			for _, ev := range s.due(time.Now()) {
				select {
				case out <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func (s *Source) handle(ctx context.Context, ev fsnotify.Event) {
	logger := ctxlog.FromContext(ctx)
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := s.addTree(ev.Name); err != nil {
				logger.Warn("Could not watch new directory.", "path", ev.Name, "error", err)
			}
			return
		}
	}
	s.debounceMap[ev.Name] = time.Now()
}

// due removes and returns the paths that have been quiet for the debounce
// duration, in lexical order.
func (s *Source) due(now time.Time) []Event {
	var paths []string
	for p, t := range s.debounceMap {
		if now.Sub(t) >= s.debounceDur {
			paths = append(paths, p)
			delete(s.debounceMap, p)
		}
	}
	sort.Strings(paths)
	out := make([]Event, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			continue
		}
		out = append(out, Event{Path: filepath.ToSlash(rel)})
	}
	return out
}
