package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL configuration loading process. Blocks may
// be spread over any number of files; names must be unique across all of them.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		Banners: make(map[string]hcl.Expression),
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	if len(hclFiles) == 0 {
		return nil, nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	names := newNameSet()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(ctx, model, &root, names); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "selectors", len(model.Selectors), "tasks", len(model.Tasks), "watches", len(model.Watches))
	return model, NewConverter(), nil
}

// merge translates all blocks of one file into the model.
func (l *Loader) merge(ctx context.Context, model *config.Model, root *fileRoot, names *nameSet) error {
	for _, p := range root.Packages {
		if model.Package != nil {
			return fmt.Errorf("duplicate package block")
		}
		model.Package = translatePackage(p)
	}
	for _, b := range root.Banners {
		if b.Kind != "verbose" && b.Kind != "condensed" {
			return fmt.Errorf("banner '%s': kind must be 'verbose' or 'condensed'", b.Kind)
		}
		if _, ok := model.Banners[b.Kind]; ok {
			return fmt.Errorf("duplicate banner '%s'", b.Kind)
		}
		model.Banners[b.Kind] = b.Template
	}
	for _, s := range root.Selectors {
		if err := names.add("selector", s.Name); err != nil {
			return err
		}
		model.Selectors = append(model.Selectors, &config.Selector{Name: s.Name, Include: s.Include, Exclude: s.Exclude})
	}
	for _, tb := range root.Tasks {
		if err := names.add("task", tb.Name); err != nil {
			return err
		}
		t, err := l.translateTask(ctx, tb)
		if err != nil {
			return err
		}
		model.Tasks = append(model.Tasks, t)
	}
	for _, w := range root.Watches {
		if err := names.add("watch", w.Name); err != nil {
			return err
		}
		model.Watches = append(model.Watches, &config.Watch{Name: w.Name, Paths: w.Paths, Task: w.Task})
	}
	for _, lr := range root.LiveReloads {
		if model.LiveReload != nil {
			return fmt.Errorf("duplicate livereload block")
		}
		model.LiveReload = &config.LiveReload{Addr: lr.Addr}
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found, in lexical order per directory.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return allFiles, nil
}

// nameSet tracks block names per block type.
type nameSet struct {
	seen map[string]map[string]struct{}
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]map[string]struct{})}
}

func (n *nameSet) add(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is required", kind)
	}
	if n.seen[kind] == nil {
		n.seen[kind] = make(map[string]struct{})
	}
	if _, ok := n.seen[kind][name]; ok {
		return fmt.Errorf("duplicate %s '%s'", kind, name)
	}
	n.seen[kind][name] = struct{}{}
	return nil
}
