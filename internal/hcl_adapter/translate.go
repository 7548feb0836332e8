// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/ctxlog"
)

// translateTask converts the HCL-specific task schema into the agnostic model.
func (l *Loader) translateTask(ctx context.Context, b *taskBlock) (*config.Task, error) {
	logger := ctxlog.FromContext(ctx).With("task", b.Name)
	logger.Debug("Translating HCL task to internal config model.", "stages", len(b.Stages))

	if b.Action != "" && b.Action != config.ActionWatch {
		return nil, fmt.Errorf("task '%s': unknown action '%s'", b.Name, b.Action)
	}
	if b.Action != "" && len(b.Stages) > 0 {
		return nil, fmt.Errorf("task '%s': a task with an action cannot declare stages", b.Name)
	}
	if len(b.Stages) > 0 && len(b.Src) == 0 {
		return nil, fmt.Errorf("task '%s': stages require at least one src selector", b.Name)
	}

	read := true
	if b.Read != nil {
		read = *b.Read
	}

	t := &config.Task{
		Name:        b.Name,
		Description: b.Description,
		DependsOn:   b.DependsOn,
		Src:         b.Src,
		Read:        read,
		Action:      b.Action,
		Outputs:     b.Outputs,
	}
	for _, s := range b.Stages {
		t.Stages = append(t.Stages, &config.Stage{
			Kind:  s.Kind,
			Body:  s.Body,
			Range: s.Body.MissingItemRange(),
		})
	}
	return t, nil
}

func translatePackage(b *packageBlock) *config.Package {
	return &config.Package{
		File:        b.File,
		Name:        b.Name,
		Title:       b.Title,
		Version:     b.Version,
		Description: b.Description,
		Homepage:    b.Homepage,
		License:     b.License,
		AuthorName:  b.AuthorName,
		AuthorURL:   b.AuthorURL,
	}
}
