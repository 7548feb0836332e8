package app

import (
	"context"
	"fmt"

	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/livereload"
	"github.com/vk/assetgrid/internal/watch"
)

// watch is the action of tasks declared with action = "watch". It serves
// live reload, watches the bound selectors and rebuilds until ctx is done.
func (a *App) watch(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	bindings := a.pipeline.Bindings
	if len(bindings) == 0 {
		logger.Warn("No watch blocks configured, nothing to watch.")
		return nil, nil
	}

	var notifier watch.Notifier
	if addr := a.reloadAddr(); addr != ReloadOff {
		srv := livereload.New(addr)
		if err := srv.Start(ctx); err != nil {
			return nil, err
		}
		defer srv.Close(ctx)
		notifier = srv
	}

	src, err := watch.NewSource(a.config.Root, watch.Bases(bindings), watch.DefaultDebounce)
	if err != nil {
		return nil, fmt.Errorf("starting file watcher: %w", err)
	}

	events := make(chan watch.Event)
	srcErr := make(chan error, 1)
	go func() { srcErr <- src.Run(ctx, events) }()

	ctrl := watch.NewController(bindings, a.executor, notifier)
	if err := ctrl.Run(ctx, events); err != nil {
		return nil, err
	}
	if err := <-srcErr; err != nil && ctx.Err() == nil {
		return nil, err
	}
	return nil, nil
}

func (a *App) reloadAddr() string {
	if a.config.ReloadAddr != "" {
		return a.config.ReloadAddr
	}
	if a.model.LiveReload != nil && a.model.LiveReload.Addr != "" {
		return a.model.LiveReload.Addr
	}
	return livereload.DefaultAddr
}
