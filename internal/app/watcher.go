package app

import (
	"context"

	fsw "github.com/corey/kwtrie/internal/adapters/fsnotify"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
)

// Watch calls onChange for every change under paths until ctx is done.
func (a *App) Watch(ctx context.Context, paths []string, onChange func(path string)) error {
	fw, err := fsw.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	var w ports.Watcher = fw
	defer w.Stop()

	err = w.Watch(paths, func(path string) {
		a.Log.WithField("path", path).Debug("input changed")
		onChange(path)
	})
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	a.Log.WithField("paths", paths).Info("watching")

	<-ctx.Done()
	return nil
}
