package document

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// reloadDelay lets writers finish before the file is read again.
const reloadDelay = 200 * time.Millisecond

// Watch reloads the document whenever its file is written or replaced. It
// blocks until ctx is done.
//
// The directory is watched rather than the file so that editors which save by
// renaming a temporary file are noticed too.
func (doc *Document) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "document: cannot create file watcher")
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(doc.path)); err != nil {
		return errors.Wrap(err, "document: cannot watch directory")
	}

	name := filepath.Clean(doc.path)
	var t *time.Timer
	defer func() {
		if t != nil {
			t.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || !(ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)) {
				continue
			}
			if t != nil {
				t.Stop()
			}
			t = time.AfterFunc(reloadDelay, func() {
				select {
				case doc.Requests <- LoadReq{}:
				case <-ctx.Done():
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			doc.log.WithError(err).Warn("file watcher error")
		}
	}
}
