package i18n

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of filesystem events (editors and catalog
// compilers touch several files per save) into one reload.
const watchDebounce = 500 * time.Millisecond

// Watch reloads the catalogs whenever the locale root changes, until ctx
// is cancelled. Reload failures are logged and the previous catalogs stay
// active; a running bot should not die because a half-written catalog
// landed on disk.
func (t *I18n) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	addWatches := func() {
		_ = w.Add(t.path)
		// fsnotify is not recursive; watch each locale subdirectory too.
		for _, code := range t.Locales() {
			_ = w.Add(filepath.Join(t.path, code))
		}
	}
	addWatches()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				pending = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			t.log.Warn().Err(err).Msg("locale watch error")
		case <-pending:
			pending = nil
			if err := t.Reload(); err != nil {
				t.log.Error().Err(err).Msg("locale reload failed")
				continue
			}
			addWatches()
			t.log.Debug().Strs("locales", t.Locales()).Msg("locales reloaded")
		}
	}
}
