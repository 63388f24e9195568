package content

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Holder serves the current site copy to concurrent readers.
type Holder struct {
	site atomic.Pointer[Site]
}

func NewHolder(s *Site) *Holder {
	h := &Holder{}
	h.site.Store(s)
	return h
}

func (h *Holder) Current() *Site { return h.site.Load() }

func (h *Holder) Replace(s *Site) { h.site.Store(s) }

// Watcher reloads a content file into a Holder when it changes on disk.
// It watches the parent directory so editors that write via rename are seen.
type Watcher struct {
	path     string
	holder   *Holder
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	// OnReload is called after each successful reload. Tests hook it.
	OnReload func(*Site)

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for path. Call Start to begin.
func NewWatcher(path string, holder *Holder, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     filepath.Clean(path),
		holder:   holder,
		logger:   logger,
		watcher:  fw,
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start adds the watch and runs the event loop until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Stop ends the loop and closes the fsnotify watcher. Safe to call twice.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("content watcher close", zap.Error(err))
		}
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("content watcher", zap.Error(err))
		case <-timerCh:
			timerCh = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	site, err := Load(w.path)
	if err != nil {
		w.logger.Error("content reload failed, keeping previous copy", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.holder.Replace(site)
	w.logger.Info("content reloaded",
		zap.String("path", w.path),
		zap.Int("skills", len(site.Skills)),
		zap.Int("projects", len(site.Projects)))
	if w.OnReload != nil {
		w.OnReload(site)
	}
}
