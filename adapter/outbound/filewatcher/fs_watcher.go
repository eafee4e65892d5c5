package filewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// debounce window applied per file before emitting a change event
const debounceDelay = 500 * time.Millisecond

// FsWatcher watches files through fsnotify. Editors tend to fire bursts of
// write events per save, so events are debounced per path.
type FsWatcher struct {
	watcher     *fsnotify.Watcher
	events      chan outbound.FileChangeEvent
	errors      chan error
	debouncer   map[string]*time.Timer
	watchedDirs map[string]bool
	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	running     bool
	closed      chan struct{}
}

func NewFSWatcher() (outbound.FileWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	fw := &FsWatcher{
		watcher:     fsWatcher,
		events:      make(chan outbound.FileChangeEvent, 64),
		errors:      make(chan error, 16),
		debouncer:   make(map[string]*time.Timer),
		watchedDirs: make(map[string]bool),
		ctx:         ctx,
		cancel:      cancel,
		closed:      make(chan struct{}),
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FsWatcher) Watch(ctx context.Context, path string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	// watch the parent directory: editors replace files on save, which would
	// silently drop a direct file watch
	dir := filepath.Dir(absPath)
	if fw.watchedDirs[dir] {
		return nil
	}

	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fw.watchedDirs[dir] = true
	fw.running = true

	return nil
}

func (fw *FsWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return nil
	}

	fw.cancel()

	for _, timer := range fw.debouncer {
		timer.Stop()
	}
	fw.debouncer = make(map[string]*time.Timer)

	if err := fw.watcher.Close(); err != nil {
		fw.mu.Unlock()
		return fmt.Errorf("failed to close fsnotify watcher: %w", err)
	}

	fw.running = false
	fw.mu.Unlock()

	<-fw.closed
	return nil
}

func (fw *FsWatcher) Events() <-chan outbound.FileChangeEvent {
	return fw.events
}

func (fw *FsWatcher) Errors() <-chan error {
	return fw.errors
}

func (fw *FsWatcher) IsWatching() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.running
}

func (fw *FsWatcher) processEvents() {
	defer close(fw.closed)

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			// only writes and creates matter for config reloads
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.debounce(event)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case fw.errors <- err:
			case <-fw.ctx.Done():
				return
			}
		}
	}
}

func (fw *FsWatcher) debounce(event fsnotify.Event) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if timer, exists := fw.debouncer[event.Name]; exists {
		timer.Stop()
	}

	fw.debouncer[event.Name] = time.AfterFunc(debounceDelay, func() {
		eventType := "modify"
		if event.Has(fsnotify.Create) {
			eventType = "create"
		}

		select {
		case fw.events <- outbound.FileChangeEvent{FilePath: event.Name, EventType: eventType}:
		case <-fw.ctx.Done():
		}

		fw.mu.Lock()
		delete(fw.debouncer, event.Name)
		fw.mu.Unlock()
	})
}
