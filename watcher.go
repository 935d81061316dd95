package posekit

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// PoseWatcher watches a drop directory for new .json pose files and queues
// them for import. The watch runs on its own goroutine; the render loop
// drains the queue on its tick so World mutation stays on the loop's
// goroutine.
type PoseWatcher struct {
	Log Logger

	dir     string
	watcher *fsnotify.Watcher
	pending chan string

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

func NewPoseWatcher(log Logger, dir string) *PoseWatcher {
	return &PoseWatcher{
		Log:     orNopLogger(log),
		dir:     dir,
		pending: make(chan string, 64),
	}
}

// Start begins watching. Idempotent; a second Start is a no-op.
func (w *PoseWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.dir == "" {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return err
	}

	w.watcher = fw
	w.done = make(chan struct{})
	w.started = true
	go w.run(fw, w.done)
	w.Log.Infof("watching %s for pose files", w.dir)
	return nil
}

func (w *PoseWatcher) run(fw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(ev.Name), ".json") {
				continue
			}
			select {
			case w.pending <- ev.Name:
			default:
				w.Log.Warnf("pose watcher queue full, dropping %s", filepath.Base(ev.Name))
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.Log.Warnf("pose watcher: %v", err)
		}
	}
}

// Drain returns the queued files since the last call, deduplicated by path.
func (w *PoseWatcher) Drain() []PoseFile {
	seen := make(map[string]bool)
	var files []PoseFile
	for {
		select {
		case path := <-w.pending:
			if !seen[path] {
				seen[path] = true
				files = append(files, OSPoseFile{Path: path})
			}
		default:
			return files
		}
	}
}

// Stop ends the watch. Safe to call repeatedly or before Start.
func (w *PoseWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.started = false
	close(w.done)
	w.watcher.Close()
	w.watcher = nil
}
