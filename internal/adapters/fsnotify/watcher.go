// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches scan inputs: directories recursively, single files through their
// parent directory (so editors that save by rename are still seen). Rapid
// events are debounced since editors often trigger multiple writes per save.
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	".kwtrie":      true,
}

// File extensions/suffixes to ignore.
var ignoreFiles = map[string]bool{
	".DS_Store": true,
	".swp":      true,
	".swx":      true,
	"~":         true,
	".tmp":      true,
}

const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring paths. Directories are watched recursively and
// report every non-ignored file beneath them; files report only themselves.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(paths []string, onChange func(filePath string)) error {
	files := make(map[string]bool)
	var roots []string

	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return err
		}

		if !info.IsDir() {
			files[absPath] = true
			if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
				return err
			}
			continue
		}

		roots = append(roots, absPath)
		err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip inaccessible paths
			}
			if info.IsDir() {
				if IgnoredDir(info.Name()) && path != absPath {
					return filepath.SkipDir
				}
				return w.fw.Add(path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	relevant := func(path string) bool {
		if files[path] {
			return true
		}
		for _, root := range roots {
			if strings.HasPrefix(path, root+string(filepath.Separator)) {
				return !IgnoredPath(strings.TrimPrefix(path, root))
			}
		}
		return false
	}

	// Debounce state: track last event time per file
	debounce := make(map[string]time.Time)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// For Create events, add new directories under watched roots
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if relevant(path) && !IgnoredDir(info.Name()) {
							w.fw.Add(path)
						}
						continue
					}
				}

				if !relevant(path) {
					continue
				}

				// Debounce: skip if we've seen this file recently
				now := time.Now()
				if last, exists := debounce[path]; exists && now.Sub(last) < debounceInterval {
					continue
				}
				debounce[path] = now

				// Fire callback for relevant operations
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.mu.Lock()
					stopped := w.stopped
					w.mu.Unlock()
					if !stopped {
						onChange(path)
					}
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// IgnoredDir reports whether a directory with this name is skipped when
// watching, and when expanding a directory input into files.
func IgnoredDir(name string) bool {
	return ignoreDirs[name]
}

// IgnoredPath reports whether a path relative to a watched root is editor or
// VCS noise: it neither triggers onChange nor is scanned.
func IgnoredPath(path string) bool {
	base := filepath.Base(path)

	// Check ignored file names/extensions
	if ignoreFiles[base] {
		return true
	}
	for ext := range ignoreFiles {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}

	// Check if any path component is an ignored directory
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}

	return false
}
