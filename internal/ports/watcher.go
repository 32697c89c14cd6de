package ports

// Watcher monitors scan inputs for changes and triggers re-scans.
// The adapter (fsnotify) filters editor noise (swap files, .git, etc.) before
// invoking onChange. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring the given paths. Directories are watched
	// recursively, files individually. onChange is called with the absolute
	// path of each changed file and may be invoked from any goroutine.
	// Returns an error if a path doesn't exist or permissions are insufficient.
	Watch(paths []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
