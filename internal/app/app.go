// Package app wires kwtrie together: configuration, logging, the dictionary
// store, the automaton cache, the scan daemon and the input watcher.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/corey/kwtrie/internal/adapters/bbolt"
	"github.com/corey/kwtrie/internal/config"
	"github.com/corey/kwtrie/internal/ports"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// App is the top-level container wiring all components together.
//
// The bbolt file is opened per operation and never held between calls.
// Cache keys carry the dictionary fingerprint, so an edited dictionary is
// rebuilt on its next use.
type App struct {
	ProjectRoot string
	Paths       *Paths
	Config      config.Config
	Log         *logrus.Logger

	cache   *cache.Cache       // sealed matchers by cacheKey
	builds  singleflight.Group // one build per key at a time
	logFile *os.File
}

var _ ports.DictionaryStore = (*App)(nil)

// New creates an App for projectRoot with cfg. Does not start services.
func New(projectRoot string, cfg config.Config) (*App, error) {
	if projectRoot == "" {
		return nil, errors.New("project root required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		ProjectRoot: projectRoot,
		Paths:       NewPaths(projectRoot),
		Config:      cfg,
		cache:       cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		path := cfg.LogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectRoot, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "log dir")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		a.logFile = f
		out = f
	}

	log, err := NewLogger(cfg.LogLevel, out)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Log = log
	return a, nil
}

// LoadConfig reads the project's config file, falling back to defaults.
func LoadConfig(projectRoot string) (config.Config, error) {
	return config.Load(NewPaths(projectRoot).Config)
}

// Close releases the log file, if any.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

func (a *App) withStore(fn func(*bbolt.Store) error) error {
	if err := a.Paths.EnsureDirs(); err != nil {
		return errors.Wrap(err, "create project dirs")
	}
	store, err := bbolt.NewStore(a.Paths.DB)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()
	return fn(store)
}

// SaveDictionary validates that dict builds into a kwtrie automaton with the
// configured symbols, then persists it.
func (a *App) SaveDictionary(dict *ports.Dictionary) error {
	if dict == nil {
		return errors.New("nil dictionary")
	}
	opts := OptionsFrom(a.Config)
	opts.CaseSensitive = dict.CaseSensitive
	opts.Engine = config.EngineKwtrie
	if _, err := Build(dict.Patterns, opts); err != nil {
		return errors.Wrapf(err, "dictionary %q", dict.Name)
	}
	err := a.withStore(func(s *bbolt.Store) error {
		return s.SaveDictionary(dict)
	})
	if err != nil {
		return err
	}
	a.Log.WithFields(logrus.Fields{
		"dictionary":  dict.Name,
		"patterns":    len(dict.Patterns),
		"fingerprint": fmt.Sprintf("%016x", dict.Fingerprint),
	}).Info("saved dictionary")
	return nil
}

// LoadDictionary returns a stored dictionary or ports.ErrDictionaryNotFound.
func (a *App) LoadDictionary(name string) (*ports.Dictionary, error) {
	var dict *ports.Dictionary
	err := a.withStore(func(s *bbolt.Store) error {
		var err error
		dict, err = s.LoadDictionary(name)
		return err
	})
	return dict, err
}

// ListDictionaries returns stored dictionary names in sorted order.
func (a *App) ListDictionaries() ([]string, error) {
	var names []string
	err := a.withStore(func(s *bbolt.Store) error {
		var err error
		names, err = s.ListDictionaries()
		return err
	})
	return names, err
}

// DeleteDictionary removes a stored dictionary. Idempotent.
func (a *App) DeleteDictionary(name string) error {
	err := a.withStore(func(s *bbolt.Store) error {
		return s.DeleteDictionary(name)
	})
	if err == nil {
		a.Log.WithField("dictionary", name).Info("deleted dictionary")
	}
	return err
}

// Matcher returns the sealed matcher for a stored dictionary, building it on
// first use. An empty name selects the configured default dictionary.
func (a *App) Matcher(name string) (ports.PatternMatcher, error) {
	if name == "" {
		name = a.Config.Dictionary
	}
	if name == "" {
		return nil, errors.New("no dictionary given and none configured")
	}
	dict, err := a.LoadDictionary(name)
	if err != nil {
		return nil, err
	}
	return a.MatcherFor(dict)
}

// MatcherFor returns the sealed matcher for dict, reusing a cached one when
// the dictionary content and build options are unchanged.
func (a *App) MatcherFor(dict *ports.Dictionary) (ports.PatternMatcher, error) {
	opts := OptionsFrom(a.Config)
	opts.CaseSensitive = dict.CaseSensitive
	key := cacheKey(dict, opts)

	if m, ok := a.cache.Get(key); ok {
		return m.(ports.PatternMatcher), nil
	}

	v, err, _ := a.builds.Do(key, func() (interface{}, error) {
		if m, ok := a.cache.Get(key); ok {
			return m, nil
		}
		start := time.Now()
		m, err := Build(dict.Patterns, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "dictionary %q", dict.Name)
		}
		a.cache.Set(key, m, cache.DefaultExpiration)

		a.Log.WithFields(logrus.Fields{
			"dictionary": dict.Name,
			"keywords":   m.KeywordCount(),
			"engine":     opts.Engine,
			"symbols":    opts.Symbols,
			"elapsed":    time.Since(start),
		}).Info("built automaton")
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(ports.PatternMatcher), nil
}

// CachedAutomatons reports how many sealed matchers are held in the cache.
func (a *App) CachedAutomatons() int {
	return a.cache.ItemCount()
}

func cacheKey(dict *ports.Dictionary, opts BuildOptions) string {
	return fmt.Sprintf("%s|%s|%s|%016x", dict.Name, opts.Engine, opts.Symbols, bbolt.Fingerprint(dict))
}
