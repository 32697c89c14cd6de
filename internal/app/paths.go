package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .kwtrie/ project directory.
type Paths struct {
	Root   string // .kwtrie/
	DB     string // .kwtrie/kwtrie.db
	Config string // .kwtrie/config.yaml

	LogDir string // .kwtrie/log/
	Log    string // .kwtrie/log/kwtrie.log

	RunDir  string // .kwtrie/run/
	PIDFile string // .kwtrie/run/daemon.pid
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".kwtrie")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "kwtrie.db"),
		Config: filepath.Join(root, "config.yaml"),

		LogDir: filepath.Join(root, "log"),
		Log:    filepath.Join(root, "log", "kwtrie.log"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),
	}
}

// EnsureDirs creates all subdirectories under .kwtrie/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes runtime files. Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}
