package app

import (
	"os"
	"strconv"

	"github.com/corey/kwtrie/internal/adapters/socket"
	"github.com/pkg/errors"
)

// SockPath returns the daemon socket for this project.
func (a *App) SockPath() string {
	return socket.SocketPath(a.ProjectRoot)
}

// StartDaemon starts the scan server and records the PID file. The
// configured default dictionary, if any, is built eagerly so the first
// request does not pay for it.
func (a *App) StartDaemon() (*socket.Server, error) {
	if err := a.Paths.EnsureDirs(); err != nil {
		return nil, errors.Wrap(err, "create project dirs")
	}

	srv := socket.NewServer(a, a.SockPath(), a.Log)
	if err := srv.Start(); err != nil {
		return nil, errors.Wrap(err, "start server")
	}
	if err := os.WriteFile(a.Paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		a.Log.WithError(err).Warn("write pid file")
	}

	if a.Config.Dictionary != "" {
		if _, err := a.Matcher(""); err != nil {
			a.Log.WithError(err).WithField("dictionary", a.Config.Dictionary).Warn("preload failed")
		}
	}
	return srv, nil
}

// StopDaemon stops the server and removes runtime files.
func (a *App) StopDaemon(srv *socket.Server) error {
	err := srv.Stop()
	a.Paths.CleanEphemeral()
	return err
}
