package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Provider resolves dictionaries to sealed automatons for server handlers.
// Returned matchers are shared across connections and must be safe for
// concurrent Scan calls.
type Provider interface {
	Matcher(dictionary string) (ports.PatternMatcher, error)
	ListDictionaries() ([]string, error)
	CachedAutomatons() int
}

// counter is implemented by matchers that count without collecting matches.
type counter interface {
	Count(text string) int
}

// Server is the daemon that listens on a Unix socket and serves scan requests.
type Server struct {
	provider Provider
	log      logrus.FieldLogger
	listener net.Listener
	sockPath string
	started  time.Time
	scans    atomic.Int64
	rate     *rateTracker

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by the given provider.
// A nil logger discards diagnostics.
func NewServer(provider Provider, sockPath string, log logrus.FieldLogger) *Server {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Server{
		provider:   provider,
		log:        log.WithField("component", "socket"),
		sockPath:   sockPath,
		rate:       newRateTracker(5 * time.Minute),
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first; if the connection fails, the stale socket
// is removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return errors.Errorf("daemon already running at %s", s.sockPath)
		}
		s.log.WithField("path", s.sockPath).Debug("removing stale socket")
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.listener = ln
	s.started = time.Now()
	s.log.WithField("path", s.sockPath).Info("listening")

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and removing the socket file.
// Idempotent: safe to call after a remote shutdown and again on signal.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
		s.log.Info("stopped")
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

// Retry delays after a failed Accept (e.g. EMFILE); doubled per consecutive
// failure and reset by the next accepted connection.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	var backoff time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff = min(2*backoff, maxAcceptBackoff)
			}
			s.log.WithError(err).WithField("retry_in", backoff).Warn("accept failed")
			select {
			case <-s.done:
				return
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.WithError(err).Debug("connection read")
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodScan:
		return s.handleScan(req)
	case MethodDictionaries:
		return s.handleDictionaries(req)
	case MethodHealth:
		return s.handleHealth(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleScan(req Request) Response {
	var params ScanParams
	if err := decodeInto(req.Params, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid scan params"}
	}

	m, err := s.provider.Matcher(params.Dictionary)
	if err != nil {
		s.log.WithError(err).WithField("dictionary", params.Dictionary).Warn("scan rejected")
		return Response{ID: req.ID, Error: err.Error()}
	}

	start := time.Now()
	var matches []ports.Match
	count := 0
	if c, ok := m.(counter); ok && params.CountOnly {
		count = c.Count(params.Text)
	} else {
		matches = m.Scan(params.Text)
		count = len(matches)
	}
	elapsed := time.Since(start)
	s.scans.Add(1)
	s.rate.record(len(params.Text), elapsed)

	result := ScanResult{Count: count, Elapsed: elapsed.String()}
	switch {
	case params.CountOnly:
	case params.Max > 0 && len(matches) > params.Max:
		result.Matches = matches[:params.Max]
	default:
		result.Matches = matches
	}

	s.log.WithFields(logrus.Fields{
		"dictionary": params.Dictionary,
		"bytes":      len(params.Text),
		"matches":    result.Count,
		"elapsed":    elapsed,
	}).Debug("scan")

	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleDictionaries(req Request) Response {
	names, err := s.provider.ListDictionaries()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	if names == nil {
		names = []string{}
	}
	return Response{ID: req.ID, Result: DictionariesResult{Names: names}}
}

func (s *Server) handleHealth(req Request) Response {
	return Response{
		ID: req.ID,
		Result: HealthResult{
			Status:    "ok",
			Uptime:    time.Since(s.started).Round(time.Second).String(),
			Scans:     s.scans.Load(),
			MiBPerSec: s.rate.median(),
			Cached:    s.provider.CachedAutomatons(),
			SockPath:  s.sockPath,
		},
	}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.WithError(err).Error("marshal response")
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
