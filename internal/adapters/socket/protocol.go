// Package socket implements a JSON-over-Unix-socket protocol for the kwtrie scan daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/corey/kwtrie/internal/ports"
	"github.com/pkg/errors"
)

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/kwtrie-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/kwtrie-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodScan         = "scan"
	MethodDictionaries = "dictionaries"
	MethodHealth       = "health"
	MethodShutdown     = "shutdown"
)

// maxMessage bounds a single request or response line.
const maxMessage = 16 * 1024 * 1024

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ScanParams is the params for a scan request. Max > 0 truncates the
// returned matches; Count always reports the full total.
type ScanParams struct {
	Dictionary string `json:"dictionary"`
	Text       string `json:"text"`
	CountOnly  bool   `json:"count_only,omitempty"`
	Max        int    `json:"max,omitempty"`
}

// ScanResult is the result of a scan request.
type ScanResult struct {
	Matches []ports.Match `json:"matches"`
	Count   int           `json:"count"`
	Elapsed string        `json:"elapsed"`
}

// DictionariesResult lists the dictionaries the daemon can scan with.
type DictionariesResult struct {
	Names []string `json:"names"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status    string  `json:"status"`
	Uptime    string  `json:"uptime"`
	Scans     int64   `json:"scans"`
	MiBPerSec float64 `json:"mib_per_sec"` // median over the last 5 minutes, 0 until enough scans
	Cached    int     `json:"cached"`
	SockPath  string  `json:"sock_path"`
}

// decodeInto re-marshals a generic JSON value into a typed struct.
func decodeInto(v interface{}, out interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "unmarshal")
	}
	return nil
}
