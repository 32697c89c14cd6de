package socket

import (
	"bufio"
	"encoding/json"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Client connects to the kwtrie daemon over a Unix socket. Each call opens
// its own connection, so a Client may be shared between goroutines.
type Client struct {
	sockPath string
	nextID   atomic.Uint64
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// invoke performs one request and decodes its result into T.
func invoke[T any](c *Client, method string, params any, timeout time.Duration) (*T, error) {
	resp, err := c.callWithTimeout(Request{Method: method, Params: params}, timeout)
	if err != nil {
		return nil, err
	}
	var result T
	if err := decodeInto(resp.Result, &result); err != nil {
		return nil, errors.Wrapf(err, "%s result", method)
	}
	return &result, nil
}

// Scan sends text to be scanned against a stored dictionary. Large inputs
// get a longer deadline than control requests.
func (c *Client) Scan(params ScanParams) (*ScanResult, error) {
	return invoke[ScanResult](c, MethodScan, params, 30*time.Second)
}

// Dictionaries lists the dictionaries known to the daemon.
func (c *Client) Dictionaries() ([]string, error) {
	result, err := invoke[DictionariesResult](c, MethodDictionaries, nil, callTimeout)
	if err != nil {
		return nil, err
	}
	return result.Names, nil
}

// Health sends a health check request.
func (c *Client) Health() (*HealthResult, error) {
	return invoke[HealthResult](c, MethodHealth, nil, callTimeout)
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	_, err := c.callWithTimeout(Request{Method: MethodShutdown}, callTimeout)
	return err
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

const callTimeout = 5 * time.Second

func (c *Client) callWithTimeout(req Request, timeout time.Duration) (*Response, error) {
	req.ID = strconv.FormatUint(c.nextID.Add(1), 10)

	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	defer conn.Close()

	// Set deadline for the whole request/response
	conn.SetDeadline(time.Now().Add(timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, errors.Wrap(err, "write")
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "read")
		}
		return nil, errors.New("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, errors.Wrap(err, "unmarshal response")
	}
	if resp.Error != "" {
		return nil, errors.Errorf("server error: %s", resp.Error)
	}
	if resp.ID != req.ID {
		return nil, errors.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	return &resp, nil
}
