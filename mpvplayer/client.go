package mpvplayer

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// DefaultTimeout bounds a single command round trip
const DefaultTimeout = 3 * time.Second

// ErrTimeout is returned when no matching response arrives in time
var ErrTimeout = errors.New("mpv IPC timeout")

// ErrClosed is returned when mpv hangs up before answering
var ErrClosed = errors.New("mpv IPC connection closed")

// ConnError wraps a failure to reach the IPC endpoint
type ConnError struct {
	Err error
}

func (e *ConnError) Error() string {
	return "mpv IPC connection failed: " + e.Err.Error()
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

// CommandError carries the error string mpv put in its reply
type CommandError struct {
	Command []any
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

// DialFunc opens a connection to the IPC endpoint at path
type DialFunc func(ctx context.Context, path string) (net.Conn, error)

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type response struct {
	RequestID *int64          `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
}

// Client speaks mpv's JSON IPC protocol. Every command opens its own
// connection, so a Client holds no connection state between calls.
type Client struct {
	socketPath string
	timeout    time.Duration
	dial       DialFunc
	requestID  atomic.Int64
	logger     *log.Entry
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDialer replaces the platform dialer
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

// NewClient returns a Client for the endpoint at socketPath
func NewClient(socketPath string, opts ...Option) *Client {
	c := &Client{
		socketPath: socketPath,
		timeout:    DefaultTimeout,
		dial:       dialEndpoint,
		logger: log.WithFields(log.Fields{
			"module": "mpv",
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SocketPath is the endpoint this client talks to
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Probe opens and immediately closes a connection
func (c *Client) Probe(ctx context.Context) error {
	conn, err := c.dial(ctx, c.socketPath)
	if err != nil {
		return &ConnError{Err: err}
	}
	return conn.Close()
}

// Command sends args and waits for the reply carrying the same request_id.
// Event lines and replies to other requests are skipped.
func (c *Client) Command(ctx context.Context, args ...any) (json.RawMessage, error) {
	id := c.requestID.Inc()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dial(ctx, c.socketPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, &ConnError{Err: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	payload, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode mpv command")
	}
	c.logger.Debugf("-> %s", payload)
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, c.readError(ctx, err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.RequestID == nil || *resp.RequestID != id {
			continue
		}
		c.logger.Debugf("<- %s", line)
		if resp.Error != "" && resp.Error != "success" {
			return nil, &CommandError{Command: args, Message: resp.Error}
		}
		return resp.Data, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, c.readError(ctx, err)
	}
	if ctx.Err() != nil {
		return nil, ErrTimeout
	}
	return nil, ErrClosed
}

func (c *Client) readError(ctx context.Context, err error) error {
	var netErr net.Error
	if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrTimeout
	}
	return &ConnError{Err: err}
}

// GetProperty returns the raw JSON value of an mpv property
func (c *Client) GetProperty(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Command(ctx, "get_property", name)
}

// SetProperty assigns an mpv property
func (c *Client) SetProperty(ctx context.Context, name string, value any) error {
	_, err := c.Command(ctx, "set_property", name, value)
	return err
}

// GetFloat reads a numeric property
func (c *Client) GetFloat(ctx context.Context, name string) (float64, error) {
	raw, err := c.GetProperty(ctx, name)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, errors.Wrapf(err, "property %s is not a number", name)
	}
	return v, nil
}

// GetBool reads a flag property
func (c *Client) GetBool(ctx context.Context, name string) (bool, error) {
	raw, err := c.GetProperty(ctx, name)
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, errors.Wrapf(err, "property %s is not a flag", name)
	}
	return v, nil
}

// GetString reads a property as text. Flags and numbers are formatted the
// way mpv prints them, so loop-file reads "no" or "inf" either way.
func (c *Client) GetString(ctx context.Context, name string) (string, error) {
	raw, err := c.GetProperty(ctx, name)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return "yes", nil
		}
		return "no", nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", errors.Errorf("property %s has unexpected value %s", name, raw)
}
