package qqmusic

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint        = "https://u.y.qq.com/cgi-bin/musicu.fcg"
	DefaultTimeout         = 30 * time.Second
	DefaultDownloadTimeout = 120 * time.Second

	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Variant selects how requests are authenticated
type Variant string

const (
	// VariantSigned appends ?sign= computed over the body
	VariantSigned Variant = "signed"
	// VariantCookie relies on the Cookie header alone
	VariantCookie Variant = "cookie"
)

// ParseVariant validates a configured variant name
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantSigned, VariantCookie:
		return v, nil
	case "":
		return VariantSigned, nil
	}
	return "", errors.Errorf("unknown api variant %q (signed/cookie)", s)
}

// Credentials supplies the cookie jar of the active profile
type Credentials interface {
	Cookies() map[string]string
	CookieString() string
}

// Options configures a Client
type Options struct {
	Endpoint        string
	Variant         Variant
	Timeout         time.Duration
	DownloadTimeout time.Duration
}

// Client talks to the musicu.fcg RPC endpoint
type Client struct {
	Endpoint       string
	Variant        Variant
	HttpClient     *http.Client
	DownloadClient *http.Client

	creds  Credentials
	logger *log.Entry
}

// NewClient builds a Client whose connections are forced onto IPv4
func NewClient(opts Options, creds Credentials) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Variant == "" {
		opts.Variant = VariantSigned
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = DefaultDownloadTimeout
	}

	transport := ipv4Transport()
	return &Client{
		Endpoint:       opts.Endpoint,
		Variant:        opts.Variant,
		HttpClient:     &http.Client{Timeout: opts.Timeout, Transport: transport},
		DownloadClient: &http.Client{Timeout: opts.DownloadTimeout, Transport: transport},
		creds:          creds,
		logger: log.WithFields(log.Fields{
			"module": "qqmusic",
		}),
	}
}

// The CDN rejects some IPv6 clients as hotlinkers.
func ipv4Transport() *http.Transport {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp4", addr)
	}
	return transport
}

func (c *Client) cookies() map[string]string {
	if c.creds == nil {
		return nil
	}
	return c.creds.Cookies()
}

func (c *Client) cookieString() string {
	if c.creds == nil {
		return ""
	}
	return c.creds.CookieString()
}

// Do sends req and returns the decoded envelope
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	body, err := req.Encode(c.header())
	if err != nil {
		return nil, &Error{Kind: KindRequest, Message: "Request failed: " + err.Error(), Err: err}
	}

	target := c.Endpoint
	if c.Variant == VariantSigned {
		sign := Sign(body)
		target += "?" + url.Values{"sign": {sign}}.Encode()
		c.logger.Debugf("POST %s (sign=%s)", c.Endpoint, sign)
	} else {
		c.logger.Debugf("POST %s (cookie auth)", c.Endpoint)
	}
	c.logger.Infof("QQ Music API: %s", req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindRequest, Message: "Request failed: " + err.Error(), Err: err}
	}
	httpReq.Header.Set("User-Agent", UserAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Origin", "https://y.qq.com")
	httpReq.Header.Set("Referer", "https://c.y.qq.com/")
	if cookie := c.cookieString(); cookie != "" {
		httpReq.Header.Set("Cookie", cookie)
	}

	httpResp, err := c.HttpClient.Do(httpReq)
	if err != nil {
		c.logger.Debugf("HTTP error: %v", err)
		return nil, transportError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		c.logger.Debugf("HTTP error: %d", httpResp.StatusCode)
		return nil, statusError(httpResp.StatusCode)
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	resp, err := parseResponse(data, req)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Message: "Request failed: " + err.Error(), Err: err}
	}

	c.logger.Debugf("Response code: %d", resp.Code)
	if resp.Code != 0 {
		msg := resp.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, &Error{Kind: KindApplication, Code: resp.Code, Message: msg}
	}
	return resp, nil
}

// call is the single-call shortcut used by the endpoint helpers
func (c *Client) call(ctx context.Context, call Call, v any) error {
	resp, err := c.Do(ctx, NewRequest(call))
	if err != nil {
		return err
	}
	return resp.Decode("req_0", v)
}

// Download streams rawURL into dest and returns the number of bytes written.
// A partially written file is removed on failure.
func (c *Client) Download(ctx context.Context, rawURL, dest string) (int64, error) {
	c.logger.Infof("Downloading %s", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, &Error{Kind: KindRequest, Message: "Request failed: " + err.Error(), Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Referer", "https://y.qq.com/")

	resp, err := c.DownloadClient.Do(req)
	if err != nil {
		return 0, transportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, statusError(resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", dest)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, transportError(err)
	}
	return n, nil
}
