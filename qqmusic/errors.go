package qqmusic

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// Kind classifies a failed API call
type Kind int

const (
	KindRequest Kind = iota
	KindNetwork
	KindAuth
	KindForbidden
	KindApplication
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindApplication:
		return "application"
	case KindUnavailable:
		return "unavailable"
	default:
		return "request"
	}
}

// Error is returned by every Client call that fails
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindApplication && e.Code != 0 {
		return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or KindRequest when err did not come from this package
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindRequest
}

// IsAPIError reports whether err came from the remote service or its transport
func IsAPIError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

// ErrUnavailable is returned when the service has no playable URL for a track
var ErrUnavailable = &Error{Kind: KindUnavailable, Message: "Track unavailable (no copyright or VIP required)"}

func statusError(status int) *Error {
	switch status {
	case 401:
		return &Error{Kind: KindAuth, Code: status, Message: "Authentication failed, please re-login"}
	case 403:
		return &Error{Kind: KindForbidden, Code: status, Message: "Access denied, login required or cookie expired"}
	}
	return &Error{Kind: KindRequest, Code: status, Message: fmt.Sprintf("Request failed: status code %d", status)}
}

func transportError(err error) *Error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: KindNetwork, Message: "Network connection failed", Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout() {
		return &Error{Kind: KindNetwork, Message: "Network connection failed", Err: err}
	}
	return &Error{Kind: KindRequest, Message: "Request failed: " + err.Error(), Err: err}
}
