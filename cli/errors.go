package cli

import (
	"github.com/pkg/errors"

	"github.com/yhkl-dev/qqm/qqmusic"
)

// Error codes reported in the output envelope, one per command group
const (
	AuthError     = "AUTH_ERROR"
	SearchError   = "SEARCH_ERROR"
	TrackError    = "TRACK_ERROR"
	LibraryError  = "LIBRARY_ERROR"
	PlaylistError = "PLAYLIST_ERROR"
	PlayerError   = "PLAYER_ERROR"
	CLIError      = "CLI_ERROR"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitGeneral = 1
	ExitAuth    = 2
	ExitNetwork = 3
)

// codedError tags a failure with the error code of its command group
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }
func (e *codedError) Cause() error  { return e.err }

func withCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// exitError ends the command with a status after the result was printed
type exitError struct {
	status int
}

func (e *exitError) Error() string { return "exit status" }

// errorCode returns the envelope code for err. Untagged errors come from
// argument parsing.
func errorCode(err error) string {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return CLIError
}

// exitCode maps err onto the process exit status
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.status
	}
	if errorCode(err) == PlayerError {
		return ExitGeneral
	}

	var apiErr *qqmusic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case qqmusic.KindAuth, qqmusic.KindForbidden:
			return ExitAuth
		default:
			return ExitNetwork
		}
	}

	switch errorCode(err) {
	case AuthError:
		return ExitAuth
	case SearchError, TrackError, LibraryError, PlaylistError:
		return ExitNetwork
	default:
		return ExitGeneral
	}
}
