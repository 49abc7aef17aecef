package providers

import (
	"context"
	"errors"
	"net"
)

// Upstream failure classes. These stay inside the adapters: retry policy and
// fallbacks absorb them before the service boundary.
var (
	ErrUpstreamTimeout  = errors.New("upstream timeout")
	ErrUpstreamProtocol = errors.New("upstream protocol error")
	ErrUpstreamAuth     = errors.New("upstream auth rejected")
)

type terminalError struct{ err error }

func (t *terminalError) Error() string { return t.err.Error() }
func (t *terminalError) Unwrap() error { return t.err }

// Terminal marks err as not worth retrying (bad credentials, cancelled
// context). The retry loop stops immediately on terminal errors.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

func IsTerminal(err error) bool {
	var t *terminalError
	return errors.As(err, &t)
}

// IsTimeout reports whether err is a deadline failure: a wrapped
// context.DeadlineExceeded, a net.Error timeout (client-side HTTP timeouts
// surface this way without wrapping the context error), or an expired
// caller context.
func IsTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
