package proc

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ResolutionError wraps a failed metadata or stream lookup.
type ResolutionError struct {
	Query string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %q: %v", e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// PlaybackErrorKind distinguishes transport failures, which are retried with a
// reconnect, from everything else, which skips to the next track.
type PlaybackErrorKind int

const (
	PlaybackOther PlaybackErrorKind = iota
	PlaybackTransport
)

func (k PlaybackErrorKind) String() string {
	if k == PlaybackTransport {
		return "transport"
	}
	return "other"
}

type PlaybackError struct {
	Kind PlaybackErrorKind
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed (%s): %v", e.Kind, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

var transportSymptoms = []string{
	"connection reset",
	"connection refused",
	"broken pipe",
	"timeout",
	"timed out",
	"unexpected eof",
	"no route to host",
	"network is unreachable",
	"tls handshake",
}

// ClassifyPlayback wraps err in a PlaybackError, classifying it by symptom.
func ClassifyPlayback(err error) *PlaybackError {
	var pe *PlaybackError
	if errors.As(err, &pe) {
		return pe
	}

	kind := PlaybackOther
	if isNetworkErr(err) {
		kind = PlaybackTransport
	}
	return &PlaybackError{Kind: kind, Err: err}
}

func IsTransport(err error) bool {
	var pe *PlaybackError
	if errors.As(err, &pe) {
		return pe.Kind == PlaybackTransport
	}
	return isNetworkErr(err)
}

// isNetworkErr reports whether err looks like a transient network failure.
func isNetworkErr(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, symptom := range transportSymptoms {
		if strings.Contains(msg, symptom) {
			return true
		}
	}
	return false
}
