package proc

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPlayback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind PlaybackErrorKind
	}{
		{name: "connection reset", err: errors.New("read tcp: connection reset by peer"), kind: PlaybackTransport},
		{name: "broken pipe", err: errors.New("write: broken pipe"), kind: PlaybackTransport},
		{name: "timeout", err: errors.New("i/o timeout"), kind: PlaybackTransport},
		{name: "unexpected eof", err: errors.New("unexpected EOF"), kind: PlaybackTransport},
		{name: "no route", err: errors.New("connect: no route to host"), kind: PlaybackTransport},
		{name: "tls", err: errors.New("tls handshake failure"), kind: PlaybackTransport},
		{name: "net.Error", err: &net.DNSError{Err: "lookup failed", IsTimeout: true}, kind: PlaybackTransport},
		{name: "ffmpeg exit", err: errors.New("exit status 1"), kind: PlaybackOther},
		{name: "format error", err: errors.New("invalid data found when processing input"), kind: PlaybackOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := ClassifyPlayback(tt.err)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.ErrorIs(t, pe, tt.err)
		})
	}
}

func TestClassifyPlaybackPassthrough(t *testing.T) {
	orig := &PlaybackError{Kind: PlaybackTransport, Err: errors.New("boom")}
	assert.Same(t, orig, ClassifyPlayback(orig))

	wrapped := &PlaybackError{Kind: PlaybackOther, Err: errors.New("decode failed")}
	assert.Same(t, wrapped, ClassifyPlayback(wrapped))
}

func TestIsTransport(t *testing.T) {
	assert.True(t, IsTransport(&PlaybackError{Kind: PlaybackTransport, Err: errors.New("x")}))
	assert.False(t, IsTransport(&PlaybackError{Kind: PlaybackOther, Err: errors.New("x")}))
	assert.True(t, IsTransport(errors.New("connection refused")))
	assert.False(t, IsTransport(errors.New("file not found")))
	assert.False(t, IsTransport(nil))
}

func TestResolutionErrorUnwrap(t *testing.T) {
	inner := errors.New("no formats")
	err := &ResolutionError{Query: "some song", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "some song")
}
