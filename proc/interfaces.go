package proc

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Candidate is a lightweight related-track reference returned by the
// resolver before full resolution.
type Candidate struct {
	URL      string // canonical URL
	Title    string
	Uploader string
}

// Resolver looks up track metadata and playable stream references. All
// operations may fail transiently; implementations retry network-class
// failures internally with bounded backoff.
type Resolver interface {
	// Resolve turns a query or URL into a fully populated track with a
	// stream reference.
	Resolve(ctx context.Context, query string) (*Track, error)
	// ResolvePlaylist expands a playlist URL into up to max entries plus
	// the playlist title.
	ResolvePlaylist(ctx context.Context, url string, max int) ([]*Track, string, error)
	// FindRelated returns candidates related to the given track.
	FindRelated(ctx context.Context, t *Track) ([]Candidate, error)
}

// AudioBackend is the voice transport a session plays through. Play must
// invoke onComplete exactly once when the stream ends or is stopped, from
// whatever goroutine the transport uses.
type AudioBackend interface {
	Connect(ctx context.Context, channelID snowflake.ID) error
	Move(ctx context.Context, channelID snowflake.ID) error
	Disconnect(ctx context.Context)
	Reconnect(ctx context.Context) error
	Play(ctx context.Context, streamRef string, onComplete func()) error
	Stop()
	Pause()
	Resume()
	IsPlaying() bool
	IsPaused() bool
}

// Notifier delivers user-facing session messages. Best effort; failures are
// swallowed and never feed back into playback logic.
type Notifier interface {
	Notify(channelID snowflake.ID, message string)
}
