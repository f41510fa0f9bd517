package proc

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Track represents a single audio track. Identity fields are set once at
// creation; only the resolved stream reference mutates afterwards.
type Track struct {
	Title     string
	URL       string // canonical URL, the history/dedup key
	Duration  time.Duration
	Uploader  string
	Requester snowflake.ID
	Thumbnail string

	// seq records arrival order within a session, assigned by the queue.
	seq uint64

	mu        sync.Mutex
	streamURL string
}

// StreamURL returns the resolved stream reference, or empty if unresolved.
func (t *Track) StreamURL() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streamURL
}

func (t *Track) SetStreamURL(ref string) {
	t.mu.Lock()
	t.streamURL = ref
	t.mu.Unlock()
}
