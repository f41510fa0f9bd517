package proc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// fakeResolver answers from canned data, optionally failing per call site.
type fakeResolver struct {
	mu sync.Mutex

	resolveFn  func(ctx context.Context, query string) (*Track, error)
	relatedFn  func(ctx context.Context, t *Track) ([]Candidate, error)
	playlistFn func(ctx context.Context, url string, max int) ([]*Track, string, error)

	resolveCalls []string
}

func (r *fakeResolver) Resolve(ctx context.Context, query string) (*Track, error) {
	r.mu.Lock()
	r.resolveCalls = append(r.resolveCalls, query)
	fn := r.resolveFn
	r.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	tr := &Track{Title: "resolved " + query, URL: query}
	tr.SetStreamURL("stream://" + query)
	return tr, nil
}

func (r *fakeResolver) ResolvePlaylist(ctx context.Context, url string, max int) ([]*Track, string, error) {
	r.mu.Lock()
	fn := r.playlistFn
	r.mu.Unlock()
	if fn != nil {
		return fn(ctx, url, max)
	}
	return nil, "", fmt.Errorf("no playlist data for %s", url)
}

func (r *fakeResolver) FindRelated(ctx context.Context, t *Track) ([]Candidate, error) {
	r.mu.Lock()
	fn := r.relatedFn
	r.mu.Unlock()
	if fn != nil {
		return fn(ctx, t)
	}
	return nil, nil
}

func (r *fakeResolver) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.resolveCalls))
	copy(out, r.resolveCalls)
	return out
}

// fakeAudio is an AudioBackend whose playback finishes only when the test
// says so, via Complete.
type fakeAudio struct {
	mu         sync.Mutex
	playing    bool
	paused     bool
	connected  bool
	played     []string
	onComplete func()

	playErrs    []error // consumed front to back by Play
	reconnects  int
	disconnects int
}

func (a *fakeAudio) Connect(ctx context.Context, channelID snowflake.ID) error {
	a.mu.Lock()
	a.connected = true
	a.mu.Unlock()
	return nil
}

func (a *fakeAudio) Move(ctx context.Context, channelID snowflake.ID) error { return nil }

func (a *fakeAudio) Disconnect(ctx context.Context) {
	a.mu.Lock()
	a.connected = false
	a.disconnects++
	a.mu.Unlock()
}

func (a *fakeAudio) Reconnect(ctx context.Context) error {
	a.mu.Lock()
	a.reconnects++
	a.connected = true
	a.mu.Unlock()
	return nil
}

func (a *fakeAudio) Play(ctx context.Context, streamRef string, onComplete func()) error {
	a.mu.Lock()
	if len(a.playErrs) > 0 {
		err := a.playErrs[0]
		a.playErrs = a.playErrs[1:]
		a.mu.Unlock()
		return err
	}
	a.played = append(a.played, streamRef)
	a.onComplete = onComplete
	a.playing = true
	a.paused = false
	a.mu.Unlock()
	return nil
}

// Complete simulates the stream reaching its natural end.
func (a *fakeAudio) Complete() {
	a.mu.Lock()
	cb := a.onComplete
	a.onComplete = nil
	a.playing = false
	a.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (a *fakeAudio) Stop() {
	a.Complete()
}

func (a *fakeAudio) Pause() {
	a.mu.Lock()
	a.paused = true
	a.mu.Unlock()
}

func (a *fakeAudio) Resume() {
	a.mu.Lock()
	a.paused = false
	a.mu.Unlock()
}

func (a *fakeAudio) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

func (a *fakeAudio) IsPaused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

func (a *fakeAudio) playedRefs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.played))
	copy(out, a.played)
	return out
}

func (a *fakeAudio) stats() (reconnects, disconnects int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reconnects, a.disconnects
}

// fakeNotifier records delivered messages.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Notify(channelID snowflake.ID, message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *fakeNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

// newTestPlayer wires a player with fakes and aggressive timings.
func newTestPlayer(resolver *fakeResolver, audio *fakeAudio, notifier Notifier) *Player {
	p := NewPlayer(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3), resolver, audio, notifier, snowflake.ID(99))
	p.idleTimeout = time.Hour
	p.transportCooldown = time.Millisecond
	p.prefetchSettle = time.Millisecond
	p.prefetchWait = 100 * time.Millisecond
	return p
}

func streamTrack(title string) *Track {
	tr := &Track{Title: title, URL: "https://example.com/" + title}
	tr.SetStreamURL("stream://" + title)
	return tr
}
