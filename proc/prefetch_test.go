package proc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefetchResolvesUpcomingTrack(t *testing.T) {
	resolver := &fakeResolver{}
	audio := &fakeAudio{}
	p := newTestPlayer(resolver, audio, &fakeNotifier{})
	defer p.Close(context.Background())

	p.Enqueue(streamTrack("playing"))
	upcoming := &Track{Title: "upcoming", URL: "https://example.com/upcoming"}
	p.Enqueue(upcoming)

	require.Eventually(t, func() bool {
		return len(audio.playedRefs()) == 1
	}, waitFor, tick)

	// The supervisor resolves the head of the queue in the background.
	require.Eventually(t, func() bool {
		return upcoming.StreamURL() != ""
	}, waitFor, tick)
	assert.Equal(t, "stream://https://example.com/upcoming", upcoming.StreamURL())
}

func TestPrefetchComputesAutoplayCandidate(t *testing.T) {
	resolver := &fakeResolver{
		relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
			return []Candidate{{URL: "https://example.com/speculative", Title: "Speculative"}}, nil
		},
	}
	audio := &fakeAudio{}
	p := newTestPlayer(resolver, audio, &fakeNotifier{})
	defer p.Close(context.Background())

	p.SetAutoplayMode(AutoplayBasic)
	p.Enqueue(streamTrack("seed"))

	require.Eventually(t, func() bool {
		return len(audio.playedRefs()) == 1
	}, waitFor, tick)

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.pending != nil && p.pending.URL == "https://example.com/speculative"
	}, waitFor, tick)
}

func TestPrefetchQueuedTrackClearsPending(t *testing.T) {
	audio := &fakeAudio{}
	p := newTestPlayer(&fakeResolver{}, audio, &fakeNotifier{})
	defer p.Close(context.Background())

	p.mu.Lock()
	p.pending = streamTrack("speculative")
	p.mu.Unlock()

	p.Enqueue(streamTrack("real"))
	require.Eventually(t, func() bool {
		return len(audio.playedRefs()) == 1
	}, waitFor, tick)

	p.mu.Lock()
	pending := p.pending
	p.mu.Unlock()
	assert.Nil(t, pending)
}

func TestSupersededPrefetchNeverPublishes(t *testing.T) {
	resolveStarted := make(chan struct{})
	resolveRelease := make(chan struct{})
	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, query string) (*Track, error) {
			close(resolveStarted)
			<-resolveRelease
			tr := &Track{Title: "late", URL: query}
			tr.SetStreamURL("stream://late")
			return tr, nil
		},
	}
	audio := &fakeAudio{}
	p := newTestPlayer(resolver, audio, &fakeNotifier{})
	defer p.Close(context.Background())

	p.Enqueue(streamTrack("playing"))
	require.Eventually(t, func() bool {
		return len(audio.playedRefs()) == 1
	}, waitFor, tick)

	upcoming := &Track{Title: "upcoming", URL: "https://example.com/upcoming"}
	p.Queue().Add(upcoming)
	p.startPrefetch()

	select {
	case <-resolveStarted:
	case <-time.After(waitFor):
		t.Fatal("prefetch never reached the resolver")
	}

	// The run is superseded while its resolver call is still in flight. Its
	// result must be discarded even though the work completes afterwards.
	p.cancelPrefetch()
	close(resolveRelease)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, upcoming.StreamURL())
}

func TestDisablingAutoplayDropsPending(t *testing.T) {
	p := newTestPlayer(&fakeResolver{}, &fakeAudio{}, &fakeNotifier{})
	defer p.Close(context.Background())

	p.SetAutoplayMode(AutoplayBasic)
	p.mu.Lock()
	p.pending = streamTrack("speculative")
	p.mu.Unlock()

	p.SetAutoplayMode(AutoplayOff)

	p.mu.Lock()
	pending := p.pending
	p.mu.Unlock()
	assert.Nil(t, pending)

	// Give cancelled prefetch goroutines a moment to unwind.
	time.Sleep(10 * time.Millisecond)
}
