package proc

import (
	"context"
	"time"
)

// prefetchRun is one cancellable speculative-resolution activity. At most
// one exists per player at a time.
type prefetchRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startPrefetch launches the supervisor for the next upcoming item, queued
// or autoplay. Any previous run is cancelled first.
func (p *Player) startPrefetch() {
	p.cancelPrefetch()

	ctx, cancel := context.WithCancel(p.ctx)
	run := &prefetchRun{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	p.prefetch = run
	p.mu.Unlock()

	go p.prefetchLoop(ctx, run)
}

func (p *Player) prefetchLoop(ctx context.Context, run *prefetchRun) {
	defer close(run.done)

	// Settle delay so a burst of queue edits right after playback starts
	// doesn't waste resolver calls.
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.prefetchSettle):
	}

	if next := p.queue.PeekFront(); next != nil {
		// A queued track supersedes any speculative candidate.
		p.mu.Lock()
		p.pending = nil
		p.mu.Unlock()

		if next.StreamURL() != "" {
			return
		}
		resolved, err := p.resolver.Resolve(ctx, next.URL)
		if err != nil {
			return
		}
		// Publish under the same lock cancelPrefetch clears the slot with,
		// so a superseded run can never write, even one already past its
		// resolver call when the cancel landed.
		p.mu.Lock()
		if p.prefetch == run {
			next.SetStreamURL(resolved.StreamURL())
		}
		p.mu.Unlock()
		return
	}

	p.mu.Lock()
	auto := p.autoplay
	cur := p.current
	hasPending := p.pending != nil
	p.mu.Unlock()

	if auto == AutoplayOff || cur == nil || hasPending {
		return
	}

	rec := p.recommend.Recommend(ctx, cur, p.history, auto)
	if rec == nil {
		return
	}

	p.mu.Lock()
	if p.prefetch == run && p.pending == nil && p.queue.Len() == 0 {
		p.pending = rec
	}
	p.mu.Unlock()
}

// cancelPrefetch stops any in-flight prefetch. Clearing the slot under p.mu
// is what makes the publish guards in prefetchLoop exact.
func (p *Player) cancelPrefetch() {
	p.mu.Lock()
	run := p.prefetch
	p.prefetch = nil
	p.mu.Unlock()

	if run != nil {
		run.cancel()
	}
}

// waitPrefetch gives the in-flight prefetch a bounded window to finish so
// its resolved reference is usable by the transition in progress.
func (p *Player) waitPrefetch() {
	p.mu.Lock()
	run := p.prefetch
	p.mu.Unlock()

	if run == nil {
		return
	}
	select {
	case <-run.done:
	case <-time.After(p.prefetchWait):
	case <-p.ctx.Done():
	}
}
