package proc

import (
	"context"
	"time"

	"github.com/leeineian/antigrafity/sys"
)

// idleRun is the cancellable teardown timer armed when a transition ends
// with nothing to play.
type idleRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *Player) startIdle() {
	p.cancelIdle()

	ctx, cancel := context.WithCancel(p.ctx)
	run := &idleRun{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	p.idle = run
	p.mu.Unlock()

	go func() {
		defer close(run.done)
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.idleTimeout):
		}

		// Re-check; a track may have started while the timer fired. Any
		// playback trigger cancels the run and clears the slot under the
		// same lock, so a superseded timer never tears the session down.
		p.mu.Lock()
		stillIdle := p.idle == run && p.current == nil
		p.mu.Unlock()
		if !stillIdle || p.queue.Len() > 0 {
			return
		}

		sys.LogVoice(sys.MsgVoiceIdleTimeout, p.GuildID, p.idleTimeout)
		p.notifyf("Leaving after %s of inactivity.", p.idleTimeout)

		// Release session resources; the registry entry persists until an
		// explicit cleanup call.
		p.cancelPrefetch()
		p.audio.Disconnect(context.Background())
		sys.LogVoice(sys.MsgVoiceSessionReleased, p.GuildID)
	}()
}

func (p *Player) cancelIdle() {
	p.mu.Lock()
	run := p.idle
	p.idle = nil
	p.mu.Unlock()

	if run != nil {
		run.cancel()
	}
}
