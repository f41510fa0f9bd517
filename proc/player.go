package proc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/antigrafity/sys"
)

const maxTransportRetries = 3

// Player is the per-guild playback state machine. It owns the queue, the
// current track and the mode flags, and serializes every transition through
// a single worker goroutine so concurrent triggers can never double-advance.
type Player struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID // voice channel
	TextID    snowflake.ID // where notifications go

	queue     *Queue
	history   *playHistory
	recommend *Recommender

	resolver Resolver
	audio    AudioBackend
	notifier Notifier

	mu        sync.Mutex
	current   *Track
	loopMode  LoopMode
	autoplay  AutoplayMode
	shuffle   ReorderMode
	skipLoop  bool   // suppress single-loop re-injection for one transition
	pending  *Track // pre-fetched autoplay candidate
	prefetch *prefetchRun
	idle     *idleRun

	// gen invalidates completion callbacks from earlier transitions.
	gen     atomic.Uint64
	advance chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	closed sync.Once

	transportRetries int

	// Timing knobs, defaulted in NewPlayer.
	idleTimeout       time.Duration
	transportCooldown time.Duration
	prefetchSettle    time.Duration
	prefetchWait      time.Duration
}

func NewPlayer(guildID, channelID, textID snowflake.ID, resolver Resolver, audio AudioBackend, notifier Notifier, botUser snowflake.ID) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		GuildID:           guildID,
		ChannelID:         channelID,
		TextID:            textID,
		queue:             NewQueue(),
		history:           newPlayHistory(),
		recommend:         NewRecommender(resolver, botUser),
		resolver:          resolver,
		audio:             audio,
		notifier:          notifier,
		advance:           make(chan struct{}, 1),
		ctx:               ctx,
		cancel:            cancel,
		idleTimeout:       180 * time.Second,
		transportCooldown: 2 * time.Second,
		prefetchSettle:    time.Second,
		prefetchWait:      10 * time.Second,
	}
	if cfg := sys.GlobalConfig; cfg != nil && cfg.IdleTimeout > 0 {
		p.idleTimeout = cfg.IdleTimeout
	}
	go p.run()
	return p
}

// run is the session's single logical thread of control. Completion signals
// and user triggers are marshaled here through the advance channel.
func (p *Player) run() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.advance:
			p.advanceToNext()
		}
	}
}

// requestAdvance posts a transition request, coalescing with any already
// pending one.
func (p *Player) requestAdvance() {
	select {
	case p.advance <- struct{}{}:
	default:
	}
}

// completed is the playback-completion callback for the transition
// identified by gen. Stale generations are ignored.
func (p *Player) completed(gen uint64) {
	if p.gen.Load() == gen {
		p.requestAdvance()
	}
}

// advanceToNext decides and starts the next track. Only the worker goroutine
// calls it.
func (p *Player) advanceToNext() {
	gen := p.gen.Add(1)

	for {
		p.cancelIdle()

		p.mu.Lock()
		cur := p.current
		loop := p.loopMode
		skipLoop := p.skipLoop
		p.skipLoop = false
		p.mu.Unlock()

		if cur != nil {
			switch loop {
			case LoopSingle:
				if !skipLoop {
					p.queue.PushFront(cur)
				}
			case LoopQueue:
				p.queue.PushBack(cur)
			case LoopOff:
			}
		}

		next := p.queue.PopFront()
		if next != nil {
			// A real queued track outranks any speculative pick.
			p.mu.Lock()
			p.pending = nil
			p.mu.Unlock()
		} else {
			p.mu.Lock()
			auto := p.autoplay
			pending := p.pending
			p.pending = nil
			p.mu.Unlock()

			if auto != AutoplayOff && cur != nil {
				if pending != nil {
					next = pending
				} else {
					next = p.recommend.Recommend(p.ctx, cur, p.history, auto)
				}
			}
		}

		if next == nil {
			p.mu.Lock()
			p.current = nil
			p.mu.Unlock()
			p.cancelPrefetch()

			// A track may have arrived while we were deciding.
			if p.queue.Len() > 0 {
				continue
			}

			p.startIdle()
			p.notifyf("Playback finished.")
			return
		}

		p.mu.Lock()
		p.current = next
		p.mu.Unlock()
		p.history.Add(next.URL)

		// Give the previous cycle's prefetch a bounded chance to land its
		// resolved reference before we resolve ourselves.
		p.waitPrefetch()
		p.cancelPrefetch()

		ref := next.StreamURL()
		if ref == "" {
			resolved, err := p.resolver.Resolve(p.ctx, next.URL)
			if err != nil {
				if p.handlePlayError(next, err) {
					continue
				}
				return
			}
			ref = resolved.StreamURL()
			next.SetStreamURL(ref)
		}

		if err := p.audio.Play(p.ctx, ref, func() { p.completed(gen) }); err != nil {
			if p.handlePlayError(next, err) {
				continue
			}
			return
		}
		p.transportRetries = 0

		p.startPrefetch()
		p.notifyf("Now playing: **%s**", next.Title)
		return
	}
}

// handlePlayError applies the transport-vs-other policy for a failed stream
// acquisition or start. It reports whether the caller should retry the
// transition loop.
func (p *Player) handlePlayError(t *Track, err error) bool {
	perr := ClassifyPlayback(err)

	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	if perr.Kind == PlaybackTransport && p.transportRetries < maxTransportRetries {
		p.transportRetries++
		sys.LogVoice(sys.MsgVoiceTransportRetry, t.Title, p.transportRetries, perr.Err)
		p.notifyf("Connection trouble, retrying **%s**...", t.Title)

		select {
		case <-p.ctx.Done():
			return false
		case <-time.After(p.transportCooldown):
		}

		// Requeue at the front so no track is lost across the reconnect.
		p.queue.PushFront(t)
		if rerr := p.audio.Reconnect(p.ctx); rerr != nil {
			sys.LogVoice(sys.MsgVoiceConnectFail, rerr)
		}
		return true
	}

	sys.LogVoice(sys.MsgVoicePlaybackFail, t.Title, perr.Err)
	p.notifyf("Skipping **%s**: %v", t.Title, perr.Err)
	p.transportRetries = 0
	return true
}

func (p *Player) notifyf(format string, v ...any) {
	if p.notifier == nil || p.TextID == 0 {
		return
	}
	p.notifier.Notify(p.TextID, fmt.Sprintf(format, v...))
}

// --- Commands ---

// Enqueue adds a track and wakes the worker if the session is idle. Returns
// the track's 1-based queue position.
func (p *Player) Enqueue(t *Track) int {
	pos := p.queue.Add(t)
	p.cancelPrefetch()
	p.cancelIdle()
	p.maybeWake()
	return pos
}

// PlayNext queues a track ahead of everything else.
func (p *Player) PlayNext(t *Track) {
	p.queue.PushFront(t)
	p.cancelPrefetch()
	p.cancelIdle()
	p.maybeWake()
}

// maybeWake re-arms the worker when nothing is playing. The signal channel
// coalesces, so posting while a transition is already in flight is harmless;
// the worker simply re-checks the queue on its next pass.
func (p *Player) maybeWake() {
	p.mu.Lock()
	idle := p.current == nil
	p.mu.Unlock()
	if idle {
		p.requestAdvance()
	}
}

// Skip advances past the current track. Under single loop the re-injection
// is suppressed for exactly this transition so skip moves forward.
func (p *Player) Skip() {
	p.mu.Lock()
	if p.loopMode == LoopSingle {
		p.skipLoop = true
	}
	hasCurrent := p.current != nil
	p.mu.Unlock()

	if hasCurrent {
		p.audio.Stop()
	} else {
		p.maybeWake()
	}
}

// Stop tears the session down: queue, current, modes, history, background
// activities and the audio connection all reset. The registry entry survives.
func (p *Player) Stop(ctx context.Context) {
	p.gen.Add(1) // in-flight completions are now stale
	p.cancelPrefetch()
	p.cancelIdle()
	p.audio.Stop()

	p.queue.Clear()
	p.history.Clear()

	p.mu.Lock()
	p.current = nil
	p.pending = nil
	p.loopMode = LoopOff
	p.autoplay = AutoplayOff
	p.shuffle = ReorderRestore
	p.skipLoop = false
	p.mu.Unlock()

	p.audio.Disconnect(ctx)
	sys.LogVoice(sys.MsgVoiceDisconnected, p.GuildID)
}

// Close stops the session and its worker goroutine for good.
func (p *Player) Close(ctx context.Context) {
	p.closed.Do(func() {
		p.Stop(ctx)
		p.cancel()
	})
}

func (p *Player) Pause()          { p.audio.Pause() }
func (p *Player) Resume()         { p.audio.Resume() }
func (p *Player) IsPlaying() bool { return p.audio.IsPlaying() }
func (p *Player) IsPaused() bool  { return p.audio.IsPaused() }

func (p *Player) NowPlaying() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Player) Queue() *Queue { return p.queue }

// Resolver exposes the session's resolver for the command layer (playlist
// expansion, saved playlists).
func (p *Player) Resolver() Resolver { return p.resolver }

func (p *Player) LoopMode() LoopMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loopMode
}

func (p *Player) SetLoopMode(mode LoopMode) {
	p.mu.Lock()
	p.loopMode = mode
	p.mu.Unlock()
}

func (p *Player) AutoplayMode() AutoplayMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoplay
}

func (p *Player) SetAutoplayMode(mode AutoplayMode) {
	p.mu.Lock()
	p.autoplay = mode
	if mode == AutoplayOff {
		p.pending = nil
	}
	p.mu.Unlock()
	p.cancelPrefetch()
}

func (p *Player) ShuffleMode() ReorderMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffle
}

// Shuffle reorders the queue and remembers the applied policy.
func (p *Player) Shuffle(mode ReorderMode) {
	p.cancelPrefetch()
	p.queue.Reorder(mode)
	p.mu.Lock()
	p.shuffle = mode
	p.mu.Unlock()
}

// MoveTrack relocates a queued track; the prefetch is invalidated since the
// upcoming item may have changed.
func (p *Player) MoveTrack(from, to int) *Track {
	p.cancelPrefetch()
	return p.queue.Move(from, to)
}

func (p *Player) RemoveTrack(index int) *Track {
	p.cancelPrefetch()
	return p.queue.Remove(index)
}
