package proc

import (
	"context"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/antigrafity/sys"
)

var (
	VoiceManager *VoiceSystem
	OnceVoice    sync.Once
)

// VoiceSystem is the registry of live playback sessions, one per guild.
type VoiceSystem struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*Player
}

// GetVoiceManager returns the singleton VoiceSystem instance.
func GetVoiceManager() *VoiceSystem {
	OnceVoice.Do(func() {
		VoiceManager = NewVoiceSystem()
	})
	return VoiceManager
}

// NewVoiceSystem builds an empty registry. Tests use this directly instead
// of the singleton.
func NewVoiceSystem() *VoiceSystem {
	return &VoiceSystem{sessions: make(map[snowflake.ID]*Player)}
}

// Prepare returns the guild's session, creating and wiring one on first use.
// If the session exists but points at a different voice channel, it is moved.
func (vs *VoiceSystem) Prepare(ctx context.Context, client *bot.Client, guildID, channelID, textID snowflake.ID) (*Player, error) {
	vs.mu.Lock()
	if sess, ok := vs.sessions[guildID]; ok {
		vs.mu.Unlock()
		if sess.ChannelID != channelID {
			if err := sess.audio.Move(ctx, channelID); err != nil {
				return nil, err
			}
			sess.ChannelID = channelID
		}
		sess.TextID = textID
		return sess, nil
	}
	vs.mu.Unlock()

	resolver := NewYtdlpResolver()
	audio := newVoiceBackend(client, guildID)
	notifier := newRestNotifier(client)

	sess := NewPlayer(guildID, channelID, textID, resolver, audio, notifier, client.ApplicationID)
	if err := audio.Connect(ctx, channelID); err != nil {
		sess.Close(ctx)
		return nil, err
	}
	sys.LogVoice(sys.MsgVoiceConnecting, channelID, guildID)

	vs.mu.Lock()
	// Another command may have raced us here; prefer the existing session.
	if existing, ok := vs.sessions[guildID]; ok {
		vs.mu.Unlock()
		sess.Close(ctx)
		return existing, nil
	}
	vs.sessions[guildID] = sess
	vs.mu.Unlock()

	return sess, nil
}

// Register inserts a pre-built session, replacing any existing one. Used by
// tests to install sessions with stubbed collaborators.
func (vs *VoiceSystem) Register(sess *Player) {
	vs.mu.Lock()
	vs.sessions[sess.GuildID] = sess
	vs.mu.Unlock()
}

// Sessions returns a snapshot of all live sessions.
func (vs *VoiceSystem) Sessions() []*Player {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	out := make([]*Player, 0, len(vs.sessions))
	for _, sess := range vs.sessions {
		out = append(out, sess)
	}
	return out
}

func (vs *VoiceSystem) Get(guildID snowflake.ID) *Player {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.sessions[guildID]
}

// Remove closes and deletes the guild's session.
func (vs *VoiceSystem) Remove(ctx context.Context, guildID snowflake.ID) {
	vs.mu.Lock()
	sess := vs.sessions[guildID]
	delete(vs.sessions, guildID)
	vs.mu.Unlock()

	if sess != nil {
		sess.Close(ctx)
	}
}

// Shutdown closes every live session in parallel.
func (vs *VoiceSystem) Shutdown(ctx context.Context) {
	vs.mu.Lock()
	sessions := make([]*Player, 0, len(vs.sessions))
	for _, sess := range vs.sessions {
		sessions = append(sessions, sess)
	}
	vs.sessions = make(map[snowflake.ID]*Player)
	vs.mu.Unlock()

	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(s *Player) {
			defer wg.Done()
			s.Close(ctx)
		}(sess)
	}
	wg.Wait()
}
