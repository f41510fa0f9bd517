package home

import (
	"context"

	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/antigrafity/proc"
	"github.com/leeineian/antigrafity/sys"
)

func init() {
	sys.RegisterVoiceStateUpdateHandler(onVoiceStateUpdate)
}

// onVoiceStateUpdate releases the session when the bot is disconnected
// externally and pauses or resumes playback as humans leave or join the
// bot's channel.
func onVoiceStateUpdate(event *events.GuildVoiceStateUpdate) {
	vm := proc.GetVoiceManager()
	sess := vm.Get(event.VoiceState.GuildID)
	if sess == nil {
		return
	}

	botID := event.Client().ApplicationID

	if event.VoiceState.UserID == botID {
		if event.VoiceState.ChannelID == nil {
			sys.LogVoice("Bot disconnected by external event in guild %s", event.VoiceState.GuildID)
			vm.Remove(context.Background(), event.VoiceState.GuildID)
			return
		}
		if *event.VoiceState.ChannelID != sess.ChannelID {
			sess.ChannelID = *event.VoiceState.ChannelID
		}
		return
	}

	if sess.ChannelID == 0 {
		return
	}

	humanCount := 0
	for state := range event.Client().Caches.VoiceStates(event.VoiceState.GuildID) {
		if state.ChannelID == nil || *state.ChannelID != sess.ChannelID || state.UserID == botID {
			continue
		}
		if m, ok := event.Client().Caches.Member(event.VoiceState.GuildID, state.UserID); !ok || !m.User.Bot {
			humanCount++
		}
	}

	if humanCount == 0 && sess.IsPlaying() && !sess.IsPaused() {
		sys.LogVoice("Pausing playback in guild %s (No humans)", event.VoiceState.GuildID)
		sess.Pause()
	} else if humanCount > 0 && sess.IsPaused() {
		sys.LogVoice("Resuming playback in guild %s", event.VoiceState.GuildID)
		sess.Resume()
	}
}
