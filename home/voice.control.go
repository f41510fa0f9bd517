package home

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/antigrafity/proc"
)

func handleVoiceSkip(event *events.ApplicationCommandInteractionCreate, _ discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil || sess.NowPlaying() == nil {
		respondEphemeral(event, "Nothing is playing.")
		return
	}
	sess.Skip()
	respond(event, "Skipped.")
}

func handleVoiceStop(event *events.ApplicationCommandInteractionCreate, _ discord.SlashCommandInteractionData) {
	if event.GuildID() == nil {
		return
	}
	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}
	proc.GetVoiceManager().Remove(context.Background(), *event.GuildID())
	respond(event, "Stopped and disconnected.")
}

func handleVoicePause(event *events.ApplicationCommandInteractionCreate, _ discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil || !sess.IsPlaying() {
		respondEphemeral(event, "Nothing is playing.")
		return
	}
	if sess.IsPaused() {
		respondEphemeral(event, "Already paused.")
		return
	}
	sess.Pause()
	respond(event, "Paused.")
}

func handleVoiceResume(event *events.ApplicationCommandInteractionCreate, _ discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil || !sess.IsPaused() {
		respondEphemeral(event, "Nothing is paused.")
		return
	}
	sess.Resume()
	respond(event, "Resumed.")
}

func handleVoiceLoop(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}
	mode, _ := data.OptString("mode")
	sess.SetLoopMode(proc.ParseLoopMode(mode))
	respond(event, "Loop mode set to **"+sess.LoopMode().String()+"**.")
}

func handleVoiceShuffle(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}
	if sess.Queue().Len() < 2 {
		respondEphemeral(event, "Not enough queued tracks to reorder.")
		return
	}

	mode, ok := data.OptString("mode")
	if !ok {
		mode = "standard"
	}
	sess.Shuffle(proc.ParseReorderMode(mode))

	switch proc.ParseReorderMode(mode) {
	case proc.ReorderRestore:
		respond(event, "Queue restored to original order.")
	case proc.ReorderRiffle:
		respond(event, "Queue riffle-shuffled.")
	default:
		respond(event, "Queue shuffled.")
	}
}

func handleVoiceAutoplay(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	sess, err := sessionFor(event)
	if err != nil {
		respondEphemeral(event, err.Error())
		return
	}
	mode, _ := data.OptString("mode")
	sess.SetAutoplayMode(proc.ParseAutoplayMode(mode))
	respond(event, "Autoplay set to **"+sess.AutoplayMode().String()+"**.")
}

func handleVoiceMove(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}
	from, _ := data.OptInt("from")
	to, _ := data.OptInt("to")

	moved := sess.MoveTrack(from-1, to-1)
	if moved == nil {
		respondEphemeral(event, "No track at that position.")
		return
	}
	respond(event, "Moved **"+moved.Title+"**.")
}

func handleVoiceRemove(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}
	pos, _ := data.OptInt("position")

	removed := sess.RemoveTrack(pos - 1)
	if removed == nil {
		respondEphemeral(event, "No track at that position.")
		return
	}
	respond(event, "Removed **"+removed.Title+"**.")
}
