package home

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/samber/lo"

	"github.com/leeineian/antigrafity/proc"
)

// sessionFor resolves the invoking user's voice channel and returns the
// guild's playback session, creating one if needed.
func sessionFor(event *events.ApplicationCommandInteractionCreate) (*proc.Player, error) {
	if event.GuildID() == nil || event.Member() == nil {
		return nil, errors.New("this command only works in a server")
	}

	voiceState, ok := event.Client().Caches.VoiceState(*event.GuildID(), event.User().ID)
	if !ok || voiceState.ChannelID == nil {
		return nil, errors.New("you must be in a voice channel")
	}

	return proc.GetVoiceManager().Prepare(context.Background(), event.Client(),
		*event.GuildID(), *voiceState.ChannelID, event.Channel().ID())
}

// existingSession returns the guild's session without creating one.
func existingSession(event *events.ApplicationCommandInteractionCreate) *proc.Player {
	if event.GuildID() == nil {
		return nil
	}
	return proc.GetVoiceManager().Get(*event.GuildID())
}

func respond(event *events.ApplicationCommandInteractionCreate, content string) {
	_ = event.CreateMessage(discord.MessageCreate{Content: content})
}

func respondEphemeral(event *events.ApplicationCommandInteractionCreate, content string) {
	_ = event.CreateMessage(discord.MessageCreate{
		Content: content,
		Flags:   discord.MessageFlagEphemeral,
	})
}

func updateResponse(event *events.ApplicationCommandInteractionCreate, content string) {
	_, _ = event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.MessageUpdate{Content: lo.ToPtr(content)})
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
