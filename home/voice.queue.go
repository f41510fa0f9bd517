package home

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
)

func handleVoiceQueue(event *events.ApplicationCommandInteractionCreate, _ discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}

	var sb strings.Builder
	if cur := sess.NowPlaying(); cur != nil {
		fmt.Fprintf(&sb, "**Now playing:** [%s](%s) `%s`\n\n", cur.Title, cur.URL, formatDuration(cur.Duration))
	}

	tracks := sess.Queue().Snapshot(15)
	total := sess.Queue().Len()
	if len(tracks) == 0 {
		sb.WriteString("The queue is empty.")
	} else {
		for i, t := range tracks {
			fmt.Fprintf(&sb, "`%d.` [%s](%s) `%s`\n", i+1, t.Title, t.URL, formatDuration(t.Duration))
		}
		if total > len(tracks) {
			fmt.Fprintf(&sb, "\n...and %d more.", total-len(tracks))
		}
	}

	fmt.Fprintf(&sb, "\n\nLoop: `%s` | Autoplay: `%s`", sess.LoopMode(), sess.AutoplayMode())
	respond(event, sb.String())
}

func handleVoiceNowPlaying(event *events.ApplicationCommandInteractionCreate, _ discord.SlashCommandInteractionData) {
	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}
	cur := sess.NowPlaying()
	if cur == nil {
		respondEphemeral(event, "Nothing is playing.")
		return
	}

	state := "Playing"
	if sess.IsPaused() {
		state = "Paused"
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(cur.Title).
		SetURL(cur.URL).
		SetDescriptionf("%s | `%s` | %s | <@%s>", state, formatDuration(cur.Duration), cur.Uploader, cur.Requester).
		SetThumbnail(cur.Thumbnail).
		Build()

	_ = event.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}
