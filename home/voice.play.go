package home

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/antigrafity/proc"
	"github.com/leeineian/antigrafity/sys"
)

var searchCache = proc.NewQueryCache()

func handleVoicePlay(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	query, _ := data.OptString("query")
	playNext, _ := data.OptBool("next")

	// Instant defer; resolution can take a while
	_ = event.DeferCreateMessage(false)

	sess, err := sessionFor(event)
	if err != nil {
		updateResponse(event, "Failed to start player: "+err.Error())
		return
	}

	ctx := context.Background()

	if isPlaylistURL(query) {
		tracks, title, err := sess.Resolver().ResolvePlaylist(ctx, query, 0)
		if err != nil {
			updateResponse(event, "Failed to load playlist: "+err.Error())
			return
		}
		for _, t := range tracks {
			t.Requester = event.User().ID
			sess.Enqueue(t)
		}
		if title == "" {
			title = "playlist"
		}
		updateResponse(event, fmt.Sprintf("Queued **%d** tracks from **%s**.", len(tracks), title))
		return
	}

	track, err := sess.Resolver().Resolve(ctx, query)
	if err != nil {
		sys.LogError("Playback error: %v", err)
		updateResponse(event, "Failed to resolve: "+err.Error())
		return
	}
	track.Requester = event.User().ID

	if playNext {
		sess.PlayNext(track)
		updateResponse(event, "Up next: ["+track.Title+"]("+track.URL+")")
		return
	}

	pos := sess.Enqueue(track)
	if pos == 1 && sess.NowPlaying() == nil {
		updateResponse(event, "Playing: ["+track.Title+"]("+track.URL+")")
	} else {
		updateResponse(event, fmt.Sprintf("Added to queue at #%d: [%s](%s)", pos, track.Title, track.URL))
	}
}

func isPlaylistURL(query string) bool {
	if !strings.Contains(query, "://") {
		return false
	}
	return strings.Contains(query, "list=") && !strings.Contains(query, "watch?v=")
}

func handleVoiceAutocomplete(event *events.AutocompleteInteractionCreate) {
	focused := event.Data.Focused()
	if focused.Name != "query" {
		return
	}
	query := focused.String()
	if query == "" {
		_ = event.AutocompleteResult(nil)
		return
	}

	results, ok := searchCache.Get(query)
	if !ok {
		var err error
		results, err = proc.Search(query)
		if err != nil {
			_ = event.AutocompleteResult(nil)
			return
		}
		searchCache.Put(query, results)
	}

	var choices []discord.AutocompleteChoice
	for i, r := range results {
		if i >= 25 {
			break
		}
		name := r.Title
		if r.ChannelName != "" {
			name += " - " + r.ChannelName
		}
		if len(name) > 100 {
			name = name[:97] + "..."
		}

		// The URL as value skips the search on selection
		val := r.URL
		if len(val) > 100 {
			val = r.Title
			if len(val) > 100 {
				val = val[:100]
			}
		}

		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  name,
			Value: val,
		})
	}
	_ = event.AutocompleteResult(choices)
}
