package home

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/antigrafity/proc"
	"github.com/leeineian/antigrafity/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "playlist",
		Description: "Saved Playlists",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "save",
				Description: "Save the current queue as a playlist",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "name",
						Description: "Playlist name",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "load",
				Description: "Enqueue a saved playlist",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "name",
						Description: "Playlist name",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "List saved playlists",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "delete",
				Description: "Delete a saved playlist",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "name",
						Description: "Playlist name",
						Required:    true,
					},
				},
			},
		},
	}, func(event *events.ApplicationCommandInteractionCreate) {
		data := event.SlashCommandInteractionData()
		if data.SubCommandName == nil {
			return
		}

		switch *data.SubCommandName {
		case "save":
			handlePlaylistSave(event, data)
		case "load":
			handlePlaylistLoad(event, data)
		case "list":
			handlePlaylistList(event, data)
		case "delete":
			handlePlaylistDelete(event, data)
		}
	})
}

func handlePlaylistSave(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	name := strings.TrimSpace(data.String("name"))
	if name == "" {
		respondEphemeral(event, "Playlist name cannot be empty.")
		return
	}
	if event.GuildID() == nil {
		respondEphemeral(event, "Playlists only work in servers.")
		return
	}

	sess := existingSession(event)
	if sess == nil {
		respondEphemeral(event, "Not connected to voice.")
		return
	}

	var saved []sys.SavedTrack
	if cur := sess.NowPlaying(); cur != nil {
		saved = append(saved, savedFromTrack(cur))
	}
	for _, t := range sess.Queue().Snapshot(0) {
		saved = append(saved, savedFromTrack(t))
	}
	if len(saved) == 0 {
		respondEphemeral(event, "There is nothing to save.")
		return
	}

	err := sys.SavePlaylist(sys.AppContext, *event.GuildID(), event.User().ID, name, saved)
	if err != nil {
		sys.LogDatabase("Failed to save playlist %q: %v", name, err)
		respondEphemeral(event, "Could not save the playlist.")
		return
	}
	respond(event, fmt.Sprintf("Saved **%d** tracks as **%s**.", len(saved), name))
}

func handlePlaylistLoad(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	name := strings.TrimSpace(data.String("name"))
	if event.GuildID() == nil {
		respondEphemeral(event, "Playlists only work in servers.")
		return
	}

	pl, err := sys.LoadPlaylist(sys.AppContext, *event.GuildID(), name)
	if err != nil {
		sys.LogDatabase("Failed to load playlist %q: %v", name, err)
		respondEphemeral(event, "Could not load the playlist.")
		return
	}
	if pl == nil {
		respondEphemeral(event, fmt.Sprintf("No playlist named **%s**.", name))
		return
	}

	_ = event.DeferCreateMessage(false)
	sess, err := sessionFor(event)
	if err != nil {
		updateResponse(event, err.Error())
		return
	}

	for _, st := range pl.Tracks {
		track := &proc.Track{
			Title:     st.Title,
			URL:       st.URL,
			Duration:  st.Duration,
			Uploader:  st.Uploader,
			Thumbnail: st.Thumbnail,
			Requester: event.User().ID,
		}
		sess.Enqueue(track)
	}
	updateResponse(event, fmt.Sprintf("Queued **%d** tracks from **%s**.", len(pl.Tracks), pl.Name))
}

func handlePlaylistList(event *events.ApplicationCommandInteractionCreate, _ discord.SlashCommandInteractionData) {
	if event.GuildID() == nil {
		respondEphemeral(event, "Playlists only work in servers.")
		return
	}

	infos, err := sys.ListPlaylists(sys.AppContext, *event.GuildID())
	if err != nil {
		sys.LogDatabase("Failed to list playlists: %v", err)
		respondEphemeral(event, "Could not list playlists.")
		return
	}
	if len(infos) == 0 {
		respondEphemeral(event, "No saved playlists in this server.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Saved playlists:**\n")
	for _, info := range infos {
		fmt.Fprintf(&sb, "- **%s** (%d tracks, by <@%s>)\n", info.Name, info.TrackCount, info.OwnerID)
	}
	respond(event, sb.String())
}

func handlePlaylistDelete(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	name := strings.TrimSpace(data.String("name"))
	if event.GuildID() == nil {
		respondEphemeral(event, "Playlists only work in servers.")
		return
	}

	deleted, err := sys.DeletePlaylist(sys.AppContext, *event.GuildID(), name)
	if err != nil {
		sys.LogDatabase("Failed to delete playlist %q: %v", name, err)
		respondEphemeral(event, "Could not delete the playlist.")
		return
	}
	if !deleted {
		respondEphemeral(event, fmt.Sprintf("No playlist named **%s**.", name))
		return
	}
	respond(event, fmt.Sprintf("Deleted **%s**.", name))
}

func savedFromTrack(t *proc.Track) sys.SavedTrack {
	return sys.SavedTrack{
		Title:     t.Title,
		URL:       t.URL,
		Uploader:  t.Uploader,
		Duration:  t.Duration,
		Thumbnail: t.Thumbnail,
	}
}
