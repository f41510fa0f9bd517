package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/leeineian/antigrafity/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "voice",
		Description: "Voice System",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "play",
				Description: "Play a song or playlist",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:         "query",
						Description:  "The URL or song name to play",
						Required:     true,
						Autocomplete: true,
					},
					discord.ApplicationCommandOptionBool{
						Name:        "next",
						Description: "Queue ahead of everything else",
						Required:    false,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "skip",
				Description: "Skip the current track",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "stop",
				Description: "Stop playback and leave",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "pause",
				Description: "Pause playback",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "resume",
				Description: "Resume playback",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "queue",
				Description: "Show the queue",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "nowplaying",
				Description: "Show the current track",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "loop",
				Description: "Set the loop mode",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "mode",
						Description: "Loop mode",
						Required:    true,
						Choices: []discord.ApplicationCommandOptionChoiceString{
							{Name: "off", Value: "off"},
							{Name: "single", Value: "single"},
							{Name: "queue", Value: "queue"},
						},
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "shuffle",
				Description: "Reorder the queue",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "mode",
						Description: "Reorder policy",
						Required:    false,
						Choices: []discord.ApplicationCommandOptionChoiceString{
							{Name: "standard", Value: "standard"},
							{Name: "riffle", Value: "riffle"},
							{Name: "restore", Value: "restore"},
						},
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "autoplay",
				Description: "Set the autoplay mode",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "mode",
						Description: "Autoplay mode",
						Required:    true,
						Choices: []discord.ApplicationCommandOptionChoiceString{
							{Name: "off", Value: "off"},
							{Name: "basic", Value: "basic"},
							{Name: "relevant", Value: "relevant"},
							{Name: "explorative", Value: "explorative"},
						},
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "move",
				Description: "Move a queued track",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "from",
						Description: "Current position (1-based)",
						Required:    true,
					},
					discord.ApplicationCommandOptionInt{
						Name:        "to",
						Description: "Target position (1-based)",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove a queued track",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "position",
						Description: "Queue position (1-based)",
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
		case "play":
			handleVoicePlay(event, data)
		case "skip":
			handleVoiceSkip(event, data)
		case "stop":
			handleVoiceStop(event, data)
		case "pause":
			handleVoicePause(event, data)
		case "resume":
			handleVoiceResume(event, data)
		case "queue":
			handleVoiceQueue(event, data)
		case "nowplaying":
			handleVoiceNowPlaying(event, data)
		case "loop":
			handleVoiceLoop(event, data)
		case "shuffle":
			handleVoiceShuffle(event, data)
		case "autoplay":
			handleVoiceAutoplay(event, data)
		case "move":
			handleVoiceMove(event, data)
		case "remove":
			handleVoiceRemove(event, data)
		}
	})

	sys.RegisterAutocompleteHandler("voice", handleVoiceAutocomplete)
}
