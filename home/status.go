package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/leeineian/antigrafity/sys"
)

func init() {
	adminPerm := discord.PermissionAdministrator

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "status",
		Description:              "Configure bot status visibility (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionBool{
				Name:        "visible",
				Description: "Enable or disable status rotation",
				Required:    true,
			},
		},
	}, handleStatus)
}

func handleStatus(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	visible := data.Bool("visible")

	value := "false"
	content := "✅ Status rotation disabled!"
	if visible {
		value = "true"
		content = "✅ Status rotation enabled!"
	}
	if err := sys.SetBotConfig(sys.AppContext, "status_visible", value); err != nil {
		sys.LogDatabase("Failed to store status visibility: %v", err)
	}

	err := event.CreateMessage(discord.MessageCreate{
		Flags: discord.MessageFlagIsComponentsV2 | discord.MessageFlagEphemeral,
		Components: []discord.LayoutComponent{
			discord.NewContainer(
				discord.NewTextDisplay(content),
			),
		},
	})
	if err != nil {
		sys.LogDebug("Failed to respond to status command: %v", err)
	}
}
