package home

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/leeineian/antigrafity/sys"
)

func init() {
	adminPerm := discord.PermissionAdministrator

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "ping",
		Description:              "Check bot latency (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
	}, handlePing)

	sys.RegisterComponentHandler("ping_refresh", handlePingRefresh)
}

func pingContent(eventID snowflake.ID, client *bot.Client) string {
	interLatency := time.Since(eventID.Time()).Milliseconds()
	content := fmt.Sprintf("# Pong! 🏓\n\n> **Interaction:** %dms", interLatency)
	if gw := client.Gateway.Latency(); gw > 0 {
		content += fmt.Sprintf("\n> **Gateway:** %dms", gw.Milliseconds())
	}
	return content
}

func pingComponents(content string) []discord.LayoutComponent {
	return []discord.LayoutComponent{
		discord.NewContainer(
			discord.NewTextDisplay(content),
			discord.NewActionRow(
				discord.NewSuccessButton("🔄 Refresh", "ping_refresh"),
			),
		),
	}
}

func handlePing(event *events.ApplicationCommandInteractionCreate) {
	err := event.CreateMessage(discord.MessageCreate{
		Flags: discord.MessageFlagIsComponentsV2 | discord.MessageFlagEphemeral,
		Components: []discord.LayoutComponent{
			discord.NewContainer(
				discord.NewTextDisplay("🏓 Pinging..."),
			),
		},
	})
	if err != nil {
		sys.LogDebug("Failed to send ping: %v", err)
		return
	}

	content := pingContent(snowflake.ID(event.ID()), event.Client())
	_, _ = event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), discord.MessageUpdate{
		Flags:      lo.ToPtr(discord.MessageFlagIsComponentsV2),
		Components: lo.ToPtr(pingComponents(content)),
	})
}

func handlePingRefresh(event *events.ComponentInteractionCreate) {
	content := pingContent(snowflake.ID(event.ID()), event.Client())
	_ = event.UpdateMessage(discord.MessageUpdate{
		Flags:      lo.ToPtr(discord.MessageFlagIsComponentsV2),
		Components: lo.ToPtr(pingComponents(content)),
	})
}
