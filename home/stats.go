package home

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/antigrafity/proc"
	"github.com/leeineian/antigrafity/sys"
)

const (
	statsAnsiReset    = "[0m"
	statsAnsiPink     = "[35m"
	statsAnsiPinkBold = "[35;1m"
)

func statsTitle(text string) string {
	return fmt.Sprintf("%s%s%s", statsAnsiPink, text, statsAnsiReset)
}

func statsKey(text string) string {
	return fmt.Sprintf("%s> %s:%s", statsAnsiPink, text, statsAnsiReset)
}

func statsVal(text string) string {
	return fmt.Sprintf("%s%s%s", statsAnsiPinkBold, text, statsAnsiReset)
}

func init() {
	adminPerm := discord.PermissionAdministrator

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "stats",
		Description:              "Display system and playback statistics (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
	}, handleStats)
}

func handleStats(event *events.ApplicationCommandInteractionCreate) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uptime := time.Since(sys.StartupTime)
	interLatency := time.Since(snowflake.ID(event.ID()).Time()).Milliseconds()
	gwLatency := event.Client().Gateway.Latency().Milliseconds()

	dbLatency := "n/a"
	if sys.DB != nil {
		start := time.Now()
		if err := sys.DB.PingContext(context.Background()); err == nil {
			dbLatency = fmt.Sprintf("%.2fms", float64(time.Since(start).Microseconds())/1000)
		}
	}

	sessions := proc.GetVoiceManager().Sessions()
	queued := 0
	playing := 0
	for _, sess := range sessions {
		queued += sess.Queue().Len()
		if sess.NowPlaying() != nil {
			playing++
		}
	}

	var sb strings.Builder
	sb.WriteString("```ansi\n")
	sb.WriteString(statsTitle("System") + "\n")
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Uptime"), statsVal(fmt.Sprintf("%dh %dm %ds", int(uptime.Hours()), int(uptime.Minutes())%60, int(uptime.Seconds())%60)))
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Goroutines"), statsVal(fmt.Sprintf("%d", runtime.NumGoroutine())))
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Heap"), statsVal(fmt.Sprintf("%.1f MiB", float64(mem.HeapAlloc)/1024/1024)))
	sb.WriteString("\n" + statsTitle("Latency") + "\n")
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Interaction"), statsVal(fmt.Sprintf("%dms", interLatency)))
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Gateway"), statsVal(fmt.Sprintf("%dms", gwLatency)))
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Database"), statsVal(dbLatency))
	sb.WriteString("\n" + statsTitle("Playback") + "\n")
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Sessions"), statsVal(fmt.Sprintf("%d", len(sessions))))
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Playing"), statsVal(fmt.Sprintf("%d", playing)))
	fmt.Fprintf(&sb, "%s %s\n", statsKey("Queued tracks"), statsVal(fmt.Sprintf("%d", queued)))
	sb.WriteString("```")

	_ = event.CreateMessage(discord.MessageCreate{
		Content: sb.String(),
		Flags:   discord.MessageFlagEphemeral,
	})
}
