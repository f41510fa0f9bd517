package proc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"

	"github.com/leeineian/antigrafity/sys"
)

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		sys.RegisterDaemon(logPresence, func(ctx context.Context) (bool, func(), func()) {
			return true, func() { runPresenceRotator(ctx, client) }, nil
		})
	})
}

func logPresence(format string, v ...any) {
	sys.LogCustom("PRESENCE", format, v...)
}

const configKeyStatusVisible = "status_visible"

var lastPresenceText string

func presenceInterval() time.Duration {
	return time.Duration(15+rand.IntN(46)) * time.Second
}

func runPresenceRotator(ctx context.Context, client *bot.Client) {
	for {
		next := presenceInterval()
		updatePresence(ctx, client)
		select {
		case <-time.After(next):
		case <-ctx.Done():
			return
		}
	}
}

func updatePresence(ctx context.Context, client *bot.Client) {
	visible, err := sys.GetBotConfig(ctx, configKeyStatusVisible)
	if err == nil && visible == "false" {
		_ = client.SetPresence(ctx, gateway.WithOnlineStatus(discord.OnlineStatusOnline))
		return
	}

	generators := []func() string{
		nowPlayingStatus,
		sessionCountStatus,
		uptimeStatus,
		func() string { return latencyStatus(client) },
	}

	var available []string
	for _, gen := range generators {
		if text := gen(); text != "" {
			available = append(available, text)
		}
	}
	if len(available) == 0 {
		available = append(available, uptimeStatus())
	}

	// Avoid showing the same status twice in a row.
	var choices []string
	for _, s := range available {
		if s != lastPresenceText {
			choices = append(choices, s)
		}
	}
	if len(choices) == 0 {
		choices = available
	}
	selected := choices[rand.IntN(len(choices))]
	lastPresenceText = selected

	err = client.SetPresence(ctx,
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
		gateway.WithListeningActivity(selected),
	)
	if err != nil {
		logPresence("Failed to update presence: %v", err)
	}
}

// nowPlayingStatus surfaces one live session's current track.
func nowPlayingStatus() string {
	for _, sess := range GetVoiceManager().Sessions() {
		if cur := sess.NowPlaying(); cur != nil {
			return "♪ " + cur.Title
		}
	}
	return ""
}

func sessionCountStatus() string {
	n := len(GetVoiceManager().Sessions())
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("music in %d server(s)", n)
}

func uptimeStatus() string {
	uptime := time.Since(sys.StartupTime)
	return fmt.Sprintf("Uptime: %dh %dm", int(uptime.Hours()), int(uptime.Minutes())%60)
}

func latencyStatus(client *bot.Client) string {
	ping := client.Gateway.Latency()
	if ping == 0 {
		return ""
	}
	return fmt.Sprintf("Ping: %dms", ping.Milliseconds())
}
