package proc

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/leeineian/antigrafity/sys"
)

// restNotifier posts session messages to a text channel. Failures are
// logged and dropped; playback never depends on delivery.
type restNotifier struct {
	client *bot.Client
}

func newRestNotifier(client *bot.Client) *restNotifier {
	return &restNotifier{client: client}
}

func (n *restNotifier) Notify(channelID snowflake.ID, message string) {
	if channelID == 0 {
		return
	}
	_, err := n.client.Rest.CreateMessage(channelID, discord.MessageCreate{Content: message})
	if err != nil {
		sys.LogVoice("Failed to send notification to %s: %v", channelID, err)
	}
}
