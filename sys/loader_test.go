package sys

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCommandHash(t *testing.T) {
	a := []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{Name: "voice", Description: "Voice System"},
	}
	b := []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{Name: "voice", Description: "Voice System"},
	}
	c := []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{Name: "voice", Description: "Voice System v2"},
	}

	assert.Equal(t, calculateCommandHash(a), calculateCommandHash(b))
	assert.NotEqual(t, calculateCommandHash(a), calculateCommandHash(c))
	assert.NotEmpty(t, calculateCommandHash(nil))
}

func TestSafeGoRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeGo(func() {
		defer close(done)
		panic("boom")
	})
	<-done
}
