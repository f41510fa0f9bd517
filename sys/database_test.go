package sys

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestDB(t *testing.T) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_journal_mode=WAL&_timeout=5000"
	require.NoError(t, InitDatabase(context.Background(), dsn))
	t.Cleanup(CloseDatabase)
}

func TestBotConfigRoundTrip(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()

	val, err := GetBotConfig(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, SetBotConfig(ctx, "key", "v1"))
	val, err = GetBotConfig(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	// Upsert overwrites.
	require.NoError(t, SetBotConfig(ctx, "key", "v2"))
	val, err = GetBotConfig(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func samplePlaylistTracks() []SavedTrack {
	return []SavedTrack{
		{Title: "First", URL: "https://example.com/1", Uploader: "A", Duration: 3 * time.Minute, Thumbnail: "https://example.com/1.jpg"},
		{Title: "Second", URL: "https://example.com/2", Uploader: "B", Duration: 4 * time.Minute},
	}
}

func TestPlaylistSaveAndLoad(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)
	owner := snowflake.ID(200)

	require.NoError(t, SavePlaylist(ctx, guild, owner, "favs", samplePlaylistTracks()))

	pl, err := LoadPlaylist(ctx, guild, "favs")
	require.NoError(t, err)
	require.NotNil(t, pl)
	assert.Equal(t, "favs", pl.Name)
	assert.Equal(t, guild, pl.GuildID)
	assert.Equal(t, owner, pl.OwnerID)
	require.Len(t, pl.Tracks, 2)
	assert.Equal(t, "First", pl.Tracks[0].Title)
	assert.Equal(t, 3*time.Minute, pl.Tracks[0].Duration)
	assert.Equal(t, "https://example.com/2", pl.Tracks[1].URL)
}

func TestPlaylistLoadMissing(t *testing.T) {
	initTestDB(t)

	pl, err := LoadPlaylist(context.Background(), snowflake.ID(100), "nope")
	require.NoError(t, err)
	assert.Nil(t, pl)
}

func TestPlaylistSaveReplaces(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)
	owner := snowflake.ID(200)

	require.NoError(t, SavePlaylist(ctx, guild, owner, "favs", samplePlaylistTracks()))
	require.NoError(t, SavePlaylist(ctx, guild, owner, "favs", []SavedTrack{
		{Title: "Replacement", URL: "https://example.com/3"},
	}))

	pl, err := LoadPlaylist(ctx, guild, "favs")
	require.NoError(t, err)
	require.NotNil(t, pl)
	require.Len(t, pl.Tracks, 1)
	assert.Equal(t, "Replacement", pl.Tracks[0].Title)
}

func TestPlaylistListScopedToGuild(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()
	owner := snowflake.ID(200)

	require.NoError(t, SavePlaylist(ctx, snowflake.ID(100), owner, "one", samplePlaylistTracks()))
	require.NoError(t, SavePlaylist(ctx, snowflake.ID(100), owner, "two", samplePlaylistTracks()[:1]))
	require.NoError(t, SavePlaylist(ctx, snowflake.ID(999), owner, "elsewhere", samplePlaylistTracks()))

	infos, err := ListPlaylists(ctx, snowflake.ID(100))
	require.NoError(t, err)
	require.Len(t, infos, 2)

	names := []string{infos[0].Name, infos[1].Name}
	assert.ElementsMatch(t, []string{"one", "two"}, names)
	for _, info := range infos {
		assert.Equal(t, owner, info.OwnerID)
	}
}

func TestPlaylistDelete(t *testing.T) {
	initTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(100)

	require.NoError(t, SavePlaylist(ctx, guild, snowflake.ID(200), "doomed", samplePlaylistTracks()))

	deleted, err := DeletePlaylist(ctx, guild, "doomed")
	require.NoError(t, err)
	assert.True(t, deleted)

	pl, err := LoadPlaylist(ctx, guild, "doomed")
	require.NoError(t, err)
	assert.Nil(t, pl)

	deleted, err = DeletePlaylist(ctx, guild, "doomed")
	require.NoError(t, err)
	assert.False(t, deleted)
}
