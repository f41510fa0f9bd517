package sys

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	_ "github.com/mattn/go-sqlite3"
)

// --- Database Connection & Lifecycle ---

var DB *sql.DB

func InitDatabase(ctx context.Context, dataSourceName string) error {
	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA cache_size=-2000;",
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, p := range pragmas {
		if _, err := DB.ExecContext(initCtx, p); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}

	tx, err := DB.BeginTx(initCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableQueries := []string{
		`CREATE TABLE IF NOT EXISTS playlists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(guild_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS playlist_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			uploader TEXT,
			duration_secs INTEGER DEFAULT 0,
			thumbnail TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS bot_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range tableQueries {
		if _, err := tx.ExecContext(initCtx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	_, _ = DB.ExecContext(initCtx, "PRAGMA foreign_keys=ON;")

	LogDatabase("Database initialized")
	return nil
}

func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}

// --- Bot Persistence ---

func GetBotConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := DB.QueryRowContext(ctx, "SELECT value FROM bot_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func SetBotConfig(ctx context.Context, key, value string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO bot_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// --- Saved Playlists ---

type SavedTrack struct {
	Title     string
	URL       string
	Uploader  string
	Duration  time.Duration
	Thumbnail string
}

type SavedPlaylist struct {
	ID        int64
	GuildID   snowflake.ID
	OwnerID   snowflake.ID
	Name      string
	Tracks    []SavedTrack
	CreatedAt time.Time
}

// SavePlaylist stores a named track list for a guild, replacing any existing
// playlist with the same name.
func SavePlaylist(ctx context.Context, guildID, ownerID snowflake.ID, name string, tracks []SavedTrack) error {
	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM playlists WHERE guild_id = ? AND name = ?",
		guildID.String(), name).Scan(&existingID)
	if err == nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_tracks WHERE playlist_id = ?", existingID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", existingID); err != nil {
			return err
		}
	} else if err != sql.ErrNoRows {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO playlists (guild_id, owner_id, name) VALUES (?, ?, ?)
	`, guildID.String(), ownerID.String(), name)
	if err != nil {
		return err
	}
	playlistID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for i, t := range tracks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO playlist_tracks (playlist_id, position, title, url, uploader, duration_secs, thumbnail)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, playlistID, i, t.Title, t.URL, t.Uploader, int64(t.Duration.Seconds()), t.Thumbnail)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadPlaylist returns the named playlist for a guild, or nil if it does not exist.
func LoadPlaylist(ctx context.Context, guildID snowflake.ID, name string) (*SavedPlaylist, error) {
	p := &SavedPlaylist{GuildID: guildID, Name: name}
	var ownerStr string
	err := DB.QueryRowContext(ctx, `
		SELECT id, owner_id, created_at FROM playlists WHERE guild_id = ? AND name = ?
	`, guildID.String(), name).Scan(&p.ID, &ownerStr, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.OwnerID, _ = snowflake.Parse(ownerStr)

	rows, err := DB.QueryContext(ctx, `
		SELECT title, url, uploader, duration_secs, thumbnail
		FROM playlist_tracks WHERE playlist_id = ? ORDER BY position ASC
	`, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t SavedTrack
		var uploader, thumbnail sql.NullString
		var secs int64
		if err := rows.Scan(&t.Title, &t.URL, &uploader, &secs, &thumbnail); err != nil {
			return nil, err
		}
		t.Uploader = uploader.String
		t.Thumbnail = thumbnail.String
		t.Duration = time.Duration(secs) * time.Second
		p.Tracks = append(p.Tracks, t)
	}
	return p, rows.Err()
}

type PlaylistInfo struct {
	Name       string
	OwnerID    snowflake.ID
	TrackCount int
	CreatedAt  time.Time
}

func ListPlaylists(ctx context.Context, guildID snowflake.ID) ([]PlaylistInfo, error) {
	rows, err := DB.QueryContext(ctx, `
		SELECT p.name, p.owner_id, p.created_at, COUNT(t.id)
		FROM playlists p LEFT JOIN playlist_tracks t ON t.playlist_id = p.id
		WHERE p.guild_id = ?
		GROUP BY p.id ORDER BY p.name ASC
	`, guildID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []PlaylistInfo
	for rows.Next() {
		var info PlaylistInfo
		var ownerStr string
		if err := rows.Scan(&info.Name, &ownerStr, &info.CreatedAt, &info.TrackCount); err != nil {
			return nil, err
		}
		info.OwnerID, _ = snowflake.Parse(ownerStr)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeletePlaylist removes the named playlist. It reports whether a row was deleted.
func DeletePlaylist(ctx context.Context, guildID snowflake.ID, name string) (bool, error) {
	var id int64
	err := DB.QueryRowContext(ctx, "SELECT id FROM playlists WHERE guild_id = ? AND name = ?",
		guildID.String(), name).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := DB.ExecContext(ctx, "DELETE FROM playlist_tracks WHERE playlist_id = ?", id); err != nil {
		return false, err
	}
	_, err = DB.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	return err == nil, err
}
