package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "season_x", cfg.Sync.ActiveSeason)
	assert.Equal(t, 10*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 91, cfg.Sync.FuzzyCutoff)
	assert.Equal(t, 80, cfg.Sync.RepConfidence)
	assert.Equal(t, 30*time.Minute, cfg.Sync.LeaseTTL)
	assert.Empty(t, cfg.Sync.Reps)
	assert.False(t, cfg.Storage.Enabled)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "https://graphql.anilist.co", cfg.Media.AnilistEndpoint)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SYNC_ACTIVE_SEASON=season_y\nSYNC_INTERVAL=90s\nSYNC_REPS=FRIEREN,BOCCHI\nSHEETS_API_KEY=secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SYNC_ACTIVE_SEASON")
		os.Unsetenv("SYNC_INTERVAL")
		os.Unsetenv("SYNC_REPS")
		os.Unsetenv("SHEETS_API_KEY")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "season_y", cfg.Sync.ActiveSeason)
	assert.Equal(t, 90*time.Second, cfg.Sync.Interval)
	assert.Equal(t, []string{"FRIEREN", "BOCCHI"}, cfg.Sync.Reps)
	assert.Equal(t, "secret", cfg.Sheets.APIKey)
}
