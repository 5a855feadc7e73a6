package contracts

import "time"

// SyncConfig holds configuration for the sync orchestrator and its timer.
type SyncConfig struct {
	// ActiveSeason is synced by the timer unless bot_config overrides it.
	ActiveSeason string `mapstructure:"active_season" default:"season_x"`
	// Interval between unattended passes. Zero disables the timer.
	Interval time.Duration `mapstructure:"interval" default:"10m"`
	// FuzzyCutoff is the minimum similarity for fuzzy username matches.
	FuzzyCutoff int `mapstructure:"fuzzy_cutoff" default:"91"`
	// RepConfidence is the minimum similarity for affiliation matches.
	RepConfidence int `mapstructure:"rep_confidence" default:"80"`
	// Reps limits affiliation matching to the reps taking part this season.
	// Empty matches against every known rep.
	Reps []string `mapstructure:"reps"`
	// LeaseTTL bounds how long a crashed process blocks other passes.
	LeaseTTL time.Duration `mapstructure:"lease_ttl" default:"30m"`
}
