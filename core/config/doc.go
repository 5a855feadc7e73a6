// Package config provides configuration management for natsumin.
//
// It uses Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each
// section.
//
//   - Server: HTTP port and API key
//   - Database: driver (sqlite or mysql) and connection details
//   - Storage: MinIO credentials and snapshot bucket
//   - Log: level and format
//   - Sheets: Google Sheets endpoint and API key
//   - Media: AniList and Steam endpoints plus request rate
//   - Sync: active season, timer interval and matching thresholds
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.ActiveSeason)
package config
