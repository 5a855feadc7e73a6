package config

import (
	"reflect"
	"strings"

	"natsumin/core/database"
	"natsumin/core/logger"
	"natsumin/core/server"
	"natsumin/core/storage"
	"natsumin/feature/contracts"
	"natsumin/feature/media"
	"natsumin/feature/sheets"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Each section is owned by the package that consumes it.
type Config struct {
	// Server holds configuration for the operator HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the snapshot archive bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the relational store.
	Database database.Config `mapstructure:"database"`
	// Sheets holds configuration for the spreadsheet fetcher.
	Sheets sheets.Config `mapstructure:"sheets"`
	// Media holds configuration for the AniList and Steam clients.
	Media media.Config `mapstructure:"media"`
	// Sync holds configuration for the orchestrator and its timer.
	Sync contracts.SyncConfig `mapstructure:"sync"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine in production.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// SHEETS_API_KEY -> sheets.api_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct tags and registers every key with its default,
// so AutomaticEnv can resolve keys that were never set explicitly.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
