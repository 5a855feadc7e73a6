package sheets

// Config holds configuration for the Google Sheets client.
type Config struct {
	// Endpoint is the spreadsheets resource of the Sheets v4 API.
	Endpoint string `mapstructure:"endpoint" default:"https://sheets.googleapis.com/v4/spreadsheets"`
	// APIKey is the Google API key used for public spreadsheets.
	APIKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds a single fetch.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
