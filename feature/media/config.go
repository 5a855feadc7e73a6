package media

// Config holds configuration for the external metadata clients.
type Config struct {
	// AnilistEndpoint is the AniList GraphQL endpoint.
	AnilistEndpoint string `mapstructure:"anilist_endpoint" default:"https://graphql.anilist.co"`
	// SteamEndpoint is the Steam store appdetails endpoint.
	SteamEndpoint string `mapstructure:"steam_endpoint" default:"https://store.steampowered.com/api/appdetails"`
	// RequestsPerSecond caps outbound requests per client.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"1"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
