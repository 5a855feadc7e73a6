package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// SteamApp is one application returned by the Steam store.
type SteamApp struct {
	ID          string
	Type        string
	Name        string
	Description string
	Developer   string
	Publisher   *string
	ReleaseDate *string
	HeaderImage *string
}

// URL returns the public store page.
func (a SteamApp) URL() string {
	return "https://store.steampowered.com/app/" + a.ID + "/"
}

// SteamFetcher looks applications up by app id.
type SteamFetcher interface {
	FetchApps(ctx context.Context, ids []string) ([]SteamApp, error)
}

// SteamClient queries the Steam store appdetails endpoint, one app per request.
type SteamClient struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewSteamClient creates a client for cfg.SteamEndpoint.
func NewSteamClient(cfg Config, logger *zap.Logger) *SteamClient {
	return &SteamClient{endpoint: cfg.SteamEndpoint, http: newHTTPClient(cfg), logger: logger}
}

type steamAppDetails struct {
	Success bool `json:"success"`
	Data    struct {
		Type             string   `json:"type"`
		Name             string   `json:"name"`
		SteamAppID       int      `json:"steam_appid"`
		ShortDescription *string  `json:"short_description"`
		Description      *string  `json:"detailed_description"`
		Developers       []string `json:"developers"`
		Publishers       []string `json:"publishers"`
		HeaderImage      *string  `json:"header_image"`
		ReleaseDate      *struct {
			Date string `json:"date"`
		} `json:"release_date"`
	} `json:"data"`
}

// FetchApps looks up each id in turn. Apps the store reports as unsuccessful
// are left out. On failure the apps gathered so far are returned together
// with the error.
func (c *SteamClient) FetchApps(ctx context.Context, ids []string) ([]SteamApp, error) {
	var out []SteamApp
	for _, id := range ids {
		app, ok, err := c.fetchApp(ctx, id)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, app)
		}
	}
	return out, nil
}

func (c *SteamClient) fetchApp(ctx context.Context, id string) (SteamApp, bool, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return SteamApp{}, false, fmt.Errorf("invalid steam endpoint: %w", err)
	}
	q := u.Query()
	q.Set("appids", id)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return SteamApp{}, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SteamApp{}, false, fmt.Errorf("steam request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(SourceSteam, resp); err != nil {
		return SteamApp{}, false, err
	}

	var decoded map[string]steamAppDetails
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return SteamApp{}, false, fmt.Errorf("failed to decode steam response: %w", err)
	}

	details, ok := decoded[id]
	if !ok || !details.Success {
		c.logger.Debug("Steam app not found", zap.String("app_id", id))
		return SteamApp{}, false, nil
	}

	d := details.Data
	app := SteamApp{
		ID:          id,
		Type:        d.Type,
		Name:        d.Name,
		Developer:   strings.Join(d.Developers, ", "),
		HeaderImage: d.HeaderImage,
	}
	switch {
	case d.ShortDescription != nil:
		app.Description = *d.ShortDescription
	case d.Description != nil:
		app.Description = *d.Description
	}
	if d.Publishers != nil {
		publisher := strings.Join(d.Publishers, ", ")
		app.Publisher = &publisher
	}
	if d.ReleaseDate != nil {
		app.ReleaseDate = &d.ReleaseDate.Date
	}
	return app, true, nil
}
