package media

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

//go:embed queries/anilist_media.graphql
var anilistQuery string

// AnilistMedia is one title returned by AniList.
type AnilistMedia struct {
	ID          string
	MalID       *string
	Type        string
	Format      string
	URL         string
	Description string
	IsAdult     bool
	CoverImage  *string
	CoverColor  *string
	StartDate   *string
	EndDate     *string
	RomajiName  *string
	EnglishName *string
	NativeName  *string
	Episodes    *int
	Chapters    *int
	Volumes     *int
}

// DisplayName prefers the English title, then romaji, then native.
func (m AnilistMedia) DisplayName() string {
	for _, name := range []*string{m.EnglishName, m.RomajiName, m.NativeName} {
		if name != nil && *name != "" {
			return *name
		}
	}
	return ""
}

// AnilistFetcher looks titles up by AniList or MyAnimeList id.
type AnilistFetcher interface {
	FetchByID(ctx context.Context, ids []string) ([]AnilistMedia, error)
	FetchByMalID(ctx context.Context, ids []string) ([]AnilistMedia, error)
}

// AnilistClient queries the AniList GraphQL API.
type AnilistClient struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewAnilistClient creates a client for cfg.AnilistEndpoint.
func NewAnilistClient(cfg Config, logger *zap.Logger) *AnilistClient {
	return &AnilistClient{endpoint: cfg.AnilistEndpoint, http: newHTTPClient(cfg), logger: logger}
}

type anilistDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

func (d anilistDate) format() *string {
	if d.Year == nil || d.Month == nil || d.Day == nil || *d.Year == 0 || *d.Month == 0 || *d.Day == 0 {
		return nil
	}
	s := fmt.Sprintf("%04d-%02d-%02d", *d.Year, *d.Month, *d.Day)
	return &s
}

type anilistResponse struct {
	Data struct {
		Page struct {
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
			Media []struct {
				ID          int     `json:"id"`
				IDMal       *int    `json:"idMal"`
				Type        string  `json:"type"`
				Format      *string `json:"format"`
				SiteURL     string  `json:"siteUrl"`
				Description *string `json:"description"`
				IsAdult     bool    `json:"isAdult"`
				Episodes    *int    `json:"episodes"`
				Chapters    *int    `json:"chapters"`
				Volumes     *int    `json:"volumes"`
				CoverImage  struct {
					ExtraLarge *string `json:"extraLarge"`
					Color      *string `json:"color"`
				} `json:"coverImage"`
				StartDate anilistDate `json:"startDate"`
				EndDate   anilistDate `json:"endDate"`
				Title     struct {
					Romaji  *string `json:"romaji"`
					English *string `json:"english"`
					Native  *string `json:"native"`
				} `json:"title"`
			} `json:"media"`
		} `json:"Page"`
	} `json:"data"`
}

func (c *AnilistClient) FetchByID(ctx context.Context, ids []string) ([]AnilistMedia, error) {
	return c.fetch(ctx, "idIn", ids)
}

func (c *AnilistClient) FetchByMalID(ctx context.Context, ids []string) ([]AnilistMedia, error) {
	return c.fetch(ctx, "idMalIn", ids)
}

// fetch pages through the results. On failure the titles gathered so far
// are returned together with the error.
func (c *AnilistClient) fetch(ctx context.Context, filter string, ids []string) ([]AnilistMedia, error) {
	numeric, err := toInts(ids)
	if err != nil {
		return nil, err
	}
	if len(numeric) == 0 {
		return nil, nil
	}

	var out []AnilistMedia
	for page := 1; ; page++ {
		resp, err := c.page(ctx, map[string]any{"page": page, filter: numeric})
		if err != nil {
			return out, err
		}

		for _, m := range resp.Data.Page.Media {
			item := AnilistMedia{
				ID:          strconv.Itoa(m.ID),
				Type:        m.Type,
				URL:         m.SiteURL,
				IsAdult:     m.IsAdult,
				CoverImage:  m.CoverImage.ExtraLarge,
				CoverColor:  m.CoverImage.Color,
				StartDate:   m.StartDate.format(),
				EndDate:     m.EndDate.format(),
				RomajiName:  m.Title.Romaji,
				EnglishName: m.Title.English,
				NativeName:  m.Title.Native,
				Episodes:    m.Episodes,
				Chapters:    m.Chapters,
				Volumes:     m.Volumes,
			}
			if m.IDMal != nil {
				mal := strconv.Itoa(*m.IDMal)
				item.MalID = &mal
			}
			if m.Format != nil {
				item.Format = strings.ToUpper(strings.ReplaceAll(*m.Format, "_", " "))
			}
			if m.Description != nil {
				item.Description = *m.Description
			}
			out = append(out, item)
		}

		if !resp.Data.Page.PageInfo.HasNextPage {
			break
		}
	}

	c.logger.Debug("Fetched anilist media",
		zap.String("filter", filter),
		zap.Int("requested", len(numeric)),
		zap.Int("found", len(out)))

	return out, nil
}

func (c *AnilistClient) page(ctx context.Context, variables map[string]any) (*anilistResponse, error) {
	body, err := json.Marshal(map[string]any{"query": anilistQuery, "variables": variables})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anilist request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(SourceAnilist, resp); err != nil {
		return nil, err
	}

	var decoded anilistResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode anilist response: %w", err)
	}
	return &decoded, nil
}

func toInts(ids []string) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid media id %q: %w", id, err)
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}
