package media

import (
	"context"
	"fmt"

	"natsumin/feature/contracts/models"

	"gorm.io/gorm"
)

// LoadIndex reads the media cache into memory.
func LoadIndex(ctx context.Context, db *gorm.DB) (*Index, error) {
	db = db.WithContext(ctx)
	ix := NewIndex()

	var anilist []models.MediaAnilist
	if err := db.Select("id", "mal_id").Find(&anilist).Error; err != nil {
		return nil, fmt.Errorf("failed to load anilist cache: %w", err)
	}
	for _, m := range anilist {
		ix.anilist[m.ID] = struct{}{}
		if m.MalID != nil && *m.MalID != "" {
			ix.malToAnilist[*m.MalID] = m.ID
		}
	}

	var steam []models.Media
	if err := db.Select("id").Where("type = ?", string(SourceSteam)).Find(&steam).Error; err != nil {
		return nil, fmt.Errorf("failed to load steam cache: %w", err)
	}
	for _, m := range steam {
		ix.steam[m.ID] = struct{}{}
	}

	var noMatch []models.MediaNoMatch
	if err := db.Find(&noMatch).Error; err != nil {
		return nil, fmt.Errorf("failed to load media no-match cache: %w", err)
	}
	for _, nm := range noMatch {
		src := Source(nm.Type)
		if ix.noMatch[src] == nil {
			ix.noMatch[src] = make(map[string]struct{})
		}
		ix.noMatch[src][nm.ID] = struct{}{}
	}

	return ix, nil
}
