package media

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"natsumin/core/metrics"
	"natsumin/feature/contracts/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Report summarises one media resolution pass.
type Report struct {
	Resolved map[Source]int `json:"resolved"`
	NoMatch  map[Source]int `json:"no_match"`
	Deferred []Source       `json:"deferred,omitempty"`
	Failed   []Source       `json:"failed,omitempty"`
	// Relinked counts contracts rewritten after their link resolved.
	Relinked int `json:"relinked"`
}

func newReport() *Report {
	return &Report{Resolved: make(map[Source]int), NoMatch: make(map[Source]int)}
}

// Syncer resolves queued ids against the external services and fills the
// media cache.
type Syncer struct {
	anilist AnilistFetcher
	steam   SteamFetcher
	metrics metrics.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewSyncer creates a Syncer. A nil recorder disables metrics.
func NewSyncer(anilist AnilistFetcher, steam SteamFetcher, recorder metrics.Recorder, logger *zap.Logger) *Syncer {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Syncer{anilist: anilist, steam: steam, metrics: recorder, logger: logger, now: time.Now}
}

// Sync performs one batched lookup per source. Fetch errors never fail the
// pass: a 429 defers the batch and anything else is logged. Ids only reach
// the negative cache when their batch completed without error.
//
// Contracts attached to a settled id are rewritten to what the next pass
// would store: a MyAnimeList link becomes its AniList id and a link that
// found no match is cleared.
func (s *Syncer) Sync(ctx context.Context, db *gorm.DB, pending *Pending) (*Report, error) {
	report := newReport()
	if pending == nil || pending.Len() == 0 {
		return report, nil
	}
	db = db.WithContext(ctx)

	if len(pending.Steam) > 0 {
		if err := s.syncSteam(ctx, db, keys(pending.Steam), pending, report); err != nil {
			return report, err
		}
	}

	if len(pending.Anilist) > 0 {
		ids := keys(pending.Anilist)
		found, fetchErr := s.anilist.FetchByID(ctx, ids)
		missing := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			missing[id] = struct{}{}
		}
		for _, m := range found {
			delete(missing, m.ID)
		}
		if err := s.storeAnilist(ctx, db, SourceAnilist, found, missing, fetchErr, pending, report); err != nil {
			return report, err
		}
	}

	if len(pending.MAL) > 0 {
		ids := keys(pending.MAL)
		found, fetchErr := s.anilist.FetchByMalID(ctx, ids)
		missing := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			missing[id] = struct{}{}
		}
		for _, m := range found {
			if m.MalID != nil {
				delete(missing, *m.MalID)
			}
		}
		if err := s.storeAnilist(ctx, db, SourceMAL, found, missing, fetchErr, pending, report); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (s *Syncer) syncSteam(ctx context.Context, db *gorm.DB, ids []string, pending *Pending, report *Report) error {
	apps, fetchErr := s.steam.FetchApps(ctx, ids)

	missing := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		missing[id] = struct{}{}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, app := range apps {
			delete(missing, app.ID)

			row := models.Media{
				Type:        string(SourceSteam),
				ID:          app.ID,
				Name:        app.Name,
				Description: app.Description,
				Medium:      strings.ToUpper(app.Type),
				UpdatedAt:   s.now().UTC(),
			}
			if err := insertIgnore(tx, &row); err != nil {
				return err
			}

			detail := models.MediaSteam{
				ID:          app.ID,
				URL:         app.URL(),
				Developer:   app.Developer,
				Publisher:   app.Publisher,
				ReleaseDate: app.ReleaseDate,
				HeaderImage: app.HeaderImage,
			}
			if err := insertIgnore(tx, &detail); err != nil {
				return err
			}
		}

		if fetchErr == nil {
			return s.storeNoMatch(tx, SourceSteam, missing, pending, report)
		}
		return nil
	})
	if err != nil {
		return err
	}

	report.Resolved[SourceSteam] += len(apps)
	s.metrics.RecordMediaResolved(string(SourceSteam), len(apps))
	s.noteFetchError(SourceSteam, fetchErr, report)
	return nil
}

func (s *Syncer) storeAnilist(ctx context.Context, db *gorm.DB, source Source, found []AnilistMedia, missing map[string]struct{}, fetchErr error, pending *Pending, report *Report) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, m := range found {
			row := models.Media{
				Type:        string(SourceAnilist),
				ID:          m.ID,
				Name:        m.DisplayName(),
				Description: m.Description,
				Medium:      m.Type,
				UpdatedAt:   s.now().UTC(),
			}
			if err := insertIgnore(tx, &row); err != nil {
				return err
			}

			detail := models.MediaAnilist{
				ID:          m.ID,
				URL:         m.URL,
				Format:      m.Format,
				IsAdult:     m.IsAdult,
				CoverImage:  m.CoverImage,
				CoverColor:  m.CoverColor,
				MalID:       m.MalID,
				StartDate:   m.StartDate,
				EndDate:     m.EndDate,
				RomajiName:  m.RomajiName,
				EnglishName: m.EnglishName,
				NativeName:  m.NativeName,
				Episodes:    m.Episodes,
				Chapters:    m.Chapters,
				Volumes:     m.Volumes,
			}
			if err := insertIgnore(tx, &detail); err != nil {
				return err
			}

			if source == SourceMAL && m.MalID != nil {
				slots := pending.Slots[Ref{Source: SourceMAL, ID: *m.MalID}]
				if err := relink(tx, slots, string(SourceAnilist), m.ID, report); err != nil {
					return err
				}
			}
		}

		if fetchErr == nil {
			return s.storeNoMatch(tx, source, missing, pending, report)
		}
		return nil
	})
	if err != nil {
		return err
	}

	report.Resolved[source] += len(found)
	s.metrics.RecordMediaResolved(string(source), len(found))
	s.noteFetchError(source, fetchErr, report)
	return nil
}

func (s *Syncer) storeNoMatch(tx *gorm.DB, source Source, missing map[string]struct{}, pending *Pending, report *Report) error {
	for _, id := range keys(missing) {
		if err := insertIgnore(tx, &models.MediaNoMatch{Type: string(source), ID: id}); err != nil {
			return err
		}
		// MyAnimeList links are never stored before they resolve.
		if source != SourceMAL {
			if err := relink(tx, pending.Slots[Ref{Source: source, ID: id}], "", "", report); err != nil {
				return err
			}
		}
	}
	report.NoMatch[source] += len(missing)
	return nil
}

func (s *Syncer) noteFetchError(source Source, err error, report *Report) {
	if err == nil {
		return
	}

	var limited *RateLimitedError
	if errors.As(err, &limited) {
		report.Deferred = append(report.Deferred, source)
		s.metrics.RecordMediaDeferred(string(source))
		s.logger.Warn("Media lookup rate limited, deferring to next pass", zap.String("source", string(source)))
		return
	}

	report.Failed = append(report.Failed, source)
	s.logger.Error("Media lookup failed", zap.String("source", string(source)), zap.Error(err))
}

// relink points the given contracts at mediaType/mediaID, or clears their
// media reference when mediaID is empty.
func relink(tx *gorm.DB, slots []Slot, mediaType, mediaID string, report *Report) error {
	values := map[string]any{"media_type": nil, "media_id": nil}
	if mediaID != "" {
		values = map[string]any{"media_type": mediaType, "media_id": mediaID}
	}
	for _, slot := range slots {
		res := tx.Model(&models.SeasonContract{}).
			Where("season_id = ? AND contractee_id = ? AND type = ?", slot.SeasonID, slot.ContracteeID, slot.Type).
			Updates(values)
		if res.Error != nil {
			return fmt.Errorf("failed to relink contract %s/%s: %w", slot.ContracteeID, slot.Type, res.Error)
		}
		report.Relinked += int(res.RowsAffected)
	}
	return nil
}

func insertIgnore(tx *gorm.DB, value any) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
