package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"natsumin/core/utils"
	"natsumin/feature/contracts/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

type fakeAnilist struct {
	byID    []AnilistMedia
	byMal   []AnilistMedia
	err     error
	idCalls int
}

func (f *fakeAnilist) FetchByID(_ context.Context, ids []string) ([]AnilistMedia, error) {
	f.idCalls++
	return f.byID, f.err
}

func (f *fakeAnilist) FetchByMalID(_ context.Context, ids []string) ([]AnilistMedia, error) {
	return f.byMal, f.err
}

type fakeSteam struct {
	apps []SteamApp
	err  error
}

func (f *fakeSteam) FetchApps(_ context.Context, ids []string) ([]SteamApp, error) {
	return f.apps, f.err
}

func count(t *testing.T, db *gorm.DB, model any, where ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestSync_WritesResolvedAndNoMatch(t *testing.T) {
	db := setupDB(t)
	anilist := &fakeAnilist{
		byID:  []AnilistMedia{{ID: "1", Type: "ANIME", EnglishName: utils.Ptr("One")}},
		byMal: []AnilistMedia{{ID: "500", MalID: utils.Ptr("50"), Type: "MANGA", RomajiName: utils.Ptr("Five")}},
	}
	steam := &fakeSteam{apps: []SteamApp{{ID: "620", Type: "game", Name: "Portal 2"}}}
	s := NewSyncer(anilist, steam, nil, zap.NewNop())

	p := NewPending()
	p.Add(Ref{SourceAnilist, "1"})
	p.Add(Ref{SourceAnilist, "2"})
	p.Add(Ref{SourceMAL, "50"})
	p.Add(Ref{SourceMAL, "51"})
	p.Add(Ref{SourceSteam, "620"})
	p.Add(Ref{SourceSteam, "621"})

	report, err := s.Sync(context.Background(), db, p)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Resolved[SourceAnilist])
	assert.Equal(t, 1, report.Resolved[SourceMAL])
	assert.Equal(t, 1, report.Resolved[SourceSteam])
	assert.Empty(t, report.Deferred)

	var steamRow models.Media
	require.NoError(t, db.First(&steamRow, "type = ? AND id = ?", "steam", "620").Error)
	assert.Equal(t, "GAME", steamRow.Medium)

	var detail models.MediaSteam
	require.NoError(t, db.First(&detail, "id = ?", "620").Error)
	assert.Equal(t, "https://store.steampowered.com/app/620/", detail.URL)

	var mal models.MediaAnilist
	require.NoError(t, db.First(&mal, "id = ?", "500").Error)
	assert.Equal(t, "50", *mal.MalID)

	assert.EqualValues(t, 1, count(t, db, &models.MediaNoMatch{}, "type = ? AND id = ?", "anilist", "2"))
	assert.EqualValues(t, 1, count(t, db, &models.MediaNoMatch{}, "type = ? AND id = ?", "mal", "51"))
	assert.EqualValues(t, 1, count(t, db, &models.MediaNoMatch{}, "type = ? AND id = ?", "steam", "621"))
	assert.EqualValues(t, 3, count(t, db, &models.MediaNoMatch{}))

	ix, err := LoadIndex(context.Background(), db)
	require.NoError(t, err)
	next := NewPending()
	typ, id := ix.Link("https://myanimelist.net/manga/50/Five", next)
	require.NotNil(t, typ)
	assert.Equal(t, "anilist", *typ)
	assert.Equal(t, "500", *id)
	typ, _ = ix.Link("https://anilist.co/anime/2/", next)
	assert.Nil(t, typ)
	ix.Link("https://store.steampowered.com/app/620/", next)
	assert.Zero(t, next.Len())
}

func TestSync_RateLimitedNotWrittenToNoMatch(t *testing.T) {
	db := setupDB(t)
	anilist := &fakeAnilist{
		byID: []AnilistMedia{{ID: "1", Type: "ANIME", RomajiName: utils.Ptr("One")}},
		err:  &RateLimitedError{Source: SourceAnilist},
	}
	steam := &fakeSteam{err: &RateLimitedError{Source: SourceSteam}}
	s := NewSyncer(anilist, steam, nil, zap.NewNop())

	p := NewPending()
	p.Add(Ref{SourceAnilist, "1"})
	p.Add(Ref{SourceAnilist, "2"})
	p.Add(Ref{SourceSteam, "620"})

	report, err := s.Sync(context.Background(), db, p)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Source{SourceSteam, SourceAnilist}, report.Deferred)

	assert.EqualValues(t, 0, count(t, db, &models.MediaNoMatch{}))
	assert.EqualValues(t, 1, count(t, db, &models.Media{}, "type = ? AND id = ?", "anilist", "1"))
}

func TestSync_OtherErrorsAreNotFatal(t *testing.T) {
	db := setupDB(t)
	s := NewSyncer(&fakeAnilist{err: errors.New("boom")}, &fakeSteam{}, nil, zap.NewNop())

	p := NewPending()
	p.Add(Ref{SourceAnilist, "1"})

	report, err := s.Sync(context.Background(), db, p)
	require.NoError(t, err)
	assert.Equal(t, []Source{SourceAnilist}, report.Failed)
	assert.EqualValues(t, 0, count(t, db, &models.MediaNoMatch{}))
}

func TestSync_InsertIgnoresExistingRows(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.Media{Type: "anilist", ID: "1", Name: "Original"}).Error)

	anilist := &fakeAnilist{byID: []AnilistMedia{{ID: "1", Type: "ANIME", RomajiName: utils.Ptr("Changed")}}}
	s := NewSyncer(anilist, &fakeSteam{}, nil, zap.NewNop())

	p := NewPending()
	p.Add(Ref{SourceAnilist, "1"})
	_, err := s.Sync(context.Background(), db, p)
	require.NoError(t, err)

	var row models.Media
	require.NoError(t, db.First(&row, "type = ? AND id = ?", "anilist", "1").Error)
	assert.Equal(t, "Original", row.Name)
}

func TestSync_EmptyPendingMakesNoCalls(t *testing.T) {
	anilist := &fakeAnilist{}
	s := NewSyncer(anilist, &fakeSteam{}, nil, zap.NewNop())

	report, err := s.Sync(context.Background(), setupDB(t), NewPending())
	require.NoError(t, err)
	assert.Zero(t, anilist.idCalls)
	assert.Empty(t, report.Resolved)
}

func queueContracts(ix *Index, p *Pending, links map[string]string) {
	for user, url := range links {
		ix.Link(url, p)
		p.Attach(url, Slot{SeasonID: "season_x", ContracteeID: user, Type: "Base Contract"})
	}
}

func TestSync_RelinksAttachedContracts(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create([]models.SeasonContract{
		{SeasonID: "season_x", ContracteeID: "u1", Type: "Base Contract", Name: "Monster"},
		{SeasonID: "season_x", ContracteeID: "u2", Type: "Base Contract", Name: "Lost", MediaType: utils.Ptr("anilist"), MediaID: utils.Ptr("404")},
		{SeasonID: "season_x", ContracteeID: "u3", Type: "Base Contract", Name: "Gone", MediaType: utils.Ptr("steam"), MediaID: utils.Ptr("1")},
		{SeasonID: "season_x", ContracteeID: "u4", Type: "Base Contract", Name: "Frieren", MediaType: utils.Ptr("anilist"), MediaID: utils.Ptr("154587")},
	}).Error)

	anilist := &fakeAnilist{
		byID:  []AnilistMedia{{ID: "154587", Type: "ANIME"}},
		byMal: []AnilistMedia{{ID: "999", MalID: utils.Ptr("123"), Type: "ANIME"}},
	}
	s := NewSyncer(anilist, &fakeSteam{}, nil, zap.NewNop())

	p := NewPending()
	queueContracts(NewIndex(), p, map[string]string{
		"u1": "https://myanimelist.net/anime/123/Monster",
		"u2": "https://anilist.co/anime/404/",
		"u3": "https://store.steampowered.com/app/1/",
		"u4": "https://anilist.co/anime/154587/",
	})

	report, err := s.Sync(context.Background(), db, p)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Relinked)

	contract := func(user string) models.SeasonContract {
		var c models.SeasonContract
		require.NoError(t, db.Take(&c, "contractee_id = ?", user).Error)
		return c
	}

	monster := contract("u1")
	require.NotNil(t, monster.MediaID)
	assert.Equal(t, "anilist", *monster.MediaType)
	assert.Equal(t, "999", *monster.MediaID)

	assert.Nil(t, contract("u2").MediaType)
	assert.Nil(t, contract("u2").MediaID)
	assert.Nil(t, contract("u3").MediaID)
	assert.Equal(t, "154587", *contract("u4").MediaID)
}

func TestSync_RateLimitedKeepsContracts(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.SeasonContract{
		SeasonID: "season_x", ContracteeID: "u1", Type: "Base Contract", Name: "Lost",
		MediaType: utils.Ptr("anilist"), MediaID: utils.Ptr("404"),
	}).Error)

	s := NewSyncer(&fakeAnilist{err: &RateLimitedError{Source: SourceAnilist}}, &fakeSteam{}, nil, zap.NewNop())
	p := NewPending()
	queueContracts(NewIndex(), p, map[string]string{"u1": "https://anilist.co/anime/404/"})

	report, err := s.Sync(context.Background(), db, p)
	require.NoError(t, err)
	assert.Zero(t, report.Relinked)

	var c models.SeasonContract
	require.NoError(t, db.Take(&c, "contractee_id = ?", "u1").Error)
	require.NotNil(t, c.MediaID)
	assert.Equal(t, "404", *c.MediaID)
}
