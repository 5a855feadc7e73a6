package contracts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"natsumin/core/utils"
	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/media"
	"natsumin/feature/sheets"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type cells map[int]any

// row builds a sparse sheet row. Values are strings or sheets.Cell.
func row(c cells) sheets.Row {
	last := -1
	for i := range c {
		if i > last {
			last = i
		}
	}
	r := sheets.Row{Cells: make([]sheets.Cell, last+1)}
	for i, v := range c {
		switch v := v.(type) {
		case string:
			r.Cells[i] = sheets.Cell{Value: utils.Ptr(v)}
		case sheets.Cell:
			r.Cells[i] = v
		}
	}
	return r
}

func link(text, url string) sheets.Cell {
	return sheets.Cell{Value: utils.Ptr(text), Hyperlink: url}
}

func spreadsheet(blocks map[string][]sheets.Row) *sheets.Spreadsheet {
	s := &sheets.Spreadsheet{ID: "test", Sheets: map[string]*sheets.Sheet{}, Raw: []byte(`{"sheets":[]}`)}
	for name, rows := range blocks {
		s.Sheets[name] = &sheets.Sheet{Name: name, Blocks: []sheets.Block{{Rows: rows}}}
	}
	return s
}

type fakeFetcher struct {
	mu          sync.Mutex
	spreadsheet *sheets.Spreadsheet
	err         error
	calls       int
	ranges      []string

	// When set, Fetch signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, id string, ranges []string) (*sheets.Spreadsheet, error) {
	f.mu.Lock()
	f.calls++
	f.ranges = ranges
	s, err := f.spreadsheet, f.err
	f.mu.Unlock()

	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	return s, err
}

func (f *fakeFetcher) set(s *sheets.Spreadsheet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spreadsheet = s
}

type fakeMedia struct {
	pending []*media.Pending
}

func (f *fakeMedia) Sync(_ context.Context, _ *gorm.DB, p *media.Pending) (*media.Report, error) {
	f.pending = append(f.pending, p)
	return &media.Report{Resolved: map[media.Source]int{}, NoMatch: map[media.Source]int{}}, nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	require.NoError(t, db.Create(&models.Season{ID: "season_x", Name: "Season X", Layout: "season_x"}).Error)
	return db
}

type anilistStub struct {
	byID  []media.AnilistMedia
	byMal []media.AnilistMedia
}

func (a anilistStub) FetchByID(context.Context, []string) ([]media.AnilistMedia, error) {
	return a.byID, nil
}

func (a anilistStub) FetchByMalID(context.Context, []string) ([]media.AnilistMedia, error) {
	return a.byMal, nil
}

type steamStub struct{}

func (steamStub) FetchApps(context.Context, []string) ([]media.SteamApp, error) {
	return nil, nil
}

type harness struct {
	db       *gorm.DB
	engine   *Engine
	fetcher  *fakeFetcher
	media    *fakeMedia
	resolver *identity.Resolver
}

func newHarness(t *testing.T, s *sheets.Spreadsheet, opts ...EngineOption) *harness {
	t.Helper()
	db := setupDB(t)
	h := &harness{
		db:       db,
		fetcher:  &fakeFetcher{spreadsheet: s},
		media:    &fakeMedia{},
		resolver: identity.NewResolver(db, zap.NewNop()),
	}
	cfg := SyncConfig{ActiveSeason: "season_x", FuzzyCutoff: 91, RepConfidence: 80}
	h.engine = NewEngine(db, h.fetcher, h.resolver, h.media, zap.NewNop(), cfg, opts...)
	return h
}

func (h *harness) run(t *testing.T) *Result {
	t.Helper()
	result, err := h.engine.Run(context.Background(), "season_x")
	require.NoError(t, err)
	return result
}

func (h *harness) userID(t *testing.T, username string) string {
	t.Helper()
	var u models.User
	require.NoError(t, h.db.Where("username = ?", username).Take(&u).Error)
	return u.ID
}

func (h *harness) contract(t *testing.T, username, contractType string) models.SeasonContract {
	t.Helper()
	var c models.SeasonContract
	require.NoError(t, h.db.Where("season_id = ? AND contractee_id = ? AND type = ?", "season_x", h.userID(t, username), contractType).Take(&c).Error)
	return c
}

func (h *harness) seasonUser(t *testing.T, username string) models.SeasonUser {
	t.Helper()
	var su models.SeasonUser
	require.NoError(t, h.db.Where("season_id = ? AND user_id = ?", "season_x", h.userID(t, username)).Take(&su).Error)
	return su
}

func (h *harness) count(t *testing.T, model any, where ...any) int64 {
	t.Helper()
	var n int64
	q := h.db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// resolveMedia swaps the recording media step for a real Syncer backed by
// the given AniList answers.
func (h *harness) resolveMedia(anilist anilistStub) {
	h.engine.media = media.NewSyncer(anilist, steamStub{}, nil, zap.NewNop())
}
