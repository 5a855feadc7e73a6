package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"natsumin/core/logger"
	"natsumin/core/metrics"
	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/media"
	"natsumin/feature/rep"
	"natsumin/feature/sheets"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrSyncInProgress is returned when another pass holds the run guard.
	ErrSyncInProgress = errors.New("a sync pass is already running")
	// ErrUnknownSeason is returned for seasons that are not registered or
	// whose layout is not known.
	ErrUnknownSeason = errors.New("unknown season")
)

// State is the orchestrator's position within a pass.
type State string

const (
	StateIdle          State = "IDLE"
	StateFetching      State = "FETCHING"
	StateSyncingBlocks State = "SYNCING_BLOCKS"
	StateSyncingMedia  State = "SYNCING_MEDIA"
	StateCommitted     State = "COMMITTED"
	StateFailed        State = "FAILED"
)

// Result reports one completed pass.
type Result struct {
	Season      string        `json:"season"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Blocks      []BlockResult `json:"blocks"`
	Inserted    int           `json:"inserted"`
	Updated     int           `json:"updated"`
	Skipped     int           `json:"skipped"`
	MediaQueued int           `json:"media_queued"`
	Media       *media.Report `json:"media,omitempty"`
	Snapshot    string        `json:"snapshot,omitempty"`
}

// Writes returns the number of rows inserted or updated by block procedures.
func (r *Result) Writes() int {
	return r.Inserted + r.Updated
}

// Status is a point-in-time view of the orchestrator.
type Status struct {
	State      State     `json:"state"`
	Season     string    `json:"season,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	LastResult *Result   `json:"last_result,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

// MediaSyncer resolves queued media ids after the block transaction commits.
type MediaSyncer interface {
	Sync(ctx context.Context, db *gorm.DB, pending *media.Pending) (*media.Report, error)
}

// Engine runs sync passes. At most one pass runs at a time per Engine, and
// the sync_lease row keeps engines in other processes out while it runs.
type Engine struct {
	db       *gorm.DB
	fetcher  sheets.Fetcher
	resolver *identity.Resolver
	media    MediaSyncer
	archive  *Archive
	metrics  metrics.Recorder
	logger   *zap.Logger
	cfg      SyncConfig
	now      func() time.Time
	holder   string

	running sync.Mutex

	mu     sync.RWMutex
	status Status
}

// EngineOption configures optional Engine collaborators.
type EngineOption func(*Engine)

// WithArchive uploads every fetched spreadsheet to the snapshot archive.
func WithArchive(a *Archive) EngineOption {
	return func(e *Engine) { e.archive = a }
}

// WithMetrics records pass outcomes on r.
func WithMetrics(r metrics.Recorder) EngineOption {
	return func(e *Engine) { e.metrics = r }
}

// NewEngine creates an Engine.
func NewEngine(db *gorm.DB, fetcher sheets.Fetcher, resolver *identity.Resolver, mediaSyncer MediaSyncer, logger *zap.Logger, cfg SyncConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		db:       db,
		fetcher:  fetcher,
		resolver: resolver,
		media:    mediaSyncer,
		metrics:  metrics.Nop{},
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		holder:   uuid.NewString(),
		status:   Status{State: StateIdle},
	}
	if e.cfg.LeaseTTL <= 0 {
		e.cfg.LeaseTTL = 30 * time.Minute
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// repOptions builds the affiliation matching options for a pass. Names in
// cfg.Reps that are not known affiliations are ignored.
func (e *Engine) repOptions() []rep.Option {
	opts := []rep.Option{rep.WithConfidence(e.cfg.RepConfidence)}

	var only []rep.Rep
	for _, name := range e.cfg.Reps {
		r, ok := rep.Parse(strings.TrimSpace(name))
		if !ok {
			e.logger.Warn("Ignoring unknown rep in sync.reps", zap.String("rep", name))
			continue
		}
		only = append(only, r)
	}
	if len(only) > 0 {
		opts = append(opts, rep.Only(only...))
	}
	return opts
}

// Status returns the current orchestrator state and the last outcome.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *Engine) setState(state State) {
	e.mu.Lock()
	e.status.State = state
	e.mu.Unlock()
}

// Run fetches the season's spreadsheet and reconciles it.
func (e *Engine) Run(ctx context.Context, seasonID string) (*Result, error) {
	return e.execute(ctx, seasonID, func(season *models.Season, layout *Layout) (*sheets.Spreadsheet, error) {
		spreadsheetID := season.SpreadsheetID
		if spreadsheetID == "" {
			spreadsheetID = layout.SpreadsheetID
		}
		return e.fetcher.Fetch(ctx, spreadsheetID, layout.Ranges)
	})
}

// Replay reconciles a previously archived spreadsheet instead of fetching.
// Replayed spreadsheets are not archived again.
func (e *Engine) Replay(ctx context.Context, seasonID string, spreadsheet *sheets.Spreadsheet) (*Result, error) {
	replay := *spreadsheet
	replay.Raw = nil
	return e.execute(ctx, seasonID, func(*models.Season, *Layout) (*sheets.Spreadsheet, error) {
		return &replay, nil
	})
}

type source func(season *models.Season, layout *Layout) (*sheets.Spreadsheet, error)

func (e *Engine) execute(ctx context.Context, seasonID string, src source) (*Result, error) {
	if !e.running.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer e.running.Unlock()

	start := e.now()
	l := logger.WithSeason(e.logger, seasonID)

	held, err := e.acquireLease(ctx)
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, ErrSyncInProgress
	}
	defer func() {
		if err := e.releaseLease(); err != nil {
			l.Warn("Failed to release sync lease", zap.Error(err))
		}
	}()

	e.mu.Lock()
	e.status.Season = seasonID
	e.status.StartedAt = start
	e.mu.Unlock()

	result, err := e.runPass(ctx, seasonID, src, l)

	// Users the pass committed are missing from the long-lived name cache.
	e.resolver.Invalidate()

	elapsed := e.now().Sub(start)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.status.State = StateFailed
		e.status.LastError = err.Error()
		e.metrics.RecordPass(seasonID, metrics.OutcomeFailure, elapsed)
		l.Error("Sync pass failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, err
	}

	result.StartedAt = start
	result.Duration = elapsed
	e.status.State = StateCommitted
	e.status.LastResult = result
	e.status.LastError = ""
	e.metrics.RecordPass(seasonID, metrics.OutcomeSuccess, elapsed)
	l.Info("Sync pass committed",
		zap.Duration("elapsed", elapsed),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("media_queued", result.MediaQueued))
	return result, nil
}

func (e *Engine) runPass(ctx context.Context, seasonID string, src source, l *zap.Logger) (*Result, error) {
	season, layout, err := e.season(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	e.setState(StateFetching)
	spreadsheet, err := src(season, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet: %w", err)
	}

	result := &Result{Season: season.ID}

	if e.archive != nil && len(spreadsheet.Raw) > 0 {
		key, err := e.archive.Save(ctx, season.ID, spreadsheet.Raw)
		if err != nil {
			l.Warn("Failed to archive spreadsheet snapshot", zap.Error(err))
		} else {
			result.Snapshot = key
		}
	}

	e.setState(StateSyncingBlocks)
	index, err := media.LoadIndex(ctx, e.db)
	if err != nil {
		return nil, err
	}
	pending := media.NewPending()

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := &pass{
			ctx:      ctx,
			tx:       tx,
			season:   season.ID,
			layout:   layout,
			resolver: e.resolver.WithDB(tx),
			media:    index,
			pending:  pending,
			repOpts:  e.repOptions(),
			logger:   l,
		}
		for _, spec := range layout.Blocks {
			br, err := runBlock(p, spreadsheet, spec)
			if err != nil {
				return fmt.Errorf("block %s: %w", spec.Name, err)
			}
			if br == nil {
				continue
			}
			result.Blocks = append(result.Blocks, *br)
			result.Inserted += br.Inserted
			result.Updated += br.Updated
			result.Skipped += br.Skipped
			e.metrics.RecordBlockWrites(br.Name, br.Inserted, br.Updated)
			l.Info("Synced block",
				zap.String("block", br.Name),
				zap.Int("inserted", br.Inserted),
				zap.Int("updated", br.Updated),
				zap.Int("skipped", br.Skipped))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.setState(StateSyncingMedia)
	result.MediaQueued = pending.Len()
	report, err := e.media.Sync(ctx, e.db, pending)
	if err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}
	result.Media = report
	return result, nil
}

func runBlock(p *pass, spreadsheet *sheets.Spreadsheet, spec BlockSpec) (*BlockResult, error) {
	sheet, ok := spreadsheet.Sheet(spec.Sheet)
	if !ok {
		if spec.Required {
			return nil, fmt.Errorf("sheet %q missing from spreadsheet", spec.Sheet)
		}
		p.logger.Warn("Sheet missing, block not synced", zap.String("sheet", spec.Sheet))
		return nil, nil
	}

	br := &BlockResult{Name: spec.Name}
	p.block = br
	if err := spec.sync(p, sheet.Block(spec.Index)); err != nil {
		return nil, err
	}
	return br, nil
}

func (e *Engine) season(ctx context.Context, seasonID string) (*models.Season, *Layout, error) {
	var season models.Season
	err := e.db.WithContext(ctx).Where("id = ?", seasonID).Take(&season).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSeason, seasonID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load season %s: %w", seasonID, err)
	}

	layoutID := season.Layout
	if layoutID == "" {
		layoutID = season.ID
	}
	layout, ok := LayoutFor(layoutID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no layout %q for season %s", ErrUnknownSeason, layoutID, seasonID)
	}
	return &season, layout, nil
}
