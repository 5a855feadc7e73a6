package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/order"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveSeasonKey is the bot_config key overriding SyncConfig.ActiveSeason.
const ActiveSeasonKey = "contracts.active_season"

// ErrUserNotFound is returned when a username does not resolve.
var ErrUserNotFound = errors.New("user not found")

// Service answers read queries about seasons and contracts and manages the
// season catalog.
type Service struct {
	db       *gorm.DB
	resolver *identity.Resolver
	logger   *zap.Logger
	cfg      SyncConfig
}

// NewService creates a new contracts service.
func NewService(db *gorm.DB, resolver *identity.Resolver, logger *zap.Logger, cfg SyncConfig) *Service {
	return &Service{db: db, resolver: resolver, logger: logger, cfg: cfg}
}

// SeasonID derives a season id from its display name ("Season X" -> "season_x").
func SeasonID(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// ActiveSeason returns the season the timer syncs.
func (s *Service) ActiveSeason(ctx context.Context) (string, error) {
	var row models.BotConfig
	err := s.db.WithContext(ctx).Where(&models.BotConfig{Key: ActiveSeasonKey}).Take(&row).Error
	switch {
	case err == nil && strings.TrimSpace(row.Value) != "":
		return strings.TrimSpace(row.Value), nil
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
		return s.cfg.ActiveSeason, nil
	default:
		return "", fmt.Errorf("failed to read %s: %w", ActiveSeasonKey, err)
	}
}

// SetActiveSeason stores the active season in bot_config.
func (s *Service) SetActiveSeason(ctx context.Context, seasonID string) error {
	if _, err := s.Season(ctx, seasonID); err != nil {
		return err
	}
	row := models.BotConfig{Key: ActiveSeasonKey, Value: seasonID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", ActiveSeasonKey, err)
	}
	return nil
}

// RegisterSeason adds a season to the catalog. An empty layout defaults to
// the season id.
func (s *Service) RegisterSeason(ctx context.Context, name, layout, spreadsheetID string) (*models.Season, error) {
	id := SeasonID(name)
	if id == "" {
		return nil, fmt.Errorf("season name %q yields an empty id", name)
	}
	if layout == "" {
		layout = id
	}
	if _, ok := LayoutFor(layout); !ok {
		return nil, fmt.Errorf("%w: no layout %q (known: %s)", ErrUnknownSeason, layout, strings.Join(LayoutIDs(), ", "))
	}

	season := &models.Season{ID: id, Name: strings.TrimSpace(name), Layout: layout, SpreadsheetID: spreadsheetID}
	if err := s.db.WithContext(ctx).Create(season).Error; err != nil {
		return nil, fmt.Errorf("failed to register season %s: %w", id, err)
	}
	s.logger.Info("Registered season", zap.String("season", id), zap.String("layout", layout))
	return season, nil
}

// Season loads a registered season.
func (s *Service) Season(ctx context.Context, id string) (*models.Season, error) {
	var season models.Season
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&season).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeason, id)
	}
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// Seasons lists the catalog.
func (s *Service) Seasons(ctx context.Context) ([]models.Season, error) {
	var seasons []models.Season
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&seasons).Error; err != nil {
		return nil, err
	}
	return seasons, nil
}

// Identity is a resolved username with its stored details.
type Identity struct {
	Query   string       `json:"query"`
	Match   string       `json:"match"`
	Score   int          `json:"score"`
	User    *models.User `json:"user"`
	Aliases []string     `json:"aliases"`
}

// Resolve looks a username up and loads the matched user.
func (s *Service) Resolve(ctx context.Context, username string) (*Identity, error) {
	m, ok, err := s.resolver.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	user, err := s.resolver.User(ctx, m.UserID)
	if err != nil {
		return nil, err
	}
	aliases, err := s.resolver.Aliases(ctx, m.UserID)
	if err != nil {
		return nil, err
	}
	return &Identity{Query: username, Match: m.Kind.String(), Score: m.Score, User: user, Aliases: aliases}, nil
}

// ContractGroup is one display category of a user's contracts.
type ContractGroup struct {
	Name      string                  `json:"name"`
	Passed    int                     `json:"passed"`
	Contracts []models.SeasonContract `json:"contracts"`
}

// UserContracts is a user's season record in display order.
type UserContracts struct {
	Season      string             `json:"season"`
	User        *models.User       `json:"user"`
	Participant *models.SeasonUser `json:"participant,omitempty"`
	Groups      []ContractGroup    `json:"groups"`
}

// UserContracts loads a user's contracts for a season grouped by the
// season's categories. A user absent from the season yields empty groups.
func (s *Service) UserContracts(ctx context.Context, seasonID, username string) (*UserContracts, error) {
	season, err := s.Season(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	id, err := s.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	out := &UserContracts{Season: season.ID, User: id.User, Groups: []ContractGroup{}}

	var su models.SeasonUser
	err = db.Where("season_id = ? AND user_id = ?", season.ID, id.User.ID).Take(&su).Error
	switch {
	case err == nil:
		out.Participant = &su
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	var rows []models.SeasonContract
	if err := db.Where("season_id = ? AND contractee_id = ?", season.ID, id.User.ID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	byType := make(map[string]models.SeasonContract, len(rows))
	types := make([]string, 0, len(rows))
	for _, c := range rows {
		byType[c.Type] = c
		types = append(types, c.Type)
	}

	var categories []order.Category
	if layout, ok := LayoutFor(season.Layout); ok {
		categories = layout.Categories
	}

	for _, g := range order.Sort(types, categories) {
		group := ContractGroup{Name: g.Name}
		for _, t := range g.Types {
			c := byType[t]
			if c.Status == models.ContractPassed || c.Status == models.ContractLatePass {
				group.Passed++
			}
			group.Contracts = append(group.Contracts, c)
		}
		out.Groups = append(out.Groups, group)
	}
	return out, nil
}

// SeasonSummary counts participants and contracts by status.
type SeasonSummary struct {
	Season       string         `json:"season"`
	Participants map[string]int `json:"participants"`
	Contracts    map[string]int `json:"contracts"`
}

// Summary aggregates a season's statuses.
func (s *Service) Summary(ctx context.Context, seasonID string) (*SeasonSummary, error) {
	if _, err := s.Season(ctx, seasonID); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	type bucket struct {
		Status int
		N      int
	}

	var users []bucket
	if err := db.Model(&models.SeasonUser{}).Select("status, count(*) as n").
		Where("season_id = ?", seasonID).Group("status").Scan(&users).Error; err != nil {
		return nil, err
	}
	var contracts []bucket
	if err := db.Model(&models.SeasonContract{}).Select("status, count(*) as n").
		Where("season_id = ? AND optional = ?", seasonID, false).Group("status").Scan(&contracts).Error; err != nil {
		return nil, err
	}

	out := &SeasonSummary{Season: seasonID, Participants: map[string]int{}, Contracts: map[string]int{}}
	for _, b := range users {
		out.Participants[models.UserStatus(b.Status).String()] = b.N
	}
	for _, b := range contracts {
		out.Contracts[models.ContractStatus(b.Status).String()] = b.N
	}
	return out, nil
}
