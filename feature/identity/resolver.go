package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"natsumin/core/cache"
	"natsumin/core/fuzzy"
	"natsumin/feature/contracts/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultCutoff is the minimum fuzzy score for a username match.
const DefaultCutoff = 91

const universeKey = "names"

// MatchKind tells which resolution step produced a match.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchAlias
	MatchFuzzy
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchAlias:
		return "alias"
	default:
		return "fuzzy"
	}
}

// Match is a resolved identity.
type Match struct {
	UserID string
	// Name is the canonical username or alias that matched.
	Name  string
	Kind  MatchKind
	Score int
}

type candidate struct {
	name   string
	userID string
}

// ErrEmptyUsername is returned when creating or renaming to a blank name.
var ErrEmptyUsername = errors.New("identity: empty username")

// Resolver maps free-text usernames to user ids.
// Resolve never writes; CreateUser, AddAlias and Rename are the only writers
// and each invalidates the cached fuzzy universe.
type Resolver struct {
	db     *gorm.DB
	cutoff int
	ttl    time.Duration
	names  *cache.Store[[]candidate]
	logger *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCutoff overrides DefaultCutoff.
func WithCutoff(cutoff int) Option {
	return func(r *Resolver) { r.cutoff = cutoff }
}

// WithTTL bounds how long the fuzzy universe is cached. Zero keeps it until
// a write invalidates it.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		r.ttl = ttl
		r.names = cache.New[[]candidate](ttl)
	}
}

// NewResolver creates a resolver on db.
func NewResolver(db *gorm.DB, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		db:     db,
		cutoff: DefaultCutoff,
		names:  cache.New[[]candidate](0),
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithDB returns a resolver bound to db (typically a transaction). It caches
// the fuzzy universe separately, so names read inside an uncommitted
// transaction never reach readers of r.
func (r *Resolver) WithDB(db *gorm.DB) *Resolver {
	clone := *r
	clone.db = db
	clone.names = cache.New[[]candidate](r.ttl)
	return &clone
}

// Cutoff returns the configured fuzzy cutoff.
func (r *Resolver) Cutoff() int {
	return r.cutoff
}

// Invalidate drops the cached fuzzy universe.
func (r *Resolver) Invalidate() {
	r.names.Invalidate(universeKey)
}

// Normalize is the canonical form of a username.
func Normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Resolve looks a username up with the configured cutoff.
func (r *Resolver) Resolve(ctx context.Context, username string) (Match, bool, error) {
	return r.ResolveWithCutoff(ctx, username, r.cutoff)
}

// ResolveWithCutoff tries an exact username or id match, then an alias
// match, then the best fuzzy match at or above cutoff.
func (r *Resolver) ResolveWithCutoff(ctx context.Context, username string, cutoff int) (Match, bool, error) {
	raw := strings.TrimSpace(username)
	name := Normalize(username)
	if name == "" {
		return Match{}, false, nil
	}

	db := r.db.WithContext(ctx)

	for _, q := range []struct{ column, value string }{{"username", name}, {"id", raw}} {
		var user models.User
		err := db.Where(q.column+" = ?", q.value).Take(&user).Error
		if err == nil {
			return Match{UserID: user.ID, Name: user.Username, Kind: MatchExact, Score: 100}, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Match{}, false, fmt.Errorf("failed to look up user %q: %w", name, err)
		}
	}

	var alias models.UserAlias
	err := db.Where("username = ?", name).Order("id").Take(&alias).Error
	if err == nil {
		return Match{UserID: alias.UserID, Name: alias.Username, Kind: MatchAlias, Score: 100}, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Match{}, false, fmt.Errorf("failed to look up alias %q: %w", name, err)
	}

	universe, err := r.names.GetOrLoad(ctx, universeKey, r.loadUniverse)
	if err != nil {
		return Match{}, false, err
	}

	choices := make([]string, len(universe))
	for i, c := range universe {
		choices[i] = c.name
	}

	m, ok := fuzzy.ExtractBest(name, choices, cutoff)
	if !ok {
		return Match{}, false, nil
	}

	hit := universe[m.Index]
	r.logger.Debug("Fuzzy matched username",
		zap.String("query", name),
		zap.String("match", hit.name),
		zap.Int("score", m.Score),
	)
	return Match{UserID: hit.userID, Name: hit.name, Kind: MatchFuzzy, Score: m.Score}, true, nil
}

func (r *Resolver) loadUniverse(ctx context.Context) ([]candidate, error) {
	db := r.db.WithContext(ctx)

	var users []models.User
	if err := db.Select("id", "username").Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load usernames: %w", err)
	}

	var aliases []models.UserAlias
	if err := db.Order("username, id").Find(&aliases).Error; err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	out := make([]candidate, 0, len(users)+len(aliases))
	for _, u := range users {
		out = append(out, candidate{name: u.Username, userID: u.ID})
	}
	for _, a := range aliases {
		out = append(out, candidate{name: a.Username, userID: a.UserID})
	}
	return out, nil
}

// User loads a user by id.
func (r *Resolver) User(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Aliases lists a user's aliases.
func (r *Resolver) Aliases(ctx context.Context, userID string) ([]string, error) {
	var rows []models.UserAlias
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, a := range rows {
		out[i] = a.Username
	}
	return out, nil
}

// CreateUser mints a new identity. Only first-sighting ingestion paths call it.
func (r *Resolver) CreateUser(ctx context.Context, username string) (*models.User, error) {
	name := Normalize(username)
	if name == "" {
		return nil, ErrEmptyUsername
	}

	user := &models.User{ID: uuid.NewString(), Username: name}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", name, err)
	}
	r.Invalidate()
	return user, nil
}

// AddAlias registers an alternate username for a user. Registering an
// alias the user already has is a no-op.
func (r *Resolver) AddAlias(ctx context.Context, userID, alias string) error {
	name := Normalize(alias)
	if name == "" {
		return ErrEmptyUsername
	}

	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.UserAlias{}).Where("user_id = ? AND username = ?", userID, name).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check alias %q: %w", name, err)
	}
	if count > 0 {
		return nil
	}

	if err := db.Create(&models.UserAlias{UserID: userID, Username: name}).Error; err != nil {
		return fmt.Errorf("failed to add alias %q: %w", name, err)
	}
	r.Invalidate()
	return nil
}

// Rename changes a user's canonical username and keeps the old one as an
// alias. The new name is dropped from the user's aliases.
func (r *Resolver) Rename(ctx context.Context, userID, newUsername string) error {
	name := Normalize(newUsername)
	if name == "" {
		return ErrEmptyUsername
	}

	user, err := r.User(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user.Username == name {
		return nil
	}

	old := user.Username
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("username", name).Error; err != nil {
		return fmt.Errorf("failed to rename %q to %q: %w", old, name, err)
	}
	if err := db.Where("user_id = ? AND username = ?", userID, name).Delete(&models.UserAlias{}).Error; err != nil {
		return fmt.Errorf("failed to drop alias %q: %w", name, err)
	}
	if err := r.AddAlias(ctx, userID, old); err != nil {
		return err
	}

	r.Invalidate()
	r.logger.Info("Renamed user", zap.String("user_id", userID), zap.String("from", old), zap.String("to", name))
	return nil
}
