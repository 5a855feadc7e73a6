package badges

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Types are the accepted badge categories.
var Types = []string{"contracts", "aria", "event", "misc"}

var (
	ErrBadgeNotFound = errors.New("badge not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidBadge  = errors.New("invalid badge")
)

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	Name string
	Type string
}

// Owned is a badge together with when its owner received it.
type Owned struct {
	models.Badge
	AwardedAt time.Time `json:"awarded_at"`
}

// Service handles badge catalog and ownership operations.
type Service struct {
	db       *gorm.DB
	resolver *identity.Resolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new badge service.
func NewService(db *gorm.DB, resolver *identity.Resolver, logger *zap.Logger) *Service {
	return &Service{db: db, resolver: resolver, logger: logger, now: time.Now}
}

func validType(t string) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Create adds a badge to the catalog.
func (s *Service) Create(ctx context.Context, badge *models.Badge) error {
	badge.Name = strings.TrimSpace(badge.Name)
	badge.Type = strings.ToLower(strings.TrimSpace(badge.Type))
	if badge.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidBadge)
	}
	if !validType(badge.Type) {
		return fmt.Errorf("%w: type %q is not one of %s", ErrInvalidBadge, badge.Type, strings.Join(Types, ", "))
	}

	if err := s.db.WithContext(ctx).Create(badge).Error; err != nil {
		return fmt.Errorf("failed to create badge %q: %w", badge.Name, err)
	}
	s.logger.Info("Created badge", zap.Uint("badge_id", badge.ID), zap.String("name", badge.Name))
	return nil
}

// Get loads one badge.
func (s *Service) Get(ctx context.Context, id uint) (*models.Badge, error) {
	var badge models.Badge
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrBadgeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

// List returns catalog entries by type, newest first within a type.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Badge, error) {
	q := s.db.WithContext(ctx).Model(&models.Badge{})
	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if f.Type != "" {
		q = q.Where("type = ?", strings.ToLower(f.Type))
	}

	var badges []models.Badge
	if err := q.Order("type, created_at DESC, name").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

// Delete removes a badge and every award of it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", id).Delete(&models.UserBadge{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Badge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", ErrBadgeNotFound, id)
		}
		return nil
	})
}

func (s *Service) user(ctx context.Context, username string) (*models.User, error) {
	m, ok, err := s.resolver.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return s.resolver.User(ctx, m.UserID)
}

// Award gives a badge to the user a username resolves to. It reports false
// when the user already owned the badge.
func (s *Service) Award(ctx context.Context, badgeID uint, username string) (*models.User, bool, error) {
	if _, err := s.Get(ctx, badgeID); err != nil {
		return nil, false, err
	}
	user, err := s.user(ctx, username)
	if err != nil {
		return nil, false, err
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserBadge{UserID: user.ID, BadgeID: badgeID, AwardedAt: s.now()})
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to award badge %d to %s: %w", badgeID, user.Username, res.Error)
	}

	awarded := res.RowsAffected > 0
	if awarded {
		s.logger.Info("Awarded badge", zap.Uint("badge_id", badgeID), zap.String("username", user.Username))
	}
	return user, awarded, nil
}

// Revoke takes a badge away. It reports false when the user did not own it.
func (s *Service) Revoke(ctx context.Context, badgeID uint, username string) (bool, error) {
	user, err := s.user(ctx, username)
	if err != nil {
		return false, err
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND badge_id = ?", user.ID, badgeID).Delete(&models.UserBadge{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Owned lists a user's badges, most recently awarded first.
func (s *Service) Owned(ctx context.Context, username string) ([]Owned, error) {
	user, err := s.user(ctx, username)
	if err != nil {
		return nil, err
	}

	var out []Owned
	err = s.db.WithContext(ctx).Model(&models.Badge{}).
		Select("badge.*, user_badge.awarded_at").
		Joins("JOIN user_badge ON user_badge.badge_id = badge.id").
		Where("user_badge.user_id = ?", user.ID).
		Order("user_badge.awarded_at DESC, badge.name").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
