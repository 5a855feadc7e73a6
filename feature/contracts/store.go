package contracts

import (
	"context"
	"errors"
	"fmt"

	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/media"
	"natsumin/feature/rep"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BlockResult counts what one block procedure did.
type BlockResult struct {
	Name     string `json:"name"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
}

// Writes returns inserted plus updated rows.
func (r BlockResult) Writes() int {
	return r.Inserted + r.Updated
}

// pass is the state shared by the block procedures of one sync pass.
// Every query goes through tx.
type pass struct {
	ctx      context.Context
	tx       *gorm.DB
	season   string
	layout   *Layout
	resolver *identity.Resolver
	media    *media.Index
	pending  *media.Pending
	repOpts  []rep.Option
	logger   *zap.Logger

	block *BlockResult
}

// changes collects the columns whose source value differs from storage.
type changes map[string]any

func (c changes) set(column string, stored, source any) {
	if stored != source {
		c[column] = source
	}
}

func (c changes) setPtr(column string, stored, source *string) {
	if (stored == nil) != (source == nil) || (stored != nil && *stored != *source) {
		c[column] = source
	}
}

func (p *pass) skip(reason, username string) {
	p.block.Skipped++
	p.logger.Debug("Skipped row",
		zap.String("block", p.block.Name),
		zap.String("reason", reason),
		zap.String("username", username))
}

// link maps a contract hyperlink to the media reference to store and ties
// any id queued for lookup to the contract.
func (p *pass) link(url, userID, contractType string) (mediaType, mediaID *string) {
	mediaType, mediaID = p.media.Link(url, p.pending)
	p.pending.Attach(url, media.Slot{SeasonID: p.season, ContracteeID: userID, Type: contractType})
	return mediaType, mediaID
}

// lookup resolves a username without creating anything.
func (p *pass) lookup(username string) (string, bool, error) {
	if username == "" {
		return "", false, nil
	}
	m, ok, err := p.resolver.Resolve(p.ctx, username)
	if err != nil || !ok {
		return "", false, err
	}
	return m.UserID, true, nil
}

// ensureUser resolves a username and creates the user on first sighting.
// When rename is set, a match through an alias makes the sheet spelling the
// canonical username.
func (p *pass) ensureUser(username string, rename bool) (string, error) {
	m, ok, err := p.resolver.Resolve(p.ctx, username)
	if err != nil {
		return "", err
	}
	if ok {
		if rename && m.Kind == identity.MatchAlias {
			if err := p.resolver.Rename(p.ctx, m.UserID, username); err != nil {
				return "", err
			}
			p.block.Updated++
		}
		return m.UserID, nil
	}

	user, err := p.resolver.CreateUser(p.ctx, username)
	if err != nil {
		return "", err
	}
	p.block.Inserted++
	p.logger.Info("Created user", zap.String("username", user.Username), zap.String("user_id", user.ID))
	return user.ID, nil
}

func (p *pass) seasonUser(userID string) (*models.SeasonUser, error) {
	var su models.SeasonUser
	err := p.tx.Where("season_id = ? AND user_id = ?", p.season, userID).Take(&su).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load season user %s: %w", userID, err)
	}
	return &su, nil
}

func (p *pass) createSeasonUser(su *models.SeasonUser) error {
	su.SeasonID = p.season
	if err := p.tx.Create(su).Error; err != nil {
		return fmt.Errorf("failed to create season user %s: %w", su.UserID, err)
	}
	p.block.Inserted++
	return nil
}

func (p *pass) updateSeasonUser(su *models.SeasonUser, c changes) error {
	if len(c) == 0 {
		return nil
	}
	err := p.tx.Model(&models.SeasonUser{}).
		Where("season_id = ? AND user_id = ?", p.season, su.UserID).
		Updates(map[string]any(c)).Error
	if err != nil {
		return fmt.Errorf("failed to update season user %s: %w", su.UserID, err)
	}
	p.block.Updated++
	return nil
}

func (p *pass) contract(userID, contractType string) (*models.SeasonContract, error) {
	var c models.SeasonContract
	err := p.tx.Where("season_id = ? AND contractee_id = ? AND type = ?", p.season, userID, contractType).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %q for %s: %w", contractType, userID, err)
	}
	return &c, nil
}

func (p *pass) createContract(c *models.SeasonContract) error {
	c.SeasonID = p.season
	c.Optional = p.layout.IsOptional(c.Type)
	if err := p.tx.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create %q for %s: %w", c.Type, c.ContracteeID, err)
	}
	p.block.Inserted++
	return nil
}

func (p *pass) updateContract(existing *models.SeasonContract, c changes) error {
	c.set("optional", existing.Optional, p.layout.IsOptional(existing.Type))
	if len(c) == 0 {
		return nil
	}
	if err := p.tx.Model(&models.SeasonContract{}).Where("id = ?", existing.ID).Updates(map[string]any(c)).Error; err != nil {
		return fmt.Errorf("failed to update %q for %s: %w", existing.Type, existing.ContracteeID, err)
	}
	p.block.Updated++
	return nil
}

// updateUserRep records the last known affiliation on the cross-season user.
func (p *pass) updateUserRep(userID string, rep *string) error {
	if rep == nil {
		return nil
	}
	var user models.User
	if err := p.tx.Select("id", "rep").Where("id = ?", userID).Take(&user).Error; err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user.Rep != nil && *user.Rep == *rep {
		return nil
	}
	if err := p.tx.Model(&models.User{}).Where("id = ?", userID).Update("rep", *rep).Error; err != nil {
		return fmt.Errorf("failed to update rep for %s: %w", userID, err)
	}
	p.block.Updated++
	return nil
}
