package contracts

import (
	"context"
	"fmt"

	"natsumin/feature/contracts/models"

	"gorm.io/gorm/clause"
)

// leaseName is shared by every process pointed at the same database, so a
// CLI pass and a serving process never reconcile concurrently.
const leaseName = "sync"

// acquireLease claims the database-wide sync lease. It reports false when a
// live lease belongs to another holder.
func (e *Engine) acquireLease(ctx context.Context) (bool, error) {
	now := e.now()
	db := e.db.WithContext(ctx)

	if err := db.Where("name = ? AND expires_at < ?", leaseName, now).Delete(&models.SyncLease{}).Error; err != nil {
		return false, fmt.Errorf("failed to expire sync lease: %w", err)
	}

	lease := models.SyncLease{Name: leaseName, Holder: e.holder, ExpiresAt: now.Add(e.cfg.LeaseTTL)}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lease)
	if res.Error != nil {
		return false, fmt.Errorf("failed to acquire sync lease: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// releaseLease drops the lease if this engine still holds it.
func (e *Engine) releaseLease() error {
	err := e.db.Where("name = ? AND holder = ?", leaseName, e.holder).Delete(&models.SyncLease{}).Error
	if err != nil {
		return fmt.Errorf("failed to release sync lease: %w", err)
	}
	return nil
}
