package checks

import (
	"context"
	"fmt"

	"natsumin/feature/contracts"
	"natsumin/feature/contracts/models"

	"gorm.io/gorm"
)

// OrphanContract is a contract whose contractee is not a participant of
// the contract's season.
type OrphanContract struct {
	ID           uint   `json:"id"`
	SeasonID     string `json:"season_id"`
	ContracteeID string `json:"contractee_id"`
	Type         string `json:"type"`
}

// ForeignContractor is a participant assigned a contractor who does not take
// part in the same season.
type ForeignContractor struct {
	SeasonID     string `json:"season_id"`
	UserID       string `json:"user_id"`
	ContractorID string `json:"contractor_id"`
}

// ShadowedAlias is an alias equal to another user's username. Resolution
// always prefers the username, so the alias can never match.
type ShadowedAlias struct {
	Alias   string `json:"alias"`
	UserID  string `json:"user_id"`
	OwnerID string `json:"owner_id"`
}

// DataReport lists rows that break cross-table expectations.
type DataReport struct {
	OrphanContracts    []OrphanContract    `json:"orphan_contracts"`
	ForeignContractors []ForeignContractor `json:"foreign_contractors"`
	UnknownLayouts     []string            `json:"unknown_layouts"`
	ShadowedAliases    []ShadowedAlias     `json:"shadowed_aliases"`
}

// Clean reports whether nothing was found.
func (r *DataReport) Clean() bool {
	return len(r.OrphanContracts) == 0 && len(r.ForeignContractors) == 0 &&
		len(r.UnknownLayouts) == 0 && len(r.ShadowedAliases) == 0
}

// CheckData scans the season tables for inconsistent rows.
func CheckData(ctx context.Context, db *gorm.DB) (*DataReport, error) {
	db = db.WithContext(ctx)
	report := &DataReport{
		OrphanContracts:    []OrphanContract{},
		ForeignContractors: []ForeignContractor{},
		UnknownLayouts:     []string{},
		ShadowedAliases:    []ShadowedAlias{},
	}

	err := db.Table("season_contract AS c").
		Select("c.id, c.season_id, c.contractee_id, c.type").
		Joins("LEFT JOIN season_user AS su ON su.season_id = c.season_id AND su.user_id = c.contractee_id").
		Where("su.user_id IS NULL").
		Order("c.id").
		Scan(&report.OrphanContracts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orphan contracts: %w", err)
	}

	err = db.Table("season_user AS su").
		Select("su.season_id, su.user_id, su.contractor_id").
		Joins("LEFT JOIN season_user AS cu ON cu.season_id = su.season_id AND cu.user_id = su.contractor_id").
		Where("su.contractor_id IS NOT NULL AND cu.user_id IS NULL").
		Order("su.season_id, su.user_id").
		Scan(&report.ForeignContractors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find foreign contractors: %w", err)
	}

	var seasons []models.Season
	if err := db.Order("id").Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	for _, s := range seasons {
		if _, ok := contracts.LayoutFor(s.Layout); !ok {
			report.UnknownLayouts = append(report.UnknownLayouts, s.ID)
		}
	}

	err = db.Table("user_alias AS a").
		Select("a.username AS alias, a.user_id, u.id AS owner_id").
		Joins("JOIN `user` AS u ON LOWER(u.username) = a.username AND u.id <> a.user_id").
		Order("a.username").
		Scan(&report.ShadowedAliases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find shadowed aliases: %w", err)
	}

	return report, nil
}
