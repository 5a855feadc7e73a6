package checks

import (
	"natsumin/core/database"
	"natsumin/feature/contracts/models"

	"gorm.io/gorm"
)

// SchemaReport is the outcome of comparing the models with the live tables.
type SchemaReport struct {
	Matched bool             `json:"matched"`
	Drifts  []database.Drift `json:"drifts,omitempty"`
}

// CheckSchema compares every model with the connected database.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	drifts, err := database.CheckSchema(db, models.All()...)
	if err != nil {
		return nil, err
	}
	return &SchemaReport{Matched: len(drifts) == 0, Drifts: drifts}, nil
}

// FixSchema migrates every model.
func FixSchema(db *gorm.DB) error {
	return models.Migrate(db)
}
