package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column is one live column as reported by the database.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// TableColumns reads a table's columns. A missing table yields no columns.
func TableColumns(db *gorm.DB, table string) ([]Column, error) {
	if db.Dialector.Name() == DriverSQLite {
		type pragmaColumn struct {
			Cid       int
			Name      string
			Type      string
			Notnull   int
			DfltValue *string
			Pk        int
		}
		var rows []pragmaColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
		}
		columns := make([]Column, 0, len(rows))
		for _, r := range rows {
			columns = append(columns, Column{
				Name:       strings.ToLower(r.Name),
				Type:       strings.ToLower(r.Type),
				Nullable:   r.Notnull == 0,
				PrimaryKey: r.Pk > 0,
			})
		}
		return columns, nil
	}

	type schemaColumn struct {
		Name      string
		Type      string
		Nullable  string
		ColumnKey string
	}
	var rows []schemaColumn
	err := db.Raw(`SELECT COLUMN_NAME AS name, COLUMN_TYPE AS type, IS_NULLABLE AS nullable, COLUMN_KEY AS column_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ORDINAL_POSITION`, table).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	columns := make([]Column, 0, len(rows))
	for _, r := range rows {
		columns = append(columns, Column{
			Name:       strings.ToLower(r.Name),
			Type:       strings.ToLower(r.Type),
			Nullable:   strings.EqualFold(r.Nullable, "YES"),
			PrimaryKey: r.ColumnKey == "PRI",
		})
	}
	return columns, nil
}

// Drift lists what a model expects that the live table lacks.
type Drift struct {
	Table          string   `json:"table"`
	MissingTable   bool     `json:"missing_table,omitempty"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// CheckSchema compares each model's columns with the live database and
// returns one Drift per table that does not match.
func CheckSchema(db *gorm.DB, models ...any) ([]Drift, error) {
	var drifts []Drift
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		columns, err := TableColumns(db, table)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			drifts = append(drifts, Drift{Table: table, MissingTable: true})
			continue
		}

		live := make(map[string]bool, len(columns))
		for _, c := range columns {
			live[c.Name] = true
		}

		var missing []string
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" || field.IgnoreMigration {
				continue
			}
			if !live[strings.ToLower(field.DBName)] {
				missing = append(missing, field.DBName)
			}
		}
		if len(missing) > 0 {
			drifts = append(drifts, Drift{Table: table, MissingColumns: missing})
		}
	}
	return drifts, nil
}
