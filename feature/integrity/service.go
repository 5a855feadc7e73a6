package integrity

import (
	"context"

	"natsumin/core/storage"
	"natsumin/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil when the
// snapshot archive is disabled.
func NewService(db *gorm.DB, client storage.Client, bucket, region string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}
}

// CheckSchema compares the models with the live tables.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// FixSchema migrates the database.
func (s *Service) FixSchema() error {
	s.logger.Info("Migrating database schema")
	return checks.FixSchema(s.db)
}

// CheckStorage inspects the snapshot bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the snapshot bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	s.logger.Info("Creating snapshot bucket", zap.String("bucket", s.bucket))
	return checks.FixStorage(ctx, s.client, s.bucket, s.region)
}

// CheckData scans the season tables for inconsistent rows.
func (s *Service) CheckData(ctx context.Context) (*checks.DataReport, error) {
	return checks.CheckData(ctx, s.db)
}

// Report is the combined result of every check. A check that failed to run
// carries its error instead of a result.
type Report struct {
	Schema  *checks.SchemaReport  `json:"schema,omitempty"`
	Storage *checks.StorageReport `json:"storage,omitempty"`
	Data    *checks.DataReport    `json:"data,omitempty"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

// Healthy reports whether every check ran and found nothing.
func (r *Report) Healthy() bool {
	if len(r.Errors) > 0 {
		return false
	}
	if r.Schema != nil && !r.Schema.Matched {
		return false
	}
	if r.Storage != nil && r.Storage.Enabled && !r.Storage.Exists {
		return false
	}
	return r.Data == nil || r.Data.Clean()
}

// RunAll runs every check.
func (s *Service) RunAll(ctx context.Context) *Report {
	report := &Report{Errors: map[string]string{}}

	if schema, err := s.CheckSchema(); err != nil {
		report.Errors["schema"] = err.Error()
	} else {
		report.Schema = schema
	}

	if store, err := s.CheckStorage(ctx); err != nil {
		report.Errors["storage"] = err.Error()
	} else {
		report.Storage = store
	}

	if data, err := s.CheckData(ctx); err != nil {
		report.Errors["data"] = err.Error()
	} else {
		report.Data = data
	}

	if !report.Healthy() {
		s.logger.Warn("Integrity checks found problems", zap.Int("errors", len(report.Errors)))
	}
	return report
}
