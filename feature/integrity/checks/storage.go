package checks

import (
	"context"
	"fmt"

	"natsumin/core/storage"

	"github.com/minio/minio-go/v7"
)

const snapshotPrefix = "snapshots/"

// StorageReport describes the snapshot bucket.
type StorageReport struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket,omitempty"`
	Exists  bool   `json:"exists"`
	// Seasons is the number of seasons holding at least one snapshot.
	Seasons int `json:"seasons"`
}

// CheckStorage reports whether the bucket exists and how many seasons have
// archived snapshots. A nil client means the archive is disabled.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	if client == nil {
		return &StorageReport{}, nil
	}
	report := &StorageReport{Enabled: true, Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{Prefix: snapshotPrefix, Recursive: false}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		report.Seasons++
	}
	return report, nil
}

// FixStorage creates the bucket when it is missing.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string) error {
	if client == nil {
		return fmt.Errorf("snapshot archive is disabled")
	}
	return storage.EnsureBucket(ctx, client, bucket, region)
}
