package contracts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"natsumin/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const snapshotPrefix = "snapshots"

// Snapshot is one archived spreadsheet response.
type Snapshot struct {
	Key     string    `json:"key"`
	Season  string    `json:"season"`
	TakenAt time.Time `json:"taken_at"`
	Size    int64     `json:"size"`
}

// Archive stores raw spreadsheet responses so a pass can be audited or
// replayed later. Objects are keyed snapshots/<season>/<unix>.json.
type Archive struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// NewArchive creates an Archive writing to bucket.
func NewArchive(client storage.Client, bucket string, logger *zap.Logger) *Archive {
	return &Archive{client: client, bucket: bucket, logger: logger, now: time.Now}
}

func seasonPrefix(season string) string {
	return path.Join(snapshotPrefix, season) + "/"
}

// Save uploads raw and returns its object key.
func (a *Archive) Save(ctx context.Context, season string, raw []byte) (string, error) {
	key := fmt.Sprintf("%s%d.json", seasonPrefix(season), a.now().Unix())
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	a.logger.Debug("Archived spreadsheet snapshot", zap.String("key", key), zap.Int("bytes", len(raw)))
	return key, nil
}

// List returns a season's snapshots, newest first.
func (a *Archive) List(ctx context.Context, season string) ([]Snapshot, error) {
	var out []Snapshot
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: seasonPrefix(season), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		unix, err := strconv.ParseInt(strings.TrimSuffix(path.Base(obj.Key), ".json"), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Snapshot{Key: obj.Key, Season: season, TakenAt: time.Unix(unix, 0).UTC(), Size: obj.Size})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TakenAt.After(out[j].TakenAt) })
	return out, nil
}

// Load downloads a snapshot.
func (a *Archive) Load(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, nil
}

// Prune removes all but the newest keep snapshots of a season and returns
// how many were removed.
func (a *Archive) Prune(ctx context.Context, season string, keep int) (int, error) {
	snapshots, err := a.List(ctx, season)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}

	removed := 0
	for i := keep; i < len(snapshots); i++ {
		if err := a.client.RemoveObject(ctx, a.bucket, snapshots[i].Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("failed to remove snapshot %s: %w", snapshots[i].Key, err)
		}
		removed++
	}
	return removed, nil
}
