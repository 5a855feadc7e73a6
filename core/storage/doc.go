// Package storage provides an abstraction layer over MinIO compatible object storage.
//
// The sync engine uses it to archive the raw spreadsheet responses of every
// pass so that a pass can be replayed offline. The Client interface keeps the
// operations it needs mockable (see core/storage/mocks).
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, config.Bucket, config.Region)
package storage
