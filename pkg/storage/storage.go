// Package storage abstracts where generated artefacts (the merchant feed)
// are written: the local filesystem or an S3-compatible bucket.
//
//	storage.Connect(ctx)
//	disk, _ := storage.Default()
//	disk.Put(ctx, "feeds/google-merchant-feed.xml", data, "application/xml")
//	url := disk.URL("feeds/google-merchant-feed.xml")
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/logger"
)

var (
	ErrNotFound    = errors.New("storage: object not found")
	ErrUnknownDisk = errors.New("storage: disk not configured")
	ErrPathEscapes = errors.New("storage: path escapes disk root")
	errNoBucket    = errors.New("storage/s3: S3_BUCKET is not configured")
)

// Disk is a flat key/value object store.
type Disk interface {
	Name() string
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	// URL is the public address of path; it does not check existence.
	URL(path string) string
}

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultName = "local"
)

// Connect boots the local disk always and the s3 disk when a bucket is set.
func Connect(ctx context.Context) {
	local := NewLocal(config.StorageLocalRoot(), config.StorageURL())
	Register(local)

	if config.StorageS3Bucket() != "" {
		d, err := NewS3(ctx, S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			Register(d)
		}
	}

	mu.Lock()
	defaultName = config.StorageDefault()
	mu.Unlock()
}

// Register adds or replaces a disk under d.Name().
func Register(d Disk) {
	mu.Lock()
	disks[d.Name()] = d
	mu.Unlock()
}

// SetDefault changes the disk returned by Default.
func SetDefault(name string) {
	mu.Lock()
	defaultName = name
	mu.Unlock()
}

func Use(name string) (Disk, error) {
	mu.RLock()
	d, ok := disks[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDisk, name)
	}
	return d, nil
}

// Default returns the STORAGE_DISK disk.
func Default() (Disk, error) {
	mu.RLock()
	name := defaultName
	mu.RUnlock()
	return Use(name)
}
