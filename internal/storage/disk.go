// Package storage stores uploaded product photos on local disk or S3.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Disk is the photo store. Paths are slash separated and relative.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

type Config struct {
	Driver    string
	LocalRoot string
	PublicURL string
	S3        S3Config
}

func New(ctx context.Context, cfg *Config) (Disk, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.LocalRoot, cfg.PublicURL), nil
	case "s3":
		return NewS3(ctx, &cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
