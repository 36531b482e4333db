package blob

import (
	"context"
	"fmt"

	"talentbase-backend/internal/config"
)

// Open selects a Store implementation from configuration.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Driver(cfg.BlobDriver) {
	case DriverMemory, "":
		return NewMemory(cfg.BlobPublicBaseURL), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Region:          cfg.BlobS3Region,
			Bucket:          cfg.BlobS3Bucket,
			Endpoint:        cfg.BlobS3Endpoint,
			AccessKeyID:     cfg.BlobS3AccessKey,
			SecretAccessKey: cfg.BlobS3SecretKey,
			PathStyle:       cfg.BlobS3PathStyle,
			PublicBaseURL:   cfg.BlobPublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.BlobDriver)
	}
}
