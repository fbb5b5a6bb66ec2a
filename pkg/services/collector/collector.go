package collector

import (
	"context"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/store/client"
	"github.com/rs/zerolog"
)

const ResourceTypeBucket = "s3_bucket"

// Collector reads the current security configuration of a bucket.
type Collector struct {
	store client.ObjectStore
}

func NewCollector(store client.ObjectStore) *Collector {
	return &Collector{store: store}
}

// Collect never fails: each unavailable fact is logged and replaced by its
// benign default (no tags, versioning off, encryption off).
func (c *Collector) Collect(ctx context.Context, resourceID string) domain.ResourceConfig {
	logger := zerolog.Ctx(ctx).With().Str("bucket", resourceID).Logger()

	cfg := domain.ResourceConfig{
		ResourceType: ResourceTypeBucket,
		Name:         resourceID,
		Tags:         map[string]string{},
	}

	tags, err := c.store.GetBucketTags(ctx, resourceID)
	if err != nil {
		logger.Warn().
			Err(domain.NewError(domain.ErrorKindCollection, "get tags", err)).
			Msg("bucket tags unavailable, assuming none")
	} else if tags != nil {
		cfg.Tags = tags
	}

	versioning, err := c.store.GetBucketVersioning(ctx, resourceID)
	if err != nil {
		logger.Warn().
			Err(domain.NewError(domain.ErrorKindCollection, "get versioning", err)).
			Msg("bucket versioning unavailable, assuming disabled")
	} else {
		cfg.VersioningEnabled = versioning
	}

	encryption, err := c.store.GetBucketEncryption(ctx, resourceID)
	if err != nil {
		logger.Warn().
			Err(domain.NewError(domain.ErrorKindCollection, "get encryption", err)).
			Msg("bucket encryption unavailable, assuming disabled")
	} else {
		cfg.EncryptionEnabled = encryption
	}

	logger.Info().
		Int("tags", len(cfg.Tags)).
		Bool("versioning_enabled", cfg.VersioningEnabled).
		Bool("encryption_enabled", cfg.EncryptionEnabled).
		Msg("collected bucket configuration")

	return cfg
}
