package catalog

import (
	"context"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Key      string
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that reads s3Key through s3Loader and
// falls back to fileLoader with the local path. A nil s3Loader disables S3.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Key string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Key:      s3Key,
		logger:     logger.With().Str("component", "fallback-loader").Logger(),
	}
}

// Load ignores filePath for the S3 attempt and uses the configured key.
func (l *fallbackLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	if l.s3Loader != nil {
		products, err := l.s3Loader.Load(ctx, l.s3Key)
		if err == nil {
			return products, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", l.s3Key).
			Msg("failed to load from S3, falling back to local file system")
	}

	l.logger.Info().
		Str("file_path", filePath).
		Msg("loading from local file system")

	return l.fileLoader.Load(ctx, filePath)
}
