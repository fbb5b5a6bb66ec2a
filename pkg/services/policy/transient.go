package policy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WithTransientFile writes data to a uniquely named file in dir, calls fn
// with its path and removes the file before returning, whatever fn returns.
func WithTransientFile(ctx context.Context, dir string, data []byte, fn func(path string) error) error {
	logger := zerolog.Ctx(ctx)

	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("policy-input-%s.json", uuid.NewString()))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create transient input: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warn().Err(rmErr).Str("path", path).Msg("failed to remove transient input")
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write transient input: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close transient input: %w", err)
	}

	return fn(path)
}
