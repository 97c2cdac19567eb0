package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"menu-catalog/internal/storage"
)

// Domain error kinds. Handlers translate these to HTTP status codes:
// ErrInvalidInput -> 400, ErrNotFound -> 404, ErrImageUpload -> 502.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrImageUpload  = errors.New("image upload failed")
)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func notFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// deleteAsset removes a remote asset, fire-and-forget: failures are logged
// and never fail the enclosing operation.
func deleteAsset(ctx context.Context, assets storage.AssetStore, logger *zap.Logger, publicID string) {
	if publicID == "" {
		return
	}
	if err := assets.Delete(ctx, publicID); err != nil {
		logger.Warn("Failed to delete remote asset",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
	}
}
