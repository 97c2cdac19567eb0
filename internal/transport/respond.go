package transport

import (
	"errors"
	"net/http"
	"strings"

	"menu-catalog/internal/middleware"
	"menu-catalog/internal/service"

	"go.uber.org/zap"
)

// respondServiceError translates service error kinds to HTTP status codes
// using the shared response envelope.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		middleware.RespondWithError(w, http.StatusBadRequest, serviceMessage(err))
	case errors.Is(err, service.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, serviceMessage(err))
	case errors.Is(err, service.ErrImageUpload):
		logger.Error("Image upload failed", zap.String("operation", operation), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "image upload failed")
	default:
		logger.Error("Unexpected error", zap.String("operation", operation), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// serviceMessage strips the error-kind prefix so the envelope message reads
// naturally ("image is required" rather than "invalid input: image is
// required").
func serviceMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{service.ErrInvalidInput, service.ErrNotFound} {
		msg = strings.TrimPrefix(msg, kind.Error()+": ")
	}
	return msg
}
