package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/ctxutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

var errUnauthorized = apierr.Unauthorized("unauthorized", "not authenticated")

func requireUser(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, errUnauthorized
	}
	return id, nil
}

// aggregateError converts an aggregate failure into an API error. Internal causes are logged
// and replaced by a generic message.
func aggregateError(log *logger.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	msg := domainagg.MessageOf(err)
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation, domainagg.CodeInvariantViolation, domainagg.CodePreconditionFailed:
		return apierr.New(http.StatusBadRequest, "invalid_request", errors.New(msg))
	case domainagg.CodeNotFound:
		return apierr.New(http.StatusNotFound, "not_found", errors.New(msg))
	case domainagg.CodeConflict:
		return apierr.Conflict("conflict", msg)
	case domainagg.CodeConcurrencyAnomaly:
		return apierr.Conflict("concurrency_anomaly", "concurrent update, try again")
	case domainagg.CodeRetryable:
		return apierr.New(http.StatusServiceUnavailable, "retryable", errors.New("temporarily unavailable, try again"))
	}
	log.Error("operation failed", "op", op, "error", err)
	return apierr.Internal(op)
}

// storageError logs a repository failure and hides it from the client.
func storageError(log *logger.Logger, op string, err error) error {
	log.Error("storage failure", "op", op, "error", err)
	return apierr.Internal(op)
}
