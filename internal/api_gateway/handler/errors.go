package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

// respondError maps a service error onto the response envelope
func respondError(c *gin.Context, logger *slog.Logger, operation string, err error) {
	var (
		validationErr *ledger.ValidationError
		externalErr   *shared.ExternalServiceError
		decodeErr     *shared.DecodeError
	)

	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		RespondUnauthorized(c, err.Error())
	case errors.As(err, &validationErr):
		RespondBadRequest(c, validationErr.Message)
	case errors.Is(err, batch.ErrRecordNotFound{}):
		RespondNotFound(c, "Batch is pending or unknown")
	case errors.Is(err, service.ErrAsyncDisabled):
		RespondServiceUnavailable(c, err.Error())
	case errors.As(err, &decodeErr):
		RespondBadGateway(c, "DECODE_ERROR", decodeErr.Error())
	case errors.As(err, &externalErr):
		RespondBadGateway(c, "EXTERNAL_SERVICE_ERROR", externalErr.Error())
	default:
		logger.Error("Request failed",
			"operation", operation,
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
	}
}
