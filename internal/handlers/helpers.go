package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
	"github.com/SscSPs/darkstore_ledger/internal/middleware"
)

// anonymousActor is recorded when neither a token subject nor createdBy is available.
const anonymousActor = "anonymous"

// resolveActor prefers the authenticated subject over a self-declared createdBy.
func resolveActor(c *gin.Context, declared string) string {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return userID
	}
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	return anonymousActor
}

// parseLedgerDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar day.
func parseLedgerDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dto.DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", raw)
	}
	return domain.LedgerDate(t), nil
}

// parseOptionalDate returns nil for an empty value.
func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseLedgerDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// respondError maps service errors to HTTP responses.
// Storage failures are checked first so they never surface as a client error.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Warn("Journal entry failed validation", slog.String("error_kind", string(verr.Kind)), slog.String("detail", verr.Error()))
		c.JSON(http.StatusUnprocessableEntity, toValidationErrorResponse(verr))
	case errors.Is(err, apperrors.ErrStorage):
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Request conflicts with ledger state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invalid request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback})
	}
}

func toValidationErrorResponse(verr *domain.ValidationError) dto.ValidationErrorResponse {
	resp := dto.ValidationErrorResponse{
		ErrorKind:   string(verr.Kind),
		Detail:      verr.Error(),
		AccountCode: verr.AccountCode,
	}
	switch verr.Kind {
	case domain.UnknownAccount, domain.InvalidLine, domain.NegativeAmount, domain.AmountOutOfRange:
		if verr.Index >= 0 {
			idx := verr.Index
			resp.LineIndex = &idx
		}
	}
	return resp
}

func badRequest(c *gin.Context, msg string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg + ": " + err.Error()})
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// withGuards returns guards followed by handler, without aliasing guards.
func withGuards(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, handler)
}
