package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/darkstore_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	component string
	now       func() time.Time
}

func newBaseService(component string) BaseService {
	return BaseService{component: component}
}

// GetLogger returns the request-scoped logger tagged with the service component.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if s.component == "" {
		return logger
	}
	return logger.With(slog.String("component", s.component))
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current UTC time from the injected clock, or the wall clock.
func (s *BaseService) Now() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}
