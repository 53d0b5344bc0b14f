package events

import (
	"context"

	"go.uber.org/zap"
)

// AuditLog records link lifecycle events for operators. It is the sink
// behind cmd/consumer.
type AuditLog struct {
	logger *zap.Logger
}

// NewAuditLog creates an audit sink writing to the given logger.
func NewAuditLog(logger *zap.Logger) *AuditLog {
	return &AuditLog{logger: logger}
}

// HandleLinkCreated logs a creation event.
func (a *AuditLog) HandleLinkCreated(_ context.Context, event *LinkCreatedEvent) error {
	a.logger.Info("link created",
		zap.String("code", event.Code),
		zap.String("original_url", event.OriginalURL),
		zap.Bool("is_custom", event.IsCustom),
		zap.Time("created_at", event.CreatedAt),
	)

	return nil
}

// HandleLinkResolved logs a resolution event.
func (a *AuditLog) HandleLinkResolved(_ context.Context, event *LinkResolvedEvent) error {
	a.logger.Info("link resolved",
		zap.String("code", event.Code),
		zap.Time("resolved_at", event.ResolvedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
