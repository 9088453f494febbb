package audit

import (
	"context"
	"log/slog"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger writes one structured line per event.
func NewSlogLogger(logger *slog.Logger) ports.AuditLogger {
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Record(ctx context.Context, event domain.AuditEvent) {
	attrs := []any{
		"event_id", event.ID.String(),
		"usuario", event.Username,
	}
	if event.StationNumber != 0 {
		attrs = append(attrs, "mesa_id", event.StationNumber)
	}
	if event.Detail != "" {
		attrs = append(attrs, "detail", event.Detail)
	}

	level := slog.LevelInfo
	if event.Action == domain.AuditStationRejected {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, string(event.Action), attrs...)
}

type multiLogger []ports.AuditLogger

// Multi fans every event out to all non-nil loggers.
func Multi(loggers ...ports.AuditLogger) ports.AuditLogger {
	var m multiLogger
	for _, l := range loggers {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

func (m multiLogger) Record(ctx context.Context, event domain.AuditEvent) {
	for _, l := range m {
		l.Record(ctx, event)
	}
}
