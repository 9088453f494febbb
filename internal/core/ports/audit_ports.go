package ports

import (
	"context"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

// AuditLogger records audit events. Implementations never fail the caller.
type AuditLogger interface {
	Record(ctx context.Context, event domain.AuditEvent)
}
