package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// AuditActor identifies who performed a privileged action. A zero ID with
// role "system" marks scheduler-initiated actions.
type AuditActor struct {
	ID   uint
	Role string
}

// SystemActor is the actor recorded for scheduler-initiated actions.
var SystemActor = AuditActor{Role: "system"}

// AuditRecorder appends entries to the audit trail. Failures are logged and
// swallowed; auditing must never fail the action it describes.
type AuditRecorder interface {
	Record(ctx context.Context, actor AuditActor, action, entityType string, entityID *uint, metadata datatypes.JSONMap)
}

type auditRecorder struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditRecorder constructs an audit recorder.
func NewAuditRecorder(repo repository.AuditLogRepository, logger zerolog.Logger) AuditRecorder {
	return &auditRecorder{
		repo:   repo,
		logger: logger.With().Str("component", "audit_recorder").Logger(),
	}
}

func (a *auditRecorder) Record(ctx context.Context, actor AuditActor, action, entityType string, entityID *uint, metadata datatypes.JSONMap) {
	entry := models.AuditLog{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}

	if err := a.repo.Create(ctx, &entry); err != nil {
		a.logger.Warn().Err(err).Str("action", action).Msg("failed to write audit entry")
	}
}
