package repository

import (
	"context"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// AlarmLogRepository persists batch run records.
type AlarmLogRepository interface {
	// CreateRun writes one run record. Run records are append-only.
	CreateRun(ctx context.Context, run *entities.AlarmLog) error

	// ListRecent returns the newest run records, most recent first.
	ListRecent(ctx context.Context, limit int) ([]entities.AlarmLog, error)
}

// EmailLogRepository is the write path for the email audit trail.
type EmailLogRepository interface {
	Create(ctx context.Context, log *entities.EmailLog) error
}
