package repository

import (
	"context"
	"time"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// RecordWindow scopes a service record query to one alarm day. StartUTC
// and EndUTC bound the start-side and end-side clauses; a nil bound means
// that sub-alarm is disabled and its clause is omitted entirely.
type RecordWindow struct {
	DayStartUTC time.Time
	StartUTC    *time.Time
	EndUTC      *time.Time
}

// ServiceRecordRepository provides the windowed queries the matcher needs.
type ServiceRecordRepository interface {
	// FindInWindow returns a property's service records that started
	// within [DayStartUTC, StartUTC] or ended within [DayStartUTC,
	// EndUTC], including only the clauses whose bound is set.
	FindInWindow(ctx context.Context, propertyID uint, window RecordWindow) ([]entities.ServiceRecord, error)
}
