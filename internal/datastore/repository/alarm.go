// Package repository provides data access for the alarm engine.
package repository

import (
	"context"
	"time"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// AlarmRepository handles alarm reads and the notified-state writes.
type AlarmRepository interface {
	// ListActive returns all active alarms with property, customer,
	// service type and expected service person preloaded.
	ListActive(ctx context.Context) ([]entities.Alarm, error)

	// Get returns a single alarm with its relations.
	// Returns ErrAlarmNotFound if it does not exist.
	Get(ctx context.Context, id uint) (*entities.Alarm, error)

	// MarkNotified records a trigger at notifiedAt. The update is
	// conditional on the alarm not already having been notified on or
	// after dayStartUTC, so concurrent passes cannot both advance the
	// same day's state. Returns whether this call won the update.
	MarkNotified(ctx context.Context, id uint, notifiedAt, dayStartUTC time.Time) (bool, error)

	// ResetNotified clears the notified timestamp for the given alarms
	// and returns how many rows changed.
	ResetNotified(ctx context.Context, ids []uint) (int64, error)

	// Count returns the number of alarms, optionally filtered by active.
	Count(ctx context.Context, active *bool) (int64, error)
}
