package repository

import (
	"context"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// UserRepository resolves notification recipients.
type UserRepository interface {
	// ListPropertyUsersByRole returns the users assigned to a property
	// whose role matches. Opt-out filtering is the caller's concern.
	ListPropertyUsersByRole(ctx context.Context, propertyID uint, role entities.Role) ([]entities.User, error)
}
