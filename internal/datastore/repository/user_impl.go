package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// userRepository implements UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// ListPropertyUsersByRole returns the property's users with the given role.
func (r *userRepository) ListPropertyUsersByRole(ctx context.Context, propertyID uint, role entities.Role) ([]entities.User, error) {
	var users []entities.User
	err := r.db.WithContext(ctx).
		Joins("JOIN property_users ON property_users.user_id = users.id").
		Where("property_users.property_id = ? AND users.role = ?", propertyID, role).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users for property %d: %w", propertyID, err)
	}
	return users, nil
}
