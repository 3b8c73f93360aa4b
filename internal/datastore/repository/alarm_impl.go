package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// alarmRepository implements AlarmRepository.
type alarmRepository struct {
	db *gorm.DB
}

// NewAlarmRepository creates a new AlarmRepository.
func NewAlarmRepository(db *gorm.DB) AlarmRepository {
	return &alarmRepository{db: db}
}

// ListActive returns all active alarms with their relations preloaded.
func (r *alarmRepository) ListActive(ctx context.Context) ([]entities.Alarm, error) {
	var alarms []entities.Alarm
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Customer").
		Preload("ServiceType").
		Preload("ServicePerson").
		Where("active = ?", true).
		Order("id ASC").
		Find(&alarms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active alarms: %w", err)
	}
	return alarms, nil
}

// Get returns a single alarm by ID with its relations.
func (r *alarmRepository) Get(ctx context.Context, id uint) (*entities.Alarm, error) {
	var alarm entities.Alarm
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Customer").
		Preload("ServiceType").
		Preload("ServicePerson").
		First(&alarm, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlarmNotFound
		}
		return nil, fmt.Errorf("failed to get alarm %d: %w", id, err)
	}
	return &alarm, nil
}

// MarkNotified advances the notified timestamp with a single conditional
// UPDATE, so two overlapping passes cannot both claim the same day.
func (r *alarmRepository) MarkNotified(ctx context.Context, id uint, notifiedAt, dayStartUTC time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Alarm{}).
		Where("id = ? AND (notified IS NULL OR notified < ?)", id, dayStartUTC).
		Update("notified", notifiedAt)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark alarm %d notified: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ResetNotified clears the notified timestamp for the given alarm IDs.
func (r *alarmRepository) ResetNotified(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&entities.Alarm{}).
		Where("id IN ?", ids).
		Update("notified", nil)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the number of alarms, optionally filtered by active.
func (r *alarmRepository) Count(ctx context.Context, active *bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entities.Alarm{})
	if active != nil {
		query = query.Where("active = ?", *active)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count alarms: %w", err)
	}
	return count, nil
}
