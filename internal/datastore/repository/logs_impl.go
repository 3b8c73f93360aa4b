package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

const defaultRunListLimit = 20

// alarmLogRepository implements AlarmLogRepository.
type alarmLogRepository struct {
	db *gorm.DB
}

// NewAlarmLogRepository creates a new AlarmLogRepository.
func NewAlarmLogRepository(db *gorm.DB) AlarmLogRepository {
	return &alarmLogRepository{db: db}
}

// CreateRun writes one batch run record.
func (r *alarmLogRepository) CreateRun(ctx context.Context, run *entities.AlarmLog) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run record: %w", err)
	}
	return nil
}

// ListRecent returns the newest run records first.
func (r *alarmLogRepository) ListRecent(ctx context.Context, limit int) ([]entities.AlarmLog, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	var runs []entities.AlarmLog
	err := r.db.WithContext(ctx).
		Order("run_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	return runs, nil
}

// emailLogRepository implements EmailLogRepository.
type emailLogRepository struct {
	db *gorm.DB
}

// NewEmailLogRepository creates a new EmailLogRepository.
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

// Create writes one email audit row.
func (r *emailLogRepository) Create(ctx context.Context, log *entities.EmailLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create email log: %w", err)
	}
	return nil
}
