package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// serviceRecordRepository implements ServiceRecordRepository.
type serviceRecordRepository struct {
	db *gorm.DB
}

// NewServiceRecordRepository creates a new ServiceRecordRepository.
func NewServiceRecordRepository(db *gorm.DB) ServiceRecordRepository {
	return &serviceRecordRepository{db: db}
}

// FindInWindow returns the property's records inside the alarm-day window.
func (r *serviceRecordRepository) FindInWindow(ctx context.Context, propertyID uint, window RecordWindow) ([]entities.ServiceRecord, error) {
	if window.StartUTC == nil && window.EndUTC == nil {
		return nil, nil
	}

	db := r.db.WithContext(ctx)
	var windowCond *gorm.DB
	if window.StartUTC != nil {
		windowCond = db.Where("start_date_time BETWEEN ? AND ?", window.DayStartUTC, *window.StartUTC)
	}
	if window.EndUTC != nil {
		endCond := db.Where("end_date_time IS NOT NULL AND end_date_time BETWEEN ? AND ?", window.DayStartUTC, *window.EndUTC)
		if windowCond == nil {
			windowCond = endCond
		} else {
			windowCond = windowCond.Or(endCond)
		}
	}

	var records []entities.ServiceRecord
	err := db.
		Where("property_id = ?", propertyID).
		Where(windowCond).
		Order("start_date_time ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find service records for property %d: %w", propertyID, err)
	}
	return records, nil
}
