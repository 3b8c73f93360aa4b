package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WeekdaySet is the set of weekday names an alarm is scheduled for,
// stored as a JSON array of full English names ("Monday", ...).
type WeekdaySet []string

// Contains reports whether the given weekday name is in the set.
func (w WeekdaySet) Contains(day string) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (w WeekdaySet) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(w))
	if err != nil {
		return nil, fmt.Errorf("failed to encode weekday set: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (w *WeekdaySet) Scan(value any) error {
	if value == nil {
		*w = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into WeekdaySet", value)
	}
	if len(raw) == 0 {
		*w = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(w))
}

// Alarm is a recurring expectation that a property receives a specific
// service within a daily time window. StartTime/EndTime are local
// times-of-day ("HH:MM:SS") interpreted in Timezone; the delay fields add
// minutes of grace on top. Notified holds the UTC instant of the last
// trigger and is written only by the notification dispatcher.
type Alarm struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	PropertyID         *uint        `gorm:"index" json:"property_id"`
	Property           *Property    `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	CustomerID         *uint        `gorm:"index" json:"customer_id"`
	Customer           *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceTypeID      *uint        `gorm:"index" json:"service_type_id"`
	ServiceType        *ServiceType `gorm:"foreignKey:ServiceTypeID" json:"service_type,omitempty"`
	ServicePersonID    *uint        `gorm:"index" json:"service_person_id"`
	ServicePerson      *User        `gorm:"foreignKey:ServicePersonID" json:"service_person,omitempty"`
	StartTime          string       `gorm:"size:16;default:''" json:"start_time"`
	EndTime            string       `gorm:"size:16;default:''" json:"end_time"`
	StartTimeDelay     *int         `json:"start_time_delay"`
	EndTimeDelay       *int         `json:"end_time_delay"`
	Timezone           string       `gorm:"size:64;not null;default:UTC" json:"timezone"`
	DaysOfWeek         WeekdaySet   `gorm:"type:text" json:"days_of_week"`
	StartAlarmDisabled bool         `gorm:"not null;default:false" json:"start_alarm_disabled"`
	EndAlarmDisabled   bool         `gorm:"not null;default:false" json:"end_alarm_disabled"`
	Active             bool         `gorm:"not null;index" json:"active"`
	Notified           *time.Time   `json:"notified"`
	CreatedByRole      Role         `gorm:"size:50;default:''" json:"created_by_role"`
	CreatedAt          time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Alarm) TableName() string {
	return "alarms"
}
