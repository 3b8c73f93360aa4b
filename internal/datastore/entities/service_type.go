package entities

import "time"

// ServiceType categorizes service visits (e.g. patrol, cleaning).
type ServiceType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (ServiceType) TableName() string {
	return "service_types"
}
