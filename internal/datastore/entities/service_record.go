package entities

import "time"

// ServiceRecord is evidence that a service visit occurred. EndDateTime is
// nil while the visit is still in progress; the store enforces at most one
// in-progress record per assigned user.
type ServiceRecord struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	PropertyID    *uint        `gorm:"index" json:"property_id"`
	Property      *Property    `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	ServiceTypeID *uint        `gorm:"index" json:"service_type_id"`
	ServiceType   *ServiceType `gorm:"foreignKey:ServiceTypeID" json:"service_type,omitempty"`
	AssignedToID  *uint        `gorm:"index" json:"assigned_to_id"`
	AssignedTo    *User        `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	StartDateTime time.Time    `gorm:"not null;index" json:"start_date_time"`
	EndDateTime   *time.Time   `gorm:"index" json:"end_date_time"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (ServiceRecord) TableName() string {
	return "service_records"
}

// HasEnded reports whether the visit is complete.
func (r *ServiceRecord) HasEnded() bool {
	return r.EndDateTime != nil
}
