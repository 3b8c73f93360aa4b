package entities

import "time"

// Role is the closed set of user roles. Stored as its string value;
// comparisons go through this type rather than raw literals.
type Role string

const (
	RoleCustomer      Role = "Customer"
	RoleSubscriber    Role = "Subscriber"
	RoleAdmin         Role = "Admin"
	RoleServicePerson Role = "Service Person"
)

// Known reports whether r is one of the defined roles.
func (r Role) Known() bool {
	switch r {
	case RoleCustomer, RoleSubscriber, RoleAdmin, RoleServicePerson:
		return true
	}
	return false
}

// NotifyRole maps an alarm's creator role to the role that receives its
// notifications: alarms created by customers notify customers, everything
// else notifies subscribers. Total over Role, including unknown values.
func NotifyRole(createdBy Role) Role {
	if createdBy == RoleCustomer {
		return RoleCustomer
	}
	return RoleSubscriber
}

// User is an account that can be assigned to properties.
// ReceiveAlarmNotifications is a tri-state opt-out: only an explicit false
// excludes the user from alarm notifications.
type User struct {
	ID                        uint       `gorm:"primaryKey" json:"id"`
	Username                  string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email                     string     `gorm:"size:255;default:''" json:"email"`
	Role                      Role       `gorm:"size:50;index" json:"role"`
	ReceiveAlarmNotifications *bool      `json:"receive_alarm_notifications"`
	Properties                []Property `gorm:"many2many:property_users" json:"properties,omitempty"`
	CreatedAt                 time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// WantsAlarmNotifications reports whether the user should receive alarm
// email. Unset defaults to opted-in.
func (u *User) WantsAlarmNotifications() bool {
	return u.ReceiveAlarmNotifications == nil || *u.ReceiveAlarmNotifications
}
