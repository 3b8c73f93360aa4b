// Package entities defines the gorm models for the reportrack data store.
package entities

import "time"

// Property is a serviced site. Users are assigned through a join table and
// drive alarm notification routing.
type Property struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Address    string    `gorm:"size:500;default:''" json:"address"`
	CustomerID *uint     `gorm:"index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Users      []User    `gorm:"many2many:property_users" json:"users,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Property) TableName() string {
	return "properties"
}
