package entities

import "time"

// Email delivery statuses recorded in EmailLog.
const (
	EmailStatusSuccess = "success"
	EmailStatusFailed  = "failed"
)

// EmailLog is the audit trail for notification email: one row per
// attempted send. Write path only; the engine never reads it back.
type EmailLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	To              string    `gorm:"size:255;not null" json:"to"`
	From            string    `gorm:"size:255;default:''" json:"from"`
	Subject         string    `gorm:"size:500;default:''" json:"subject"`
	Trigger         string    `gorm:"size:100;default:'';index" json:"trigger"`
	TriggerDetails  string    `gorm:"type:text;default:''" json:"trigger_details"`
	Status          string    `gorm:"size:20;not null;index" json:"status"`
	Error           string    `gorm:"type:text;default:''" json:"error"`
	SentAt          time.Time `gorm:"not null" json:"sent_at"`
	DeliveryTimeMS  int64     `gorm:"default:0" json:"delivery_time_ms"`
	RelatedEntity   string    `gorm:"size:100;default:''" json:"related_entity"`
	RelatedEntityID uint      `gorm:"default:0;index" json:"related_entity_id"`
}

// TableName returns the table name for GORM.
func (EmailLog) TableName() string {
	return "email_logs"
}
