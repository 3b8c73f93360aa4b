package entities

import "time"

// AlarmLog is the run record for one batch pass over the active alarms:
// the full log trail plus when the pass ran. Write-once; never mutated.
type AlarmLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunID     string    `gorm:"size:36;uniqueIndex;not null" json:"run_id"`
	RunAt     time.Time `gorm:"not null;index" json:"run_at"`
	Logs      string    `gorm:"type:text;default:''" json:"logs"`
	Evaluated int       `gorm:"not null;default:0" json:"evaluated"`
	Triggered int       `gorm:"not null;default:0" json:"triggered"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GORM.
func (AlarmLog) TableName() string {
	return "alarm_logs"
}
