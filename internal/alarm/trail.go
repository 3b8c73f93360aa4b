package alarm

import (
	"fmt"
	"time"
)

// Clock supplies "now" so evaluation is testable against fixed instants.
type Clock func() time.Time

// Level classifies a trail entry.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// LogEntry is one structured line of an alarm's evaluation trail. The
// engine reasons over these; prose rendering happens only at the run
// record and API boundary.
type LogEntry struct {
	Level     Level     `json:"level"`
	AlarmID   uint      `json:"alarm_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Render formats the entry as a human-readable log line.
func (e LogEntry) Render() string {
	prefix := ""
	if e.Level == LevelError {
		prefix = "ERROR: "
	}
	if e.AlarmID == 0 {
		return fmt.Sprintf("[%s] %s%s", e.Timestamp.Format(time.RFC3339), prefix, e.Message)
	}
	return fmt.Sprintf("[%s] - Alarm ID %d: %s%s", e.Timestamp.Format(time.RFC3339), e.AlarmID, prefix, e.Message)
}

// Trail accumulates the evaluation log for one alarm.
type Trail struct {
	alarmID uint
	now     Clock
	entries []LogEntry
}

// NewTrail creates a trail for the given alarm.
func NewTrail(alarmID uint, now Clock) *Trail {
	return &Trail{alarmID: alarmID, now: now}
}

// Infof appends an info-level entry.
func (t *Trail) Infof(format string, args ...any) {
	t.append(LevelInfo, format, args...)
}

// Errorf appends an error-level entry.
func (t *Trail) Errorf(format string, args ...any) {
	t.append(LevelError, format, args...)
}

func (t *Trail) append(level Level, format string, args ...any) {
	t.entries = append(t.entries, LogEntry{
		Level:     level,
		AlarmID:   t.alarmID,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: t.now().UTC(),
	})
}

// Entries returns the structured entries in append order.
func (t *Trail) Entries() []LogEntry {
	return t.entries
}

// Render returns the trail as prose lines.
func (t *Trail) Render() []string {
	lines := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		lines = append(lines, e.Render())
	}
	return lines
}

// HasError reports whether any entry is error-level.
func (t *Trail) HasError() bool {
	for _, e := range t.entries {
		if e.Level == LevelError {
			return true
		}
	}
	return false
}
