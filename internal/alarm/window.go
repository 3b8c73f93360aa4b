package alarm

import (
	"errors"
	"fmt"
	"time"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// ErrInvalidSchedule marks an alarm whose configured times or timezone
// cannot be interpreted. The evaluator skips such alarms with a logged
// reason; it is never fatal.
var ErrInvalidSchedule = errors.New("invalid alarm schedule")

// defaultGraceMinutes is applied when an alarm has no explicit delay.
const defaultGraceMinutes = 10

// timeOfDayLayouts are the accepted clock formats for StartTime/EndTime.
var timeOfDayLayouts = []string{"15:04:05.000", "15:04:05", "15:04"}

// Window holds the UTC instants bounding one alarm day. StartUTC/EndUTC
// are nil when the corresponding sub-alarm is disabled: the instant is
// never computed, so a zero-delay default can't spuriously pass a check.
type Window struct {
	DayStartUTC time.Time
	StartUTC    *time.Time
	EndUTC      *time.Time
}

// Location resolves the alarm's IANA timezone; empty means UTC.
func Location(a *entities.Alarm) (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidSchedule, a.Timezone)
	}
	return loc, nil
}

// ComputeWindow derives today's window for the alarm at the given instant.
// "Today" is the calendar day of now in the alarm's timezone; each enabled
// bound is that day's local time-of-day plus its grace delay, in UTC.
func ComputeWindow(a *entities.Alarm, now time.Time) (Window, error) {
	loc, err := Location(a)
	if err != nil {
		return Window{}, err
	}

	local := now.In(loc)
	year, month, day := local.Date()
	w := Window{
		DayStartUTC: time.Date(year, month, day, 0, 0, 0, 0, loc).UTC(),
	}

	if !a.StartAlarmDisabled {
		start, err := boundAt(a.StartTime, a.StartTimeDelay, year, month, day, loc)
		if err != nil {
			return Window{}, fmt.Errorf("start time: %w", err)
		}
		w.StartUTC = &start
	}
	if !a.EndAlarmDisabled {
		end, err := boundAt(a.EndTime, a.EndTimeDelay, year, month, day, loc)
		if err != nil {
			return Window{}, fmt.Errorf("end time: %w", err)
		}
		w.EndUTC = &end
	}
	return w, nil
}

// boundAt computes one window bound: local date + time-of-day + grace.
func boundAt(timeOfDay string, delay *int, year int, month time.Month, day int, loc *time.Location) (time.Time, error) {
	clock, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	grace := defaultGraceMinutes
	if delay != nil {
		grace = *delay
	}
	bound := time.Date(year, month, day, clock.Hour(), clock.Minute(), clock.Second(), 0, loc).
		Add(time.Duration(grace) * time.Minute)
	return bound.UTC(), nil
}

func parseTimeOfDay(value string) (time.Time, error) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: malformed time of day %q", ErrInvalidSchedule, value)
}
