package alarm

import (
	"context"
	"time"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
	"github.com/firedock/reportrack-backend/internal/observability/metrics"
)

// Outcome is the result of evaluating one alarm.
type Outcome struct {
	AlarmID    uint
	Triggered  bool
	SkipReason string
	Summary    DispatchSummary
	Trail      *Trail
}

// Evaluator is the per-alarm decision function. It is pure with respect
// to "now": the clock is injected so every gate can be tested against
// fixed instants.
type Evaluator struct {
	matcher    *Matcher
	dispatcher *Dispatcher
	now        Clock
}

// NewEvaluator creates an Evaluator. A nil clock means time.Now.
func NewEvaluator(matcher *Matcher, dispatcher *Dispatcher, now Clock) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{matcher: matcher, dispatcher: dispatcher, now: now}
}

// Evaluate runs the decision sequence for one alarm. The gates run in
// order and the first match ends evaluation; only the final state
// triggers the dispatcher.
func (e *Evaluator) Evaluate(ctx context.Context, a *entities.Alarm) Outcome {
	trail := NewTrail(a.ID, e.now)
	now := e.now().UTC()
	metrics.AlarmEvaluated()

	if a.StartAlarmDisabled && a.EndAlarmDisabled {
		trail.Infof("Skipping: both start and end sub-alarms are disabled.")
		return skip(a.ID, SkipBothDisabled, trail)
	}

	loc, err := Location(a)
	if err != nil {
		trail.Errorf("Skipping: %v.", err)
		return skip(a.ID, SkipInvalidSchedule, trail)
	}
	local := now.In(loc)
	trail.Infof("Current time in alarm timezone (%s): %s.", loc, local.Format(time.RFC3339))

	weekday := local.Weekday().String()
	if !a.DaysOfWeek.Contains(weekday) {
		trail.Infof("Skipping: not configured for %s (configured days: %v).", weekday, []string(a.DaysOfWeek))
		return skip(a.ID, SkipNotScheduled, trail)
	}

	if a.Notified != nil && sameDay(a.Notified.In(loc), local) {
		trail.Infof("Skipping: already notified today at %s.", a.Notified.In(loc).Format(time.RFC3339))
		return skip(a.ID, SkipAlreadyNotified, trail)
	}

	if a.PropertyID == nil {
		trail.Errorf("Skipping: alarm has no property; cannot match service records.")
		return skip(a.ID, SkipNoProperty, trail)
	}

	w, err := ComputeWindow(a, now)
	if err != nil {
		trail.Errorf("Skipping: %v.", err)
		return skip(a.ID, SkipInvalidSchedule, trail)
	}
	trail.Infof("Window: day start %s, alarm start %s, alarm end %s.",
		w.DayStartUTC.Format(time.RFC3339), formatBound(w.StartUTC), formatBound(w.EndUTC))

	if !pastDue(now, w) {
		trail.Infof("Skipping: alarm window is not past due yet.")
		return skip(a.ID, SkipNotPastDue, trail)
	}

	result, err := e.matcher.Match(ctx, a, w)
	if err != nil {
		trail.Errorf("Skipping: service record query failed: %v.", err)
		return skip(a.ID, SkipQueryFailed, trail)
	}
	trail.Infof("Found %d service record(s). typeMatches=%t hasStarted=%t hasEnded=%t personMatches=%t.",
		len(result.Records), result.ServiceTypeMatches, result.ServiceHasStarted, result.ServiceHasEnded, result.ServicePersonMatches)

	if result.Justified() {
		trail.Infof("Service record found for the scheduled window. Skipping alarm.")
		return skip(a.ID, SkipJustified, trail)
	}

	summary := e.dispatcher.Dispatch(ctx, a, result.FailingReasons(), result.Records, w, trail)
	return Outcome{AlarmID: a.ID, Triggered: true, Summary: summary, Trail: trail}
}

// pastDue gates on the enabled bounds: the start bound when the start
// sub-alarm is enabled, otherwise the end bound.
func pastDue(now time.Time, w Window) bool {
	if w.StartUTC != nil {
		return !now.Before(*w.StartUTC)
	}
	if w.EndUTC != nil {
		return !now.Before(*w.EndUTC)
	}
	return false
}

func skip(alarmID uint, reason string, trail *Trail) Outcome {
	return Outcome{AlarmID: alarmID, SkipReason: reason, Trail: trail}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "disabled"
	}
	return t.Format(time.RFC3339)
}
