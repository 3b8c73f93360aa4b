package alarm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// mondayEvening is 2025-06-02 18:00 UTC, a Monday, well past the test
// alarm's end bound.
var mondayEvening = time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)

// testAlarm returns an alarm that, evaluated at mondayEvening with no
// service records, triggers.
func testAlarm() entities.Alarm {
	return entities.Alarm{
		ID:             1,
		PropertyID:     uintPtr(7),
		Property:       &entities.Property{ID: 7, Name: "Harbor Plaza"},
		StartTime:      "08:00:00",
		EndTime:        "16:00:00",
		StartTimeDelay: intPtr(0),
		EndTimeDelay:   intPtr(0),
		Timezone:       "UTC",
		DaysOfWeek:     entities.WeekdaySet{"Monday"},
		Active:         true,
		CreatedByRole:  entities.RoleAdmin,
	}
}

type evaluatorFixture struct {
	records   *fakeRecordRepo
	users     *fakeUserRepo
	emails    *fakeEmailLogRepo
	alarms    *fakeAlarmRepo
	sender    *fakeSender
	evaluator *Evaluator
}

func newEvaluatorFixture(now time.Time) *evaluatorFixture {
	f := &evaluatorFixture{
		records: &fakeRecordRepo{},
		users:   &fakeUserRepo{},
		emails:  &fakeEmailLogRepo{},
		alarms:  newFakeAlarmRepo(),
		sender:  &fakeSender{},
	}
	dispatcher := NewDispatcher(f.users, f.emails, f.alarms, f.sender, DispatcherOptions{
		SendEnabled: true,
		Clock:       fixedClock(now),
	})
	f.evaluator = NewEvaluator(NewMatcher(f.records), dispatcher, fixedClock(now))
	return f
}

func TestEvaluate_BothSubAlarmsDisabled(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()
	a.StartAlarmDisabled = true
	a.EndAlarmDisabled = true

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.False(t, outcome.Triggered)
	assert.Equal(t, SkipBothDisabled, outcome.SkipReason)
	assert.Zero(t, f.records.calls, "matcher must not run for a fully disabled alarm")
}

func TestEvaluate_NotScheduledToday(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()
	a.DaysOfWeek = entities.WeekdaySet{"Tuesday", "Friday"}

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipNotScheduled, outcome.SkipReason)
}

func TestEvaluate_WeekdayComputedInAlarmTimezone(t *testing.T) {
	// 02:00 UTC Tuesday is still Monday evening in Los Angeles.
	now := time.Date(2025, 6, 3, 2, 0, 0, 0, time.UTC)
	f := newEvaluatorFixture(now)
	a := testAlarm()
	a.Timezone = "America/Los_Angeles"

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.True(t, outcome.Triggered, "Monday alarm must match local Monday")
}

func TestEvaluate_AlreadyNotifiedToday(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()
	a.Notified = timePtr(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipAlreadyNotified, outcome.SkipReason)
	assert.Empty(t, f.alarms.markCalls)
}

func TestEvaluate_NotifiedYesterdayTriggersAgain(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()
	a.Notified = timePtr(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.True(t, outcome.Triggered)
}

func TestEvaluate_AlreadyNotifiedComparesInAlarmTimezone(t *testing.T) {
	// Notified at 05:00 UTC "today" is still the previous local day in
	// Los Angeles, so the alarm remains eligible.
	now := time.Date(2025, 6, 3, 2, 0, 0, 0, time.UTC) // Monday evening local
	f := newEvaluatorFixture(now)
	a := testAlarm()
	a.Timezone = "America/Los_Angeles"
	a.Notified = timePtr(time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)) // Sunday 22:00 local

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.True(t, outcome.Triggered)
}

func TestEvaluate_NoProperty(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()
	a.PropertyID = nil

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipNoProperty, outcome.SkipReason)
	assert.True(t, outcome.Trail.HasError())
}

func TestEvaluate_InvalidTimezone(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()
	a.Timezone = "Nowhere/Invalid"

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipInvalidSchedule, outcome.SkipReason)
}

func TestEvaluate_MalformedStartTime(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()
	a.StartTime = "banana"

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipInvalidSchedule, outcome.SkipReason)
}

func TestEvaluate_NotPastDue(t *testing.T) {
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC) // before the 08:00 start
	f := newEvaluatorFixture(now)
	a := testAlarm()

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipNotPastDue, outcome.SkipReason)
	assert.Zero(t, f.records.calls, "no record query before the window is due")
}

func TestEvaluate_PastDueAtExactBound(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	f := newEvaluatorFixture(now)
	a := testAlarm()

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.True(t, outcome.Triggered, "now equal to the bound is past due")
}

func TestEvaluate_StartDisabledGatesOnEndBound(t *testing.T) {
	f := newEvaluatorFixture(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	a := testAlarm()
	a.StartAlarmDisabled = true // end bound is 16:00, now is noon

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipNotPastDue, outcome.SkipReason)
}

func TestEvaluate_RecordQueryFailure(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	f.records.err = errors.New("connection refused")
	a := testAlarm()

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipQueryFailed, outcome.SkipReason)
	assert.True(t, outcome.Trail.HasError())
	assert.Empty(t, f.alarms.markCalls, "a failed query must not advance notified")
}

func TestEvaluate_JustifiedWindow(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	f.records.records = []entities.ServiceRecord{{
		ID:            42,
		StartDateTime: time.Date(2025, 6, 2, 8, 5, 0, 0, time.UTC),
	}}
	a := testAlarm()

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	assert.Equal(t, SkipJustified, outcome.SkipReason)
	assert.False(t, outcome.Triggered)
	assert.Empty(t, f.sender.sent)
	assert.Empty(t, f.alarms.markCalls)
}

func TestEvaluate_TriggerInvokesDispatch(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	f.users.users = []entities.User{{ID: 1, Username: "ops", Email: "ops@example.com", Role: entities.RoleSubscriber}}
	a := testAlarm()

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	require.True(t, outcome.Triggered)
	assert.Equal(t, 1, outcome.Summary.Sent)
	require.Len(t, f.alarms.markCalls, 1)
	assert.Equal(t, a.ID, f.alarms.markCalls[0].id)
	assert.Equal(t, mondayEvening, f.alarms.markCalls[0].notifiedAt)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), f.alarms.markCalls[0].dayStartUTC)
}

func TestEvaluate_TrailHasLinesForEveryStep(t *testing.T) {
	f := newEvaluatorFixture(mondayEvening)
	a := testAlarm()

	outcome := f.evaluator.Evaluate(t.Context(), &a)
	lines := outcome.Trail.Render()
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, "Alarm ID 1", "every trail line is attributed to the alarm")
	}
}
