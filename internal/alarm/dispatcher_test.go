package alarm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

type dispatcherFixture struct {
	users      *fakeUserRepo
	emails     *fakeEmailLogRepo
	alarms     *fakeAlarmRepo
	sender     *fakeSender
	dispatcher *Dispatcher
}

func newDispatcherFixture(opts DispatcherOptions) *dispatcherFixture {
	f := &dispatcherFixture{
		users:  &fakeUserRepo{},
		emails: &fakeEmailLogRepo{},
		alarms: newFakeAlarmRepo(),
		sender: &fakeSender{},
	}
	if opts.Clock == nil {
		opts.Clock = fixedClock(mondayEvening)
	}
	f.dispatcher = NewDispatcher(f.users, f.emails, f.alarms, f.sender, opts)
	return f
}

func (f *dispatcherFixture) dispatch(t *testing.T, a *entities.Alarm) DispatchSummary {
	t.Helper()
	trail := NewTrail(a.ID, fixedClock(mondayEvening))
	w := Window{DayStartUTC: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}
	return f.dispatcher.Dispatch(t.Context(), a, []string{ReasonNoServiceVisit}, nil, w, trail)
}

func recipient(id uint, email string) entities.User {
	return entities.User{ID: id, Username: email, Email: email, Role: entities.RoleSubscriber}
}

func TestDispatch_CustomerAlarmNotifiesCustomerRole(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: true})
	a := testAlarm()
	a.CreatedByRole = entities.RoleCustomer

	f.dispatch(t, &a)
	assert.Equal(t, entities.RoleCustomer, f.users.gotRole)
	assert.Equal(t, uint(7), f.users.gotPropertyID)
}

func TestDispatch_OtherRolesNotifySubscribers(t *testing.T) {
	for _, role := range []entities.Role{entities.RoleAdmin, entities.RoleServicePerson, entities.RoleSubscriber, ""} {
		f := newDispatcherFixture(DispatcherOptions{SendEnabled: true})
		a := testAlarm()
		a.CreatedByRole = role

		f.dispatch(t, &a)
		assert.Equal(t, entities.RoleSubscriber, f.users.gotRole, "creator role %q", role)
	}
}

func TestDispatch_OptOutAndMissingEmailSkipped(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: true})
	optedOut := recipient(1, "out@example.com")
	optedOut.ReceiveAlarmNotifications = boolPtr(false)
	noEmail := recipient(2, "")
	unset := recipient(3, "in@example.com") // unset opt-in flag means opted in
	f.users.users = []entities.User{optedOut, noEmail, unset}

	a := testAlarm()
	summary := f.dispatch(t, &a)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Sent)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "in@example.com", f.sender.sent[0].To)
}

func TestDispatch_SendFailureDoesNotStopRemaining(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: true})
	f.users.users = []entities.User{
		recipient(1, "first@example.com"),
		recipient(2, "second@example.com"),
	}
	f.sender.failFor = map[string]error{"first@example.com": errors.New("mailbox full")}

	a := testAlarm()
	summary := f.dispatch(t, &a)

	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "second@example.com", f.sender.sent[0].To)

	require.Len(t, f.emails.rows, 2, "one audit row per attempt")
	assert.Equal(t, entities.EmailStatusFailed, f.emails.rows[0].Status)
	assert.Equal(t, "mailbox full", f.emails.rows[0].Error)
	assert.Equal(t, entities.EmailStatusSuccess, f.emails.rows[1].Status)
	assert.Empty(t, f.emails.rows[1].Error)
}

func TestDispatch_AuditRowFields(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: true, From: "alerts@reportrack.com"})
	f.users.users = []entities.User{recipient(1, "ops@example.com")}

	a := testAlarm()
	f.dispatch(t, &a)

	require.Len(t, f.emails.rows, 1)
	row := f.emails.rows[0]
	assert.Equal(t, "ops@example.com", row.To)
	assert.Equal(t, "alerts@reportrack.com", row.From)
	assert.Equal(t, "Service Alarm: Harbor Plaza", row.Subject)
	assert.Equal(t, "alarm", row.Trigger)
	assert.Contains(t, row.TriggerDetails, `"alarm_id":1`)
	assert.Contains(t, row.TriggerDetails, ReasonNoServiceVisit)
	assert.Equal(t, "alarms", row.RelatedEntity)
	assert.Equal(t, uint(1), row.RelatedEntityID)
	assert.Equal(t, mondayEvening, row.SentAt)
}

func TestDispatch_SendDisabledSkipsButStillMarks(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: false})
	f.users.users = []entities.User{recipient(1, "ops@example.com")}

	a := testAlarm()
	summary := f.dispatch(t, &a)

	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Attempted)
	assert.Empty(t, f.sender.sent)
	assert.Empty(t, f.emails.rows, "no audit row when the sink is never called")
	require.Len(t, f.alarms.markCalls, 1)
	assert.True(t, summary.Marked)
}

func TestDispatch_RecipientResolutionFailureStillMarks(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: true})
	f.users.err = errors.New("users table locked")

	a := testAlarm()
	summary := f.dispatch(t, &a)

	assert.Zero(t, summary.Total)
	assert.Empty(t, f.sender.sent)
	require.Len(t, f.alarms.markCalls, 1, "notified must advance even with zero recipients")
}

func TestDispatch_MarkNotifiedLostRace(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: true})
	f.alarms.markClaimed = false

	a := testAlarm()
	summary := f.dispatch(t, &a)
	assert.False(t, summary.Marked)
}

func TestDispatch_AuditWriteFailureDoesNotStopSends(t *testing.T) {
	f := newDispatcherFixture(DispatcherOptions{SendEnabled: true})
	f.emails.err = errors.New("disk full")
	f.users.users = []entities.User{
		recipient(1, "first@example.com"),
		recipient(2, "second@example.com"),
	}

	a := testAlarm()
	summary := f.dispatch(t, &a)

	assert.Equal(t, 2, summary.Sent)
	assert.Len(t, f.sender.sent, 2)
}
