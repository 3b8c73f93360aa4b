package alarm

import (
	"context"
	"time"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
	"github.com/firedock/reportrack-backend/internal/datastore/repository"
	"github.com/firedock/reportrack-backend/internal/notify"
)

// fixedClock returns a Clock pinned to t.
func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type fakeRecordRepo struct {
	records     []entities.ServiceRecord
	err         error
	panicOnFind bool

	gotPropertyID uint
	gotWindow     repository.RecordWindow
	calls         int
}

func (f *fakeRecordRepo) FindInWindow(_ context.Context, propertyID uint, window repository.RecordWindow) ([]entities.ServiceRecord, error) {
	f.calls++
	f.gotPropertyID = propertyID
	f.gotWindow = window
	if f.panicOnFind {
		panic("record store exploded")
	}
	return f.records, f.err
}

type fakeUserRepo struct {
	users []entities.User
	err   error

	gotPropertyID uint
	gotRole       entities.Role
}

func (f *fakeUserRepo) ListPropertyUsersByRole(_ context.Context, propertyID uint, role entities.Role) ([]entities.User, error) {
	f.gotPropertyID = propertyID
	f.gotRole = role
	return f.users, f.err
}

type fakeEmailLogRepo struct {
	rows []entities.EmailLog
	err  error
}

func (f *fakeEmailLogRepo) Create(_ context.Context, log *entities.EmailLog) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *log)
	return nil
}

type markCall struct {
	id          uint
	notifiedAt  time.Time
	dayStartUTC time.Time
}

type fakeAlarmRepo struct {
	alarms  []entities.Alarm
	listErr error

	markCalls   []markCall
	markClaimed bool
	markErr     error
}

func newFakeAlarmRepo() *fakeAlarmRepo {
	return &fakeAlarmRepo{markClaimed: true}
}

func (f *fakeAlarmRepo) ListActive(context.Context) ([]entities.Alarm, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.alarms, nil
}

func (f *fakeAlarmRepo) Get(_ context.Context, id uint) (*entities.Alarm, error) {
	for i := range f.alarms {
		if f.alarms[i].ID == id {
			return &f.alarms[i], nil
		}
	}
	return nil, repository.ErrAlarmNotFound
}

func (f *fakeAlarmRepo) MarkNotified(_ context.Context, id uint, notifiedAt, dayStartUTC time.Time) (bool, error) {
	f.markCalls = append(f.markCalls, markCall{id: id, notifiedAt: notifiedAt, dayStartUTC: dayStartUTC})
	if f.markErr != nil {
		return false, f.markErr
	}
	return f.markClaimed, nil
}

func (f *fakeAlarmRepo) ResetNotified(_ context.Context, ids []uint) (int64, error) {
	return int64(len(ids)), nil
}

func (f *fakeAlarmRepo) Count(context.Context, *bool) (int64, error) {
	return int64(len(f.alarms)), nil
}

type fakeRunRepo struct {
	runs []entities.AlarmLog
	err  error
}

func (f *fakeRunRepo) CreateRun(_ context.Context, run *entities.AlarmLog) error {
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeRunRepo) ListRecent(context.Context, int) ([]entities.AlarmLog, error) {
	return f.runs, nil
}

// fakeSender records messages and fails for addresses listed in failFor.
type fakeSender struct {
	sent    []notify.Message
	failFor map[string]error
}

func (f *fakeSender) Send(msg notify.Message) error {
	if err, ok := f.failFor[msg.To]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func uintPtr(v uint) *uint { return &v }

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func timePtr(t time.Time) *time.Time { return &t }
