package alarm

import (
	"context"
	"time"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
	"github.com/firedock/reportrack-backend/internal/datastore/repository"
)

// MatchResult is the matcher's verdict for one alarm window. The started
// and ended flags are true automatically when the corresponding sub-alarm
// is disabled; person matching is true automatically when the alarm has
// no expected service person.
type MatchResult struct {
	Records              []entities.ServiceRecord
	ServiceTypeMatches   bool
	ServiceHasStarted    bool
	ServiceHasEnded      bool
	ServicePersonMatches bool
}

// Justified reports whether the window was satisfied: correct service
// type, a visit that started or ended in the window, and the expected
// person (when configured). A justified window must not trigger.
func (r MatchResult) Justified() bool {
	return r.ServiceTypeMatches && (r.ServiceHasStarted || r.ServiceHasEnded) && r.ServicePersonMatches
}

// FailingReasons lists the failed conjuncts of the justification rule,
// one independently logged reason each.
func (r MatchResult) FailingReasons() []string {
	var reasons []string
	if !r.ServiceTypeMatches {
		reasons = append(reasons, ReasonWrongServiceType)
	}
	if !r.ServiceHasStarted && !r.ServiceHasEnded {
		reasons = append(reasons, ReasonNoServiceVisit)
	}
	if !r.ServicePersonMatches {
		reasons = append(reasons, ReasonWrongServicePerson)
	}
	return reasons
}

// Matcher queries service records and evaluates an alarm's window
// against them.
type Matcher struct {
	records repository.ServiceRecordRepository
}

// NewMatcher creates a Matcher over the given record store.
func NewMatcher(records repository.ServiceRecordRepository) *Matcher {
	return &Matcher{records: records}
}

// Match fetches the property's records inside the window and evaluates
// the justification flags. The caller guarantees a non-nil property.
func (m *Matcher) Match(ctx context.Context, a *entities.Alarm, w Window) (MatchResult, error) {
	records, err := m.records.FindInWindow(ctx, *a.PropertyID, repository.RecordWindow{
		DayStartUTC: w.DayStartUTC,
		StartUTC:    w.StartUTC,
		EndUTC:      w.EndUTC,
	})
	if err != nil {
		return MatchResult{}, err
	}
	return evaluateRecords(a, w, records), nil
}

// evaluateRecords applies the justification flags to a record set.
func evaluateRecords(a *entities.Alarm, w Window, records []entities.ServiceRecord) MatchResult {
	result := MatchResult{
		Records:              records,
		ServiceTypeMatches:   a.ServiceTypeID == nil,
		ServiceHasStarted:    w.StartUTC == nil,
		ServiceHasEnded:      w.EndUTC == nil,
		ServicePersonMatches: a.ServicePersonID == nil,
	}

	for i := range records {
		rec := &records[i]
		if a.ServiceTypeID != nil && rec.ServiceTypeID != nil && *rec.ServiceTypeID == *a.ServiceTypeID {
			result.ServiceTypeMatches = true
		}
		if w.StartUTC != nil && within(rec.StartDateTime, w.DayStartUTC, *w.StartUTC) {
			result.ServiceHasStarted = true
		}
		if w.EndUTC != nil && rec.EndDateTime != nil && within(*rec.EndDateTime, w.DayStartUTC, *w.EndUTC) {
			result.ServiceHasEnded = true
		}
		if a.ServicePersonID != nil && rec.AssignedToID != nil && *rec.AssignedToID == *a.ServicePersonID {
			result.ServicePersonMatches = true
		}
	}
	return result
}

// within reports lo <= t <= hi.
func within(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}
