// Package alarm implements the alarm evaluation and notification engine:
// once per scheduler tick the batch runner walks every active alarm,
// decides whether the property's expected service window was satisfied by
// actual service records, and fires a deduplicated, role-scoped
// notification when it was not.
package alarm

// Skip reasons, in evaluation order. The first matching condition ends
// the alarm's evaluation for this pass.
const (
	SkipBothDisabled    = "both sub-alarms disabled"
	SkipNotScheduled    = "not scheduled today"
	SkipAlreadyNotified = "already notified today"
	SkipNoProperty      = "no property assigned"
	SkipInvalidSchedule = "invalid schedule"
	SkipNotPastDue      = "not past due"
	SkipJustified       = "service record found"
	SkipQueryFailed     = "service record query failed"
	SkipPanicked        = "evaluation panicked"
)

// Trigger reasons: the conjuncts of the justification rule that failed.
// The dispatcher includes them in the notification body.
const (
	ReasonWrongServiceType   = "no service record matches the expected service type"
	ReasonNoServiceVisit     = "no service visit started or ended within the expected window"
	ReasonWrongServicePerson = "no service record matches the expected service person"
)

// emailTrigger identifies alarm notifications in the email audit trail.
const emailTrigger = "alarm"
