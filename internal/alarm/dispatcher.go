package alarm

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
	"github.com/firedock/reportrack-backend/internal/datastore/repository"
	"github.com/firedock/reportrack-backend/internal/logger"
	"github.com/firedock/reportrack-backend/internal/notify"
	"github.com/firedock/reportrack-backend/internal/observability/metrics"
)

// DispatchSummary reports what happened to one triggered alarm's
// notification fan-out.
type DispatchSummary struct {
	Total     int
	Attempted int
	Sent      int
	Failed    int
	Skipped   int
	Marked    bool
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// From is the sender address written into email and audit rows.
	From string
	// SendEnabled gates the sink call (SEND_EMAIL_ALERTS). When false
	// the dispatcher resolves recipients and logs but never sends.
	SendEnabled bool
	// Clock overrides time.Now for tests.
	Clock Clock
	// Log receives operational logging; nil means no logging.
	Log *zap.Logger
}

// Dispatcher resolves the recipient set for a triggered alarm, sends
// through the mail sink with per-recipient failure containment, writes
// the email audit trail, and advances the alarm's notified state.
type Dispatcher struct {
	users  repository.UserRepository
	emails repository.EmailLogRepository
	alarms repository.AlarmRepository
	sender notify.Sender
	opts   DispatcherOptions
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	users repository.UserRepository,
	emails repository.EmailLogRepository,
	alarms repository.AlarmRepository,
	sender notify.Sender,
	opts DispatcherOptions,
) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.From == "" {
		opts.From = "noreply@reportrack.com"
	}
	return &Dispatcher{users: users, emails: emails, alarms: alarms, sender: sender, opts: opts}
}

// Dispatch notifies the alarm's recipients and marks the alarm notified.
// Recipient resolution failure is treated as zero recipients; individual
// send failures never stop the remaining recipients; and the notified
// timestamp is advanced exactly once regardless of delivery outcomes, so
// a transient outage cannot cause a same-day re-trigger storm.
func (d *Dispatcher) Dispatch(ctx context.Context, a *entities.Alarm, reasons []string, records []entities.ServiceRecord, w Window, trail *Trail) DispatchSummary {
	var summary DispatchSummary

	role := entities.NotifyRole(a.CreatedByRole)
	trail.Infof("Alarm triggered. Notifying role %q for property ID %d.", role, *a.PropertyID)
	for _, reason := range reasons {
		trail.Infof("Trigger reason: %s", reason)
	}

	recipients := d.resolveRecipients(ctx, a, role, trail)
	summary.Total = len(recipients)

	msg, renderErr := d.buildMessage(a, reasons, records)
	if renderErr != nil {
		trail.Errorf("Failed to render notification body: %v", renderErr)
	}

	for i := range recipients {
		user := &recipients[i]
		switch {
		case !user.WantsAlarmNotifications():
			summary.Skipped++
			trail.Infof("Skipping user %s: opted out of alarm notifications.", user.Username)
		case user.Email == "":
			summary.Skipped++
			trail.Infof("Skipping user %s: no email address.", user.Username)
		case !d.opts.SendEnabled:
			summary.Skipped++
			trail.Infof("Email alerts disabled; would send to %s.", user.Email)
		case renderErr != nil:
			summary.Failed++
			trail.Errorf("Not sending to %s: notification body unavailable.", user.Email)
		default:
			summary.Attempted++
			if d.sendOne(ctx, a, msg, user.Email, reasons, trail) {
				summary.Sent++
			} else {
				summary.Failed++
			}
		}
	}

	trail.Infof("Notification summary: %d recipients, %d attempted, %d sent, %d failed, %d skipped.",
		summary.Total, summary.Attempted, summary.Sent, summary.Failed, summary.Skipped)

	now := d.opts.Clock().UTC()
	claimed, err := d.alarms.MarkNotified(ctx, a.ID, now, w.DayStartUTC)
	if err != nil {
		trail.Errorf("Failed to update notified timestamp: %v", err)
		d.opts.Log.Error("failed to mark alarm notified",
			zap.Uint(logger.FieldAlarmID, a.ID), zap.Error(err))
	} else if !claimed {
		trail.Infof("Notified timestamp already advanced by a concurrent pass.")
	} else {
		trail.Infof("Notified timestamp set to %s.", now.Format(time.RFC3339))
	}
	summary.Marked = claimed

	metrics.AlarmTriggered()
	return summary
}

// resolveRecipients fetches and returns the candidate users. A store
// failure here is contained: logged, zero recipients, dispatch continues
// so the notified update still happens.
func (d *Dispatcher) resolveRecipients(ctx context.Context, a *entities.Alarm, role entities.Role, trail *Trail) []entities.User {
	recipients, err := d.users.ListPropertyUsersByRole(ctx, *a.PropertyID, role)
	if err != nil {
		trail.Errorf("Failed to resolve recipients: %v. Treating as zero recipients.", err)
		d.opts.Log.Error("recipient resolution failed",
			zap.Uint(logger.FieldAlarmID, a.ID),
			zap.Uint(logger.FieldProperty, *a.PropertyID),
			zap.Error(err))
		return nil
	}
	trail.Infof("Found %d candidate recipients with role %q.", len(recipients), role)
	return recipients
}

func (d *Dispatcher) buildMessage(a *entities.Alarm, reasons []string, records []entities.ServiceRecord) (notify.Message, error) {
	email := notify.AlarmEmail{
		AlarmID: a.ID,
		Date:    d.opts.Clock().UTC().Format("2006-01-02"),
		Reasons: reasons,
	}
	if a.Property != nil {
		email.PropertyName = a.Property.Name
	}
	if a.Customer != nil {
		email.CustomerName = a.Customer.Name
	}
	if a.ServiceType != nil {
		email.ServiceType = a.ServiceType.Name
	}
	for i := range records {
		email.Records = append(email.Records, notify.RecordSummary{
			ID:      records[i].ID,
			Started: records[i].StartDateTime,
			Ended:   records[i].EndDateTime,
		})
	}

	html, err := email.Render()
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		From:    d.opts.From,
		Subject: email.Subject(),
		HTML:    html,
	}, nil
}

// sendOne attempts delivery to a single recipient and writes the audit
// row. Returns whether the send succeeded. Never returns an error: a
// failed recipient must not stop the rest.
func (d *Dispatcher) sendOne(ctx context.Context, a *entities.Alarm, msg notify.Message, to string, reasons []string, trail *Trail) bool {
	msg.To = to
	started := time.Now()
	sendErr := d.sender.Send(msg)
	delivery := time.Since(started)

	row := &entities.EmailLog{
		To:              to,
		From:            msg.From,
		Subject:         msg.Subject,
		Trigger:         emailTrigger,
		TriggerDetails:  triggerDetails(a.ID, reasons),
		SentAt:          d.opts.Clock().UTC(),
		DeliveryTimeMS:  delivery.Milliseconds(),
		RelatedEntity:   entities.Alarm{}.TableName(),
		RelatedEntityID: a.ID,
	}

	if sendErr != nil {
		row.Status = entities.EmailStatusFailed
		row.Error = sendErr.Error()
		trail.Errorf("Failed to send to %s: %v", to, sendErr)
		metrics.EmailSend(entities.EmailStatusFailed)
	} else {
		row.Status = entities.EmailStatusSuccess
		trail.Infof("Sent to %s in %dms.", to, delivery.Milliseconds())
		metrics.EmailSend(entities.EmailStatusSuccess)
	}

	// Audit write failures must never break the send loop.
	if err := d.emails.Create(ctx, row); err != nil {
		trail.Errorf("Failed to write email log for %s: %v", to, err)
		d.opts.Log.Error("failed to write email log",
			zap.Uint(logger.FieldAlarmID, a.ID),
			zap.String(logger.FieldRecipient, to),
			zap.Error(err))
	}

	return sendErr == nil
}

func triggerDetails(alarmID uint, reasons []string) string {
	details, err := json.Marshal(map[string]any{
		"alarm_id": alarmID,
		"reasons":  reasons,
	})
	if err != nil {
		return ""
	}
	return string(details)
}
