package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// RecordSummary is one contextual service record shown in the email body.
type RecordSummary struct {
	ID      uint
	Started time.Time
	Ended   *time.Time
}

// AlarmEmail is the data rendered into an alarm notification.
type AlarmEmail struct {
	AlarmID      uint
	PropertyName string
	CustomerName string
	ServiceType  string
	Date         string
	Reasons      []string
	Records      []RecordSummary
}

var alarmBodyTmpl = template.Must(template.New("alarm_email").Parse(`<html>
<body>
<h2>Service alarm for {{.PropertyName}}</h2>
<p>The expected service window for <strong>{{.PropertyName}}</strong> (Customer: {{.CustomerName}}) was not satisfied on {{.Date}}.</p>
{{if .ServiceType}}<p>Expected service: {{.ServiceType}}</p>{{end}}
<ul>
{{range .Reasons}}<li>{{.}}</li>
{{end}}</ul>
{{if .Records}}<p>Service records found for the day:</p>
<ul>
{{range .Records}}<li>Record #{{.ID}}: started {{.Started.Format "2006-01-02 15:04 MST"}}{{if .Ended}}, ended {{.Ended.Format "2006-01-02 15:04 MST"}}{{else}}, still in progress{{end}}</li>
{{end}}</ul>
{{else}}<p>No service records were found for the day.</p>
{{end}}<p>Alarm ID: {{.AlarmID}}</p>
</body>
</html>
`))

// Subject returns the email subject line for the alarm.
func (e AlarmEmail) Subject() string {
	return fmt.Sprintf("Service Alarm: %s", e.PropertyName)
}

// Render produces the HTML body.
func (e AlarmEmail) Render() (string, error) {
	if e.CustomerName == "" {
		e.CustomerName = "N/A"
	}
	var buf bytes.Buffer
	if err := alarmBodyTmpl.Execute(&buf, e); err != nil {
		return "", fmt.Errorf("failed to render alarm email: %w", err)
	}
	return buf.String(), nil
}
