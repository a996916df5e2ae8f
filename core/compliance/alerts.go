package compliance

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/accredhub/abet/core"
)

// Alerter emails the configured compliance staff when a KPI reading comes
// out critical. Sending is fire and forget: a failed alert is the email
// service's problem, never the metric computation's.
type Alerter struct {
	mailSvc    core.EmailService
	recipients []mail.Address
	appName    string
}

func NewAlerter(conf *core.Config, mailSvc core.EmailService) *Alerter {
	recipients := make([]mail.Address, 0, len(conf.ComplianceAlertEmails))
	for _, addr := range conf.ComplianceAlertEmails {
		recipients = append(recipients, mail.Address{Address: addr})
	}
	return &Alerter{
		mailSvc:    mailSvc,
		recipients: recipients,
		appName:    conf.AppName,
	}
}

// AlertCritical emails a digest of the report's critical KPIs, if any.
func (al *Alerter) AlertCritical(report MetricsReport) {
	if len(al.recipients) == 0 {
		return
	}
	var critical []Metric
	for _, m := range report.Metrics() {
		if m.Status == StatusCritical {
			critical = append(critical, m)
		}
	}
	if len(critical) == 0 {
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Compliance readings for %s fell to critical:\n\n", report.AcademicYear)
	for _, m := range critical {
		fmt.Fprintf(&body, "- %s: %.1f%% (%d/%d, target %s)\n", m.Name, m.Percentage, m.Current, m.Total, m.Target)
	}
	body.WriteString("\nReview the compliance dashboard for details.\n")

	al.mailSvc.SendMessages(&core.EmailMessage{
		To:          al.recipients,
		Subject:     fmt.Sprintf("[%s] Critical compliance alert - %s", al.appName, report.AcademicYear),
		TextContent: body.String(),
	})
}
