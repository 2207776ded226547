// internal/app/system/mailer/inquiry.go
package mailer

import (
	"context"
	"html/template"
	"strings"

	"github.com/dalemusser/wavesite/internal/domain/models"
	"go.uber.org/zap"
)

var inquiryHTML = template.Must(template.New("inquiry").Parse(`<p>New inquiry from <strong>{{.Name}}</strong> &lt;{{.Email}}&gt;</p>
<p><strong>{{.Subject}}</strong></p>
{{if .PreferredDate}}<p>Preferred date: {{.PreferredDate}}</p>{{end}}
<p style="white-space:pre-wrap">{{.Message}}</p>
<p style="color:#888">Received {{.Date}} &middot; {{.ID}}</p>`))

// InquiryEmail renders the notice sent to the site owner for a new inquiry.
// Replies go straight to the visitor.
func InquiryEmail(to string, inq models.Inquiry) Email {
	var text strings.Builder
	text.WriteString("New inquiry from " + inq.Name + " <" + inq.Email + ">\n\n")
	text.WriteString(inq.Subject + "\n\n")
	if inq.PreferredDate != "" {
		text.WriteString("Preferred date: " + inq.PreferredDate + "\n\n")
	}
	text.WriteString(inq.Message + "\n\n")
	text.WriteString("Received " + inq.Date + " (" + inq.ID + ")")

	var html strings.Builder
	if err := inquiryHTML.Execute(&html, inq); err != nil {
		html.Reset()
	}

	return Email{
		To:       to,
		ReplyTo:  inq.Email,
		Subject:  "[Inquiry] " + inq.Subject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}
}

// InquiryNotifier emails each new inquiry to the site owner. recipient is
// asked per inquiry so a changed contact email takes effect at once; an
// empty recipient skips the notice.
func (m *Mailer) InquiryNotifier(recipient func(context.Context) string) func(context.Context, models.Inquiry) {
	return func(ctx context.Context, inq models.Inquiry) {
		if !m.Enabled() {
			return
		}
		to := recipient(ctx)
		if to == "" {
			m.log.Debug("no recipient for inquiry notice", zap.String("id", inq.ID))
			return
		}
		// Send already logs failures.
		_ = m.Send(InquiryEmail(to, inq))
	}
}
