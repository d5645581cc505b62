package email

import (
	"fmt"
	"html"
	"time"
)

const layout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a1a;">
<div style="max-width: 560px; margin: 0 auto; padding: 24px;">
%s
<p style="color: #9a9a9a; font-size: 12px; margin-top: 32px;">Voicedesk — AI call answering</p>
</div>
</body>
</html>`

func renderVerification(verifyURL string) string {
	body := fmt.Sprintf(`<h2>Confirm your email</h2>
<p>Thanks for signing up. Click the button below to verify your email address.</p>
<p><a href="%s" style="background:#2563eb;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none;">Verify email</a></p>
<p>If you did not create an account, you can ignore this message.</p>`,
		html.EscapeString(verifyURL))
	return fmt.Sprintf(layout, body)
}

func renderHandoffAlert(businessName, callID, summary string) string {
	if summary == "" {
		summary = "The caller asked to speak with a person."
	}
	body := fmt.Sprintf(`<h2>A caller needs a human follow-up</h2>
<p>Your AI agent flagged call <strong>%s</strong> for %s as needing a callback.</p>
<blockquote style="border-left:3px solid #e5e7eb;padding-left:12px;color:#4b5563;">%s</blockquote>
<p>Open the Need Attention page in your dashboard to close the loop.</p>`,
		html.EscapeString(callID), html.EscapeString(businessName), html.EscapeString(summary))
	return fmt.Sprintf(layout, body)
}

func renderAppointmentReminder(customerName, customerPhone string, startsAt time.Time) string {
	body := fmt.Sprintf(`<h2>Appointment reminder</h2>
<p><strong>%s</strong> (%s) is booked for <strong>%s</strong>.</p>`,
		html.EscapeString(customerName), html.EscapeString(customerPhone),
		startsAt.Format("Mon, 2 Jan 2006 15:04 MST"))
	return fmt.Sprintf(layout, body)
}
