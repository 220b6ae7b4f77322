package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Fleet Manager"
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #2563EB; margin: 0;">Fleet Manager</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)
	return smtp.SendMail(addr, auth, emailFrom, to, []byte(message.String()))
}

// SendBookingStatusEmail mails a requester or approver about a booking
// status change.
func SendBookingStatusEmail(to, username, vehicleName, status string) error {
	subject := fmt.Sprintf("Booking %s", status)
	body := emailHeader + fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your booking for <strong>%s</strong> is now <strong>%s</strong>.</p>
		<p>Log in to Fleet Manager for details.</p>
	`, username, vehicleName, status) + emailFooter

	return sendEmail([]string{to}, subject, body)
}

// SendTripEventEmail mails about a trip start or end, including the odometer
// reading captured at the event.
func SendTripEventEmail(to, username, vehicleName, event string, odometer float64) error {
	subject := fmt.Sprintf("Trip %s: %s", event, vehicleName)
	body := emailHeader + fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>The trip on <strong>%s</strong> has %s.</p>
		<p>Odometer reading: <strong>%.1f km</strong></p>
	`, username, vehicleName, event, odometer) + emailFooter

	return sendEmail([]string{to}, subject, body)
}
