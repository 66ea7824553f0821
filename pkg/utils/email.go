package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	adminEmail    = os.Getenv("ADMIN_EMAIL")
	companyName   = "PrimeTaxi & Tours"
)

// BookingEmailData is the booking snapshot used to render notification
// emails. It is captured at dispatch time so later edits to the booking
// do not change what the customer was told.
type BookingEmailData struct {
	BookingNumber   string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Type            string
	PickupDate      time.Time
	PickupTime      string
	PickupLocation  string
	DropoffLocation string
	Passengers      int
	TotalPrice      float64
	Currency        string
	SpecialRequests string
	TourName        string
}

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
		<div style="text-align: center; margin-bottom: 30px; background-color: #1e293b; padding: 20px;">
			<h2 style="color: #facc15; margin: 0;">PrimeTaxi &amp; Tours</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 PrimeTaxi &amp; Tours. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "PrimeTaxi-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

func formatPrice(amount float64, currency string) string {
	if currency == "ISK" {
		return fmt.Sprintf("%.0f ISK", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func bookingTypeLabel(t string) string {
	switch t {
	case "TAXI":
		return "Taxi Service"
	case "AIRPORT_TRANSFER":
		return "Airport Transfer"
	case "PRIVATE_TOUR":
		return "Private Tour"
	case "CUSTOM_TOUR":
		return "Custom Tour"
	}
	return t
}

func bookingDetailsTable(data BookingEmailData) string {
	service := bookingTypeLabel(data.Type)
	if data.TourName != "" {
		service += " - " + data.TourName
	}

	rows := fmt.Sprintf(`
					<tr><td style="padding: 8px 0; color: #64748b;">Booking Number:</td><td style="padding: 8px 0; font-weight: bold;">%s</td></tr>
					<tr><td style="padding: 8px 0; color: #64748b;">Service:</td><td style="padding: 8px 0;">%s</td></tr>
					<tr><td style="padding: 8px 0; color: #64748b;">Date:</td><td style="padding: 8px 0;">%s</td></tr>
					<tr><td style="padding: 8px 0; color: #64748b;">Pickup Time:</td><td style="padding: 8px 0;">%s</td></tr>
					<tr><td style="padding: 8px 0; color: #64748b;">Pickup Location:</td><td style="padding: 8px 0;">%s</td></tr>`,
		data.BookingNumber, service, data.PickupDate.Format("Monday, 2 January 2006"),
		data.PickupTime, data.PickupLocation)

	if data.DropoffLocation != "" {
		rows += fmt.Sprintf(`
					<tr><td style="padding: 8px 0; color: #64748b;">Drop-off Location:</td><td style="padding: 8px 0;">%s</td></tr>`,
			data.DropoffLocation)
	}

	rows += fmt.Sprintf(`
					<tr><td style="padding: 8px 0; color: #64748b;">Passengers:</td><td style="padding: 8px 0;">%d</td></tr>
					<tr style="border-top: 1px solid #e2e8f0;"><td style="padding: 12px 0 8px; color: #64748b;">Total Amount:</td><td style="padding: 12px 0 8px; font-weight: bold; color: #16a34a;">%s</td></tr>`,
		data.Passengers, formatPrice(data.TotalPrice, data.Currency))

	return fmt.Sprintf(`
				<div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #facc15;">
					<h2 style="color: #1e293b; margin-top: 0; font-size: 18px;">Booking Details</h2>
					<table style="width: 100%%; border-collapse: collapse;">%s
					</table>
				</div>`, rows)
}

// SendBookingConfirmation sends the reservation confirmation to the customer.
func SendBookingConfirmation(data BookingEmailData) error {
	subject := fmt.Sprintf("Booking Confirmation %s - PrimeTaxi & Tours", data.BookingNumber)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking Confirmed</h1>
					<p>Dear <strong>%s</strong>,</p>
					<p>Thank you for booking with PrimeTaxi &amp; Tours! Your reservation has been confirmed.</p>
					%s
					<p>Your driver will arrive at the pickup location at the scheduled time. Look for a vehicle with "PrimeTaxi &amp; Tours" signage.</p>
					<p>Best regards,<br>The PrimeTaxi &amp; Tours Team</p>
				</div>`+emailFooter,
		data.CustomerName, bookingDetailsTable(data))

	return sendEmail([]string{data.CustomerEmail}, subject, body)
}

// SendPaymentConfirmation sends the payment receipt to the customer.
func SendPaymentConfirmation(data BookingEmailData) error {
	subject := fmt.Sprintf("Payment Received %s - PrimeTaxi & Tours", data.BookingNumber)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Payment Received</h1>
					<p>Dear <strong>%s</strong>,</p>
					<p>We have received your payment of <strong>%s</strong> for booking <strong>%s</strong>.</p>
					<p>This email serves as your receipt. No further action is required.</p>
					<p>Best regards,<br>The PrimeTaxi &amp; Tours Team</p>
				</div>`+emailFooter,
		data.CustomerName, formatPrice(data.TotalPrice, data.Currency), data.BookingNumber)

	return sendEmail([]string{data.CustomerEmail}, subject, body)
}

// SendAdminBookingNotification tells the back office about a newly paid booking.
func SendAdminBookingNotification(data BookingEmailData) error {
	if adminEmail == "" {
		return fmt.Errorf("admin email not configured")
	}

	special := ""
	if data.SpecialRequests != "" {
		special = fmt.Sprintf(`
					<div style="background: #fefce8; padding: 15px; border-radius: 8px; margin: 20px 0;">
						<strong style="color: #854d0e;">Special Requests:</strong>
						<p style="margin: 5px 0 0 0;">%s</p>
					</div>`, data.SpecialRequests)
	}

	subject := fmt.Sprintf("New Paid Booking %s", data.BookingNumber)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">New Booking</h1>
					<p>A new booking has been paid and confirmed.</p>
					%s
					<p>Customer: %s &lt;%s&gt;, phone %s</p>
					%s
					<p>Assign a driver and vehicle from the admin dashboard.</p>
				</div>`+emailFooter,
		bookingDetailsTable(data), data.CustomerName, data.CustomerEmail, data.CustomerPhone, special)

	return sendEmail([]string{adminEmail}, subject, body)
}

// SendContactAcknowledgement thanks a visitor for a contact-form message.
func SendContactAcknowledgement(name, email, subject string) error {
	mailSubject := "We received your message - PrimeTaxi & Tours"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Thank You</h1>
					<p>Hello %s,</p>
					<p>We received your message regarding "<strong>%s</strong>" and will get back to you as soon as possible.</p>
					<p>Best regards,<br>The PrimeTaxi &amp; Tours Team</p>
				</div>`+emailFooter,
		name, subject)

	return sendEmail([]string{email}, mailSubject, body)
}
