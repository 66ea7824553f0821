package services

import (
	"log"

	"github.com/primetaxi/backend/pkg/utils"
)

// Mailer sends the three notification emails tied to a paid booking.
type Mailer interface {
	SendBookingConfirmation(data utils.BookingEmailData) error
	SendPaymentConfirmation(data utils.BookingEmailData) error
	SendAdminBookingNotification(data utils.BookingEmailData) error
}

// NotificationDispatcher delivers booking notifications. Dispatch is
// best-effort: failures are logged, never propagated to the webhook
// response.
type NotificationDispatcher interface {
	DispatchBookingPaid(data utils.BookingEmailData)
}

type smtpMailer struct{}

// NewMailer returns the SMTP-backed Mailer.
func NewMailer() Mailer {
	return smtpMailer{}
}

func (smtpMailer) SendBookingConfirmation(data utils.BookingEmailData) error {
	return utils.SendBookingConfirmation(data)
}

func (smtpMailer) SendPaymentConfirmation(data utils.BookingEmailData) error {
	return utils.SendPaymentConfirmation(data)
}

func (smtpMailer) SendAdminBookingNotification(data utils.BookingEmailData) error {
	return utils.SendAdminBookingNotification(data)
}

type asyncDispatcher struct {
	mailer Mailer
}

// NewNotificationDispatcher returns a dispatcher that sends the three
// booking emails off the request path, so the webhook can acknowledge the
// gateway without waiting on SMTP.
func NewNotificationDispatcher(mailer Mailer) NotificationDispatcher {
	return &asyncDispatcher{mailer: mailer}
}

func (d *asyncDispatcher) DispatchBookingPaid(data utils.BookingEmailData) {
	go func() {
		if err := d.mailer.SendBookingConfirmation(data); err != nil {
			log.Printf("Failed to send booking confirmation for %s: %v", data.BookingNumber, err)
		}
		if err := d.mailer.SendPaymentConfirmation(data); err != nil {
			log.Printf("Failed to send payment confirmation for %s: %v", data.BookingNumber, err)
		}
		if err := d.mailer.SendAdminBookingNotification(data); err != nil {
			log.Printf("Failed to send admin notification for %s: %v", data.BookingNumber, err)
		}
	}()
}
