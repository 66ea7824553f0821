package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
	"github.com/primetaxi/backend/pkg/utils"
)

var (
	ErrInvalidBookingType = errors.New("unknown booking type")
	ErrInvalidPassengers  = errors.New("passenger count must be between 1 and 50")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// BookingStore is the persistence surface the booking lifecycle needs.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByPaymentIntent(ctx context.Context, intentID string) (*models.Booking, error)
	// UpdateByPaymentIntent applies fields to the booking(s) matching the
	// intent and returns how many rows changed. Zero matches is not an
	// error; webhooks for unknown intents are acknowledged no-ops.
	UpdateByPaymentIntent(ctx context.Context, intentID string, fields map[string]interface{}) (int64, error)
}

// CurrencySource yields the operating currency for new bookings.
type CurrencySource interface {
	Currency(ctx context.Context) string
}

// CreateBookingRequest carries validated public booking input.
type CreateBookingRequest struct {
	Type            models.BookingType
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Passengers      int
	PickupLocation  string
	DropoffLocation string
	PickupDate      time.Time
	PickupTime      string
	SpecialRequests string
	TourID          *uint
}

// CreateBookingResult is the persisted booking plus the client secret the
// caller needs to complete payment client-side.
type CreateBookingResult struct {
	Booking      *models.Booking
	ClientSecret string
}

// BookingService owns the booking/payment lifecycle: creation with
// payment-intent issuance, and webhook-driven state transitions.
type BookingService struct {
	store      BookingStore
	gateway    PaymentGateway
	dispatcher NotificationDispatcher
	marker     EventMarker
	currency   CurrencySource
}

func NewBookingService(store BookingStore, gateway PaymentGateway, dispatcher NotificationDispatcher, marker EventMarker, currency CurrencySource) *BookingService {
	return &BookingService{
		store:      store,
		gateway:    gateway,
		dispatcher: dispatcher,
		marker:     marker,
		currency:   currency,
	}
}

// Create prices the request, opens a payment intent and persists the
// booking. The intent is created first; a booking row must never exist
// without one. If the row write fails afterwards, the intent is cancelled
// so it does not linger unlinked at the gateway.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	if !utils.KnownBookingType(req.Type) {
		return nil, ErrInvalidBookingType
	}
	if req.Passengers < 1 || req.Passengers > 50 {
		return nil, ErrInvalidPassengers
	}

	quote := utils.Quote(req.Type, req.Passengers)
	currency := s.currency.Currency(ctx)

	intent, err := s.gateway.CreateIntent(ctx, quote.TotalPrice, currency, map[string]string{
		"bookingType":   string(req.Type),
		"customerEmail": req.CustomerEmail,
	})
	if err != nil {
		log.Printf("Payment intent creation failed: %v", err)
		return nil, ErrGatewayUnavailable
	}

	booking := &models.Booking{
		BookingNumber:   utils.GenerateBookingNumber(),
		Type:            req.Type,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Passengers:      req.Passengers,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		PickupDate:      req.PickupDate,
		PickupTime:      req.PickupTime,
		SpecialRequests: req.SpecialRequests,
		BasePrice:       quote.BasePrice,
		Extras:          quote.Extras,
		TotalPrice:      quote.TotalPrice,
		Currency:        currency,
		PaymentIntentID: intent.ID,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.BookingStatusPending,
		TourID:          req.TourID,
	}

	if err := s.store.Create(ctx, booking); err != nil {
		// Compensate: the intent must not outlive a failed row write.
		if cancelErr := s.gateway.CancelIntent(ctx, intent.ID); cancelErr != nil {
			log.Printf("Failed to cancel orphaned payment intent %s: %v", intent.ID, cancelErr)
		}
		return nil, err
	}

	return &CreateBookingResult{Booking: booking, ClientSecret: intent.ClientSecret}, nil
}

// HandleEvent applies a verified gateway event to the matching booking.
// Transitions are idempotent in their target values; re-delivery of the
// same event changes nothing and, thanks to the event marker, resends
// nothing either.
func (s *BookingService) HandleEvent(ctx context.Context, event *WebhookEvent) error {
	switch event.Type {
	case EventPaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, event)

	case EventPaymentFailed:
		updated, err := s.store.UpdateByPaymentIntent(ctx, event.PaymentIntentID, map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
		})
		if err != nil {
			return err
		}
		if updated == 0 {
			log.Printf("Payment failed for unknown intent %s", event.PaymentIntentID)
		}
		return nil

	case EventChargeRefunded:
		if event.PaymentIntentID == "" {
			return nil
		}
		_, err := s.store.UpdateByPaymentIntent(ctx, event.PaymentIntentID, map[string]interface{}{
			"payment_status": models.PaymentStatusRefunded,
		})
		return err

	default:
		log.Printf("Ignoring unhandled event type %s", event.Type)
		return nil
	}
}

func (s *BookingService) handlePaymentSucceeded(ctx context.Context, event *WebhookEvent) error {
	now := time.Now()
	updated, err := s.store.UpdateByPaymentIntent(ctx, event.PaymentIntentID, map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"status":         models.BookingStatusConfirmed,
		"paid_at":        now,
	})
	if err != nil {
		return err
	}
	if updated == 0 {
		log.Printf("Payment succeeded for unknown intent %s", event.PaymentIntentID)
		return nil
	}

	first, err := s.marker.MarkProcessed(ctx, event.ID)
	if err != nil {
		// A duplicate email is worse than a missing one; the paid booking
		// is visible on the dashboard either way.
		log.Printf("Event marker unavailable for %s, skipping notifications: %v", event.ID, err)
		return nil
	}
	if !first {
		log.Printf("Duplicate delivery of event %s, notifications already sent", event.ID)
		return nil
	}

	booking, err := s.store.FindByPaymentIntent(ctx, event.PaymentIntentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to load booking for intent %s: %v", event.PaymentIntentID, err)
		}
		return nil
	}

	s.dispatcher.DispatchBookingPaid(snapshotEmailData(booking))
	return nil
}

// snapshotEmailData captures the booking fields used in notification
// emails at confirmation time.
func snapshotEmailData(booking *models.Booking) utils.BookingEmailData {
	data := utils.BookingEmailData{
		BookingNumber:   booking.BookingNumber,
		CustomerName:    booking.CustomerName,
		CustomerEmail:   booking.CustomerEmail,
		CustomerPhone:   booking.CustomerPhone,
		Type:            string(booking.Type),
		PickupDate:      booking.PickupDate,
		PickupTime:      booking.PickupTime,
		PickupLocation:  booking.PickupLocation,
		DropoffLocation: booking.DropoffLocation,
		Passengers:      booking.Passengers,
		TotalPrice:      booking.TotalPrice,
		Currency:        booking.Currency,
		SpecialRequests: booking.SpecialRequests,
	}
	if booking.Tour != nil {
		data.TourName = booking.Tour.Name
	}
	return data
}

type gormBookingStore struct {
	db *gorm.DB
}

// NewBookingStore returns the gorm-backed BookingStore.
func NewBookingStore(db *gorm.DB) BookingStore {
	return &gormBookingStore{db: db}
}

func (s *gormBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	return s.db.WithContext(ctx).Create(booking).Error
}

func (s *gormBookingStore) FindByPaymentIntent(ctx context.Context, intentID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Tour").
		Where("payment_intent_id = ?", intentID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *gormBookingStore) UpdateByPaymentIntent(ctx context.Context, intentID string, fields map[string]interface{}) (int64, error) {
	tx := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("payment_intent_id = ?", intentID).
		Updates(fields)
	return tx.RowsAffected, tx.Error
}
