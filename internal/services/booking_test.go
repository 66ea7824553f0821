package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
	"github.com/primetaxi/backend/pkg/utils"
)

type mockStore struct {
	created     []*models.Booking
	byIntent    map[string]*models.Booking
	createErr   error
	updateErr   error
	lastUpdate  map[string]interface{}
	updateCalls int
}

func newMockStore() *mockStore {
	return &mockStore{byIntent: make(map[string]*models.Booking)}
}

func (m *mockStore) Create(ctx context.Context, booking *models.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, booking)
	m.byIntent[booking.PaymentIntentID] = booking
	return nil
}

func (m *mockStore) FindByPaymentIntent(ctx context.Context, intentID string) (*models.Booking, error) {
	booking, ok := m.byIntent[intentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

func (m *mockStore) UpdateByPaymentIntent(ctx context.Context, intentID string, fields map[string]interface{}) (int64, error) {
	m.updateCalls++
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	if _, ok := m.byIntent[intentID]; !ok {
		return 0, nil
	}
	m.lastUpdate = fields
	return 1, nil
}

type mockGateway struct {
	intent     *PaymentIntent
	createErr  error
	cancelled  []string
	refunded   []string
	verifyResp *WebhookEvent
	verifyErr  error
}

func (m *mockGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.intent, nil
}

func (m *mockGateway) CancelIntent(ctx context.Context, intentID string) error {
	m.cancelled = append(m.cancelled, intentID)
	return nil
}

func (m *mockGateway) RefundIntent(ctx context.Context, intentID string) error {
	m.refunded = append(m.refunded, intentID)
	return nil
}

func (m *mockGateway) VerifyEvent(payload []byte, signature string) (*WebhookEvent, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.verifyResp, nil
}

type mockDispatcher struct {
	dispatched []utils.BookingEmailData
}

func (m *mockDispatcher) DispatchBookingPaid(data utils.BookingEmailData) {
	m.dispatched = append(m.dispatched, data)
}

type mockMarker struct {
	first bool
	err   error
	calls []string
}

func (m *mockMarker) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	m.calls = append(m.calls, eventID)
	return m.first, m.err
}

type fixedCurrency string

func (c fixedCurrency) Currency(ctx context.Context) string { return string(c) }

func newTestService(store *mockStore, gateway *mockGateway, dispatcher *mockDispatcher, marker *mockMarker) *BookingService {
	return NewBookingService(store, gateway, dispatcher, marker, fixedCurrency("ISK"))
}

func validRequest() CreateBookingRequest {
	pickup, _ := time.Parse("2006-01-02", "2026-06-15")
	return CreateBookingRequest{
		Type:           models.BookingTypeAirportTransfer,
		CustomerName:   "Jon Jonsson",
		CustomerEmail:  "jon@example.com",
		CustomerPhone:  "+354 555 0000",
		Passengers:     6,
		PickupLocation: "Keflavik Airport",
		PickupDate:     pickup,
		PickupTime:     "14:30",
	}
}

func TestCreateBooking(t *testing.T) {
	store := newMockStore()
	gateway := &mockGateway{intent: &PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}}
	svc := newTestService(store, gateway, &mockDispatcher{}, &mockMarker{first: true})

	result, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if result.ClientSecret != "pi_123_secret" {
		t.Errorf("ClientSecret = %q, want pi_123_secret", result.ClientSecret)
	}

	b := result.Booking
	if b.PaymentIntentID != "pi_123" {
		t.Errorf("PaymentIntentID = %q, want pi_123", b.PaymentIntentID)
	}
	if b.Status != models.BookingStatusPending {
		t.Errorf("Status = %s, want PENDING", b.Status)
	}
	if b.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("PaymentStatus = %s, want PENDING", b.PaymentStatus)
	}
	if b.BasePrice != 19500 || b.Extras != 4000 || b.TotalPrice != 23500 {
		t.Errorf("price = %v/%v/%v, want 19500/4000/23500", b.BasePrice, b.Extras, b.TotalPrice)
	}
	if b.Currency != "ISK" {
		t.Errorf("Currency = %q, want ISK", b.Currency)
	}
	if b.BookingNumber == "" {
		t.Error("BookingNumber is empty")
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d bookings, want 1", len(store.created))
	}
}

func TestCreateBookingInvalidType(t *testing.T) {
	svc := newTestService(newMockStore(), &mockGateway{}, &mockDispatcher{}, &mockMarker{})

	req := validRequest()
	req.Type = models.BookingType("HELICOPTER")

	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrInvalidBookingType) {
		t.Errorf("err = %v, want ErrInvalidBookingType", err)
	}
}

func TestCreateBookingInvalidPassengers(t *testing.T) {
	svc := newTestService(newMockStore(), &mockGateway{}, &mockDispatcher{}, &mockMarker{})

	for _, passengers := range []int{0, -1, 51} {
		req := validRequest()
		req.Passengers = passengers
		if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrInvalidPassengers) {
			t.Errorf("passengers=%d: err = %v, want ErrInvalidPassengers", passengers, err)
		}
	}
}

func TestCreateBookingGatewayFailure(t *testing.T) {
	store := newMockStore()
	gateway := &mockGateway{createErr: errors.New("stripe down")}
	svc := newTestService(store, gateway, &mockDispatcher{}, &mockMarker{})

	_, err := svc.Create(context.Background(), validRequest())
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Errorf("err = %v, want ErrGatewayUnavailable", err)
	}
	if len(store.created) != 0 {
		t.Errorf("created %d bookings after gateway failure, want 0", len(store.created))
	}
}

func TestCreateBookingStoreFailureCancelsIntent(t *testing.T) {
	store := newMockStore()
	store.createErr = errors.New("db down")
	gateway := &mockGateway{intent: &PaymentIntent{ID: "pi_orphan", ClientSecret: "s"}}
	svc := newTestService(store, gateway, &mockDispatcher{}, &mockMarker{})

	if _, err := svc.Create(context.Background(), validRequest()); err == nil {
		t.Fatal("Create returned nil error after store failure")
	}
	if len(gateway.cancelled) != 1 || gateway.cancelled[0] != "pi_orphan" {
		t.Errorf("cancelled intents = %v, want [pi_orphan]", gateway.cancelled)
	}
}

func paidBooking(intentID string) *models.Booking {
	return &models.Booking{
		BookingNumber:   "PTX-TEST-0001",
		Type:            models.BookingTypeTaxi,
		CustomerName:    "Jon Jonsson",
		CustomerEmail:   "jon@example.com",
		PaymentIntentID: intentID,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		TotalPrice:      3500,
		Currency:        "ISK",
	}
}

func TestHandleEventPaymentSucceeded(t *testing.T) {
	store := newMockStore()
	store.byIntent["pi_1"] = paidBooking("pi_1")
	dispatcher := &mockDispatcher{}
	marker := &mockMarker{first: true}
	svc := newTestService(store, &mockGateway{}, dispatcher, marker)

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:              "evt_1",
		Type:            EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}

	if store.lastUpdate["payment_status"] != models.PaymentStatusPaid {
		t.Errorf("payment_status = %v, want PAID", store.lastUpdate["payment_status"])
	}
	if store.lastUpdate["status"] != models.BookingStatusConfirmed {
		t.Errorf("status = %v, want CONFIRMED", store.lastUpdate["status"])
	}
	if _, ok := store.lastUpdate["paid_at"]; !ok {
		t.Error("paid_at not set")
	}
	if len(marker.calls) != 1 || marker.calls[0] != "evt_1" {
		t.Errorf("marker calls = %v, want [evt_1]", marker.calls)
	}
	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched %d notifications, want 1", len(dispatcher.dispatched))
	}
	if dispatcher.dispatched[0].BookingNumber != "PTX-TEST-0001" {
		t.Errorf("dispatched booking number = %q", dispatcher.dispatched[0].BookingNumber)
	}
}

func TestHandleEventDuplicateDelivery(t *testing.T) {
	store := newMockStore()
	store.byIntent["pi_1"] = paidBooking("pi_1")
	dispatcher := &mockDispatcher{}
	svc := newTestService(store, &mockGateway{}, dispatcher, &mockMarker{first: false})

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:              "evt_dup",
		Type:            EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Errorf("dispatched %d notifications on duplicate delivery, want 0", len(dispatcher.dispatched))
	}
}

func TestHandleEventMarkerUnavailable(t *testing.T) {
	store := newMockStore()
	store.byIntent["pi_1"] = paidBooking("pi_1")
	dispatcher := &mockDispatcher{}
	svc := newTestService(store, &mockGateway{}, dispatcher, &mockMarker{err: errors.New("redis down")})

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:              "evt_1",
		Type:            EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	// Transition still applies, only notifications are skipped.
	if store.lastUpdate["payment_status"] != models.PaymentStatusPaid {
		t.Errorf("payment_status = %v, want PAID", store.lastUpdate["payment_status"])
	}
	if len(dispatcher.dispatched) != 0 {
		t.Errorf("dispatched %d notifications without marker, want 0", len(dispatcher.dispatched))
	}
}

func TestHandleEventUnknownIntent(t *testing.T) {
	store := newMockStore()
	dispatcher := &mockDispatcher{}
	marker := &mockMarker{first: true}
	svc := newTestService(store, &mockGateway{}, dispatcher, marker)

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:              "evt_x",
		Type:            EventPaymentSucceeded,
		PaymentIntentID: "pi_missing",
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if len(marker.calls) != 0 {
		t.Errorf("marker called for unknown intent: %v", marker.calls)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Errorf("dispatched %d notifications for unknown intent, want 0", len(dispatcher.dispatched))
	}
}

func TestHandleEventPaymentFailed(t *testing.T) {
	store := newMockStore()
	store.byIntent["pi_1"] = paidBooking("pi_1")
	dispatcher := &mockDispatcher{}
	svc := newTestService(store, &mockGateway{}, dispatcher, &mockMarker{first: true})

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:              "evt_f",
		Type:            EventPaymentFailed,
		PaymentIntentID: "pi_1",
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}

	if store.lastUpdate["payment_status"] != models.PaymentStatusFailed {
		t.Errorf("payment_status = %v, want FAILED", store.lastUpdate["payment_status"])
	}
	// Booking status is untouched so the customer can retry payment.
	if _, ok := store.lastUpdate["status"]; ok {
		t.Error("status changed on payment failure")
	}
	if len(dispatcher.dispatched) != 0 {
		t.Errorf("dispatched %d notifications on failure, want 0", len(dispatcher.dispatched))
	}
}

func TestHandleEventChargeRefunded(t *testing.T) {
	store := newMockStore()
	store.byIntent["pi_1"] = paidBooking("pi_1")
	svc := newTestService(store, &mockGateway{}, &mockDispatcher{}, &mockMarker{first: true})

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:              "evt_r",
		Type:            EventChargeRefunded,
		PaymentIntentID: "pi_1",
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if store.lastUpdate["payment_status"] != models.PaymentStatusRefunded {
		t.Errorf("payment_status = %v, want REFUNDED", store.lastUpdate["payment_status"])
	}
}

func TestHandleEventChargeRefundedWithoutIntent(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, &mockGateway{}, &mockDispatcher{}, &mockMarker{first: true})

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:   "evt_r",
		Type: EventChargeRefunded,
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if store.updateCalls != 0 {
		t.Errorf("store updated %d times for chargeless refund, want 0", store.updateCalls)
	}
}

func TestHandleEventUnknownType(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, &mockGateway{}, &mockDispatcher{}, &mockMarker{first: true})

	err := svc.HandleEvent(context.Background(), &WebhookEvent{
		ID:   "evt_u",
		Type: "customer.created",
	})
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if store.updateCalls != 0 {
		t.Errorf("store updated %d times for ignored event, want 0", store.updateCalls)
	}
}
