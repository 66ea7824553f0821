package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/primetaxi/backend/internal/services"
)

type okGateway struct{}

func (okGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*services.PaymentIntent, error) {
	return &services.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (okGateway) CancelIntent(ctx context.Context, intentID string) error { return nil }

func (okGateway) RefundIntent(ctx context.Context, intentID string) error { return nil }

func (okGateway) VerifyEvent(payload []byte, signature string) (*services.WebhookEvent, error) {
	return nil, nil
}

func bookingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := services.NewBookingService(stubStore{}, okGateway{}, services.NewNotificationDispatcher(services.NewMailer()), stubMarker{}, stubCurrency{})

	r := gin.New()
	r.POST("/api/bookings", CreateBooking(svc))
	return r
}

func postBooking(t *testing.T, r *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBookingBody() map[string]interface{} {
	return map[string]interface{}{
		"type":           "AIRPORT_TRANSFER",
		"customerName":   "Jon Jonsson",
		"customerEmail":  "jon@example.com",
		"customerPhone":  "+354 555 0000",
		"passengers":     2,
		"pickupLocation": "Keflavik Airport",
		"pickupDate":     "2026-06-15",
		"pickupTime":     "14:30",
	}
}

func TestCreateBookingHandler(t *testing.T) {
	r := bookingRouter()

	w := postBooking(t, r, validBookingBody())
	if w.Code != 201 {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ClientSecret != "pi_test_secret" {
		t.Errorf("clientSecret = %q, want pi_test_secret", resp.ClientSecret)
	}
}

func TestCreateBookingHandlerValidation(t *testing.T) {
	r := bookingRouter()

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"unknown type", func(b map[string]interface{}) { b["type"] = "HELICOPTER" }},
		{"missing name", func(b map[string]interface{}) { delete(b, "customerName") }},
		{"bad email", func(b map[string]interface{}) { b["customerEmail"] = "not-an-email" }},
		{"zero passengers", func(b map[string]interface{}) { b["passengers"] = 0 }},
		{"too many passengers", func(b map[string]interface{}) { b["passengers"] = 51 }},
		{"bad date", func(b map[string]interface{}) { b["pickupDate"] = "June 15th" }},
		{"bad time", func(b map[string]interface{}) { b["pickupTime"] = "2pm" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBookingBody()
			tt.mutate(body)

			w := postBooking(t, r, body)
			if w.Code != 400 {
				t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
			}
		})
	}
}
