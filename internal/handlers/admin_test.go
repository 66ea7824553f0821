package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func adminRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/drivers/:id", DeleteDriver(db))
	r.DELETE("/vehicles/:id", DeleteVehicle(db))
	r.PATCH("/bookings/:id", UpdateBooking(db))
	r.POST("/bookings/:id/cancel", CancelBooking(db))
	return r
}

func TestDeleteDriverWithBookings(t *testing.T) {
	db, mock := mockDB(t)
	r := adminRouter(db)

	mock.ExpectQuery(`SELECT (.+) FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(1, "Jon", "jon@example.com"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	req := httptest.NewRequest(http.MethodDelete, "/drivers/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 409 {
		t.Errorf("status = %d, want 409; body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteDriverNotFound(t *testing.T) {
	db, mock := mockDB(t)
	r := adminRouter(db)

	mock.ExpectQuery(`SELECT (.+) FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodDelete, "/drivers/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 404 {
		t.Errorf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}
}

func TestDeleteVehicleWithAssignedDriver(t *testing.T) {
	db, mock := mockDB(t)
	r := adminRouter(db)

	mock.ExpectQuery(`SELECT (.+) FROM "vehicles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "license_plate"}).
			AddRow(1, "AB123"))
	mock.ExpectQuery(`SELECT (.+) FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id"}).
			AddRow(1, 1))

	req := httptest.NewRequest(http.MethodDelete, "/vehicles/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 409 {
		t.Errorf("status = %d, want 409; body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteVehicleWithBookings(t *testing.T) {
	db, mock := mockDB(t)
	r := adminRouter(db)

	mock.ExpectQuery(`SELECT (.+) FROM "vehicles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "license_plate"}).
			AddRow(1, "AB123"))
	// No driver assigned, but bookings still reference the vehicle.
	mock.ExpectQuery(`SELECT (.+) FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	req := httptest.NewRequest(http.MethodDelete, "/vehicles/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 409 {
		t.Errorf("status = %d, want 409; body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Cancellation is a status transition; the row must survive it.
func TestCancelBookingKeepsRow(t *testing.T) {
	db, mock := mockDB(t)
	r := adminRouter(db)

	pickup := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pickup_date", "pickup_time", "status"}).
			AddRow(1, pickup, "10:00", "CONFIRMED"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodPost, "/bookings/1/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Errorf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	// A DELETE here would fail as an unexpected statement.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingUnknownDriver(t *testing.T) {
	db, mock := mockDB(t)
	r := adminRouter(db)

	pickup := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pickup_date", "pickup_time", "status"}).
			AddRow(1, pickup, "10:00", "PENDING"))
	mock.ExpectQuery(`SELECT (.+) FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodPatch, "/bookings/1", bytes.NewReader([]byte(`{"driverId": 99}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 404 {
		t.Errorf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingDriverConflict(t *testing.T) {
	db, mock := mockDB(t)
	r := adminRouter(db)

	pickup := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pickup_date", "pickup_time", "status"}).
			AddRow(1, pickup, "10:00", "PENDING"))
	mock.ExpectQuery(`SELECT (.+) FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	// Another active booking for the same driver at the same pickup time.
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pickup_date", "pickup_time", "status"}).
			AddRow(5, pickup, "10:00", "CONFIRMED"))

	req := httptest.NewRequest(http.MethodPatch, "/bookings/1", bytes.NewReader([]byte(`{"driverId": 2}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 409 {
		t.Errorf("status = %d, want 409; body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
