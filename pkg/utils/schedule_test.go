package utils

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
)

func booking(id uint, date string, pickupTime string, status models.BookingStatus) models.Booking {
	d, _ := time.Parse("2006-01-02", date)
	return models.Booking{
		Model:      gorm.Model{ID: id},
		PickupDate: d,
		PickupTime: pickupTime,
		Status:     status,
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, 6, 15, 1, 30, 0, 0, loc)

	got := StartOfDay(now)
	want := time.Date(2026, 6, 15, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
	// Truncating in UTC instead would land on the previous local day.
	if got.Day() != now.Day() {
		t.Errorf("StartOfDay changed the calendar day: %v", got)
	}
}

func TestPickupAt(t *testing.T) {
	date, _ := time.Parse("2006-01-02", "2026-06-15")

	got := PickupAt(date, "14:30")
	want := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PickupAt = %v, want %v", got, want)
	}

	// A malformed time falls back to the bare date.
	if got := PickupAt(date, "not-a-time"); !got.Equal(date) {
		t.Errorf("PickupAt with bad time = %v, want %v", got, date)
	}
}

func TestHasAssignmentConflict(t *testing.T) {
	date, _ := time.Parse("2006-01-02", "2026-06-15")

	tests := []struct {
		name     string
		existing []models.Booking
		pickup   time.Time
		exclude  uint
		want     bool
	}{
		{
			name:     "no existing bookings",
			existing: nil,
			pickup:   PickupAt(date, "10:00"),
			want:     false,
		},
		{
			name: "same time conflicts",
			existing: []models.Booking{
				booking(1, "2026-06-15", "10:00", models.BookingStatusConfirmed),
			},
			pickup: PickupAt(date, "10:00"),
			want:   true,
		},
		{
			name: "inside the window conflicts",
			existing: []models.Booking{
				booking(1, "2026-06-15", "10:00", models.BookingStatusConfirmed),
			},
			pickup: PickupAt(date, "13:59"),
			want:   true,
		},
		{
			name: "exactly at the window boundary does not conflict",
			existing: []models.Booking{
				booking(1, "2026-06-15", "10:00", models.BookingStatusConfirmed),
			},
			pickup: PickupAt(date, "14:00"),
			want:   false,
		},
		{
			name: "earlier pickup inside the window conflicts",
			existing: []models.Booking{
				booking(1, "2026-06-15", "10:00", models.BookingStatusPending),
			},
			pickup: PickupAt(date, "07:00"),
			want:   true,
		},
		{
			name: "cancelled booking never conflicts",
			existing: []models.Booking{
				booking(1, "2026-06-15", "10:00", models.BookingStatusCancelled),
			},
			pickup: PickupAt(date, "10:00"),
			want:   false,
		},
		{
			name: "completed booking never conflicts",
			existing: []models.Booking{
				booking(1, "2026-06-15", "10:00", models.BookingStatusCompleted),
			},
			pickup: PickupAt(date, "10:00"),
			want:   false,
		},
		{
			name: "booking being edited is excluded",
			existing: []models.Booking{
				booking(7, "2026-06-15", "10:00", models.BookingStatusConfirmed),
			},
			pickup:  PickupAt(date, "10:00"),
			exclude: 7,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasAssignmentConflict(tt.existing, tt.pickup, tt.exclude)
			if got != tt.want {
				t.Errorf("HasAssignmentConflict = %v, want %v", got, tt.want)
			}
		})
	}
}
