package utils

import (
	"time"

	"github.com/primetaxi/backend/internal/models"
)

// AssignmentWindow is how long a driver or vehicle is considered occupied
// by a booking, measured from its pickup timestamp. Bookings have no
// recorded duration, so a fixed window stands in for it.
const AssignmentWindow = 4 * time.Hour

// StartOfDay returns midnight of t's calendar day in t's own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PickupAt combines a booking's pickup date and HH:MM pickup time into a
// single timestamp. A malformed time falls back to the bare date.
func PickupAt(date time.Time, pickupTime string) time.Time {
	t, err := time.Parse("15:04", pickupTime)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// HasAssignmentConflict reports whether assigning a resource at the given
// pickup timestamp would overlap any of its existing active bookings.
// Cancelled and completed bookings never conflict.
func HasAssignmentConflict(existing []models.Booking, pickup time.Time, excludeID uint) bool {
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		if b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusCompleted {
			continue
		}
		other := PickupAt(b.PickupDate, b.PickupTime)
		diff := pickup.Sub(other)
		if diff < 0 {
			diff = -diff
		}
		if diff < AssignmentWindow {
			return true
		}
	}
	return false
}
