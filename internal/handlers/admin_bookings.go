package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
	"github.com/primetaxi/backend/pkg/utils"
)

// ListBookings returns the filtered, paginated booking list plus the quick
// counts the dashboard shows next to it.
func ListBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		query := db.Model(&models.Booking{})

		if status := c.Query("status"); status != "" && status != "all" {
			query = query.Where("status = ?", status)
		}
		if bookingType := c.Query("type"); bookingType != "" && bookingType != "all" {
			query = query.Where("type = ?", bookingType)
		}
		if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" && paymentStatus != "all" {
			query = query.Where("payment_status = ?", paymentStatus)
		}
		if search := c.Query("search"); search != "" {
			pattern := "%" + search + "%"
			query = query.Where(
				"booking_number ILIKE ? OR customer_name ILIKE ? OR customer_email ILIKE ? OR customer_phone ILIKE ?",
				pattern, pattern, pattern, pattern,
			)
		}
		if dateFrom := c.Query("dateFrom"); dateFrom != "" {
			if from, err := parsePickupDate(dateFrom); err == nil {
				query = query.Where("pickup_date >= ?", from)
			}
		}
		if dateTo := c.Query("dateTo"); dateTo != "" {
			if to, err := parsePickupDate(dateTo); err == nil {
				query = query.Where("pickup_date <= ?", to)
			}
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		var bookings []models.Booking
		err := query.
			Preload("Tour").
			Preload("Driver").
			Preload("Vehicle").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&bookings).Error
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		var pendingCount, confirmedCount, todayCount int64
		db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&pendingCount)
		db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusConfirmed).Count(&confirmedCount)
		startOfDay := utils.StartOfDay(time.Now())
		db.Model(&models.Booking{}).
			Where("pickup_date >= ? AND pickup_date < ?", startOfDay, startOfDay.Add(24*time.Hour)).
			Count(&todayCount)

		totalPages := (total + int64(limit) - 1) / int64(limit)

		c.JSON(200, gin.H{
			"bookings": bookings,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
			"counts": gin.H{
				"pending":   pendingCount,
				"confirmed": confirmedCount,
				"today":     todayCount,
			},
		})
	}
}

// GetAdminBooking returns one booking with all its associations.
func GetAdminBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		err := db.Preload("Tour").
			Preload("Driver").
			Preload("Vehicle").
			First(&booking, c.Param("id")).Error
		if err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		c.JSON(200, gin.H{"booking": booking})
	}
}

type UpdateBookingInput struct {
	Status          *string `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	DriverID        *uint   `json:"driverId"`
	VehicleID       *uint   `json:"vehicleId"`
	PickupDate      *string `json:"pickupDate"`
	PickupTime      *string `json:"pickupTime"`
	PickupLocation  *string `json:"pickupLocation"`
	DropoffLocation *string `json:"dropoffLocation"`
	SpecialRequests *string `json:"specialRequests"`
}

// UpdateBooking applies a partial admin edit: status override, driver and
// vehicle assignment, schedule changes. Referenced drivers and vehicles
// must exist, and an assignment that overlaps the resource's other active
// bookings is rejected.
func UpdateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		var input UpdateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		updates := map[string]interface{}{}

		pickupDate := booking.PickupDate
		if input.PickupDate != nil {
			parsed, err := parsePickupDate(*input.PickupDate)
			if err != nil {
				c.JSON(400, gin.H{"error": "Validation failed", "details": "pickupDate must be a date or RFC 3339 timestamp"})
				return
			}
			pickupDate = parsed
			updates["pickup_date"] = parsed
		}

		pickupTime := booking.PickupTime
		if input.PickupTime != nil {
			if _, err := time.Parse("15:04", *input.PickupTime); err != nil {
				c.JSON(400, gin.H{"error": "Validation failed", "details": "pickupTime must be HH:MM"})
				return
			}
			pickupTime = *input.PickupTime
			updates["pickup_time"] = *input.PickupTime
		}

		pickupAt := utils.PickupAt(pickupDate, pickupTime)

		if input.DriverID != nil {
			var driver models.Driver
			if err := db.First(&driver, *input.DriverID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Driver not found"})
				return
			}
			conflict, err := assignmentConflict(db, "driver_id", driver.ID, pickupAt, booking.ID)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to update booking"})
				return
			}
			if conflict {
				c.JSON(409, gin.H{"error": "Driver already has a booking in this time window"})
				return
			}
			updates["driver_id"] = driver.ID
		}

		if input.VehicleID != nil {
			var vehicle models.Vehicle
			if err := db.First(&vehicle, *input.VehicleID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Vehicle not found"})
				return
			}
			conflict, err := assignmentConflict(db, "vehicle_id", vehicle.ID, pickupAt, booking.ID)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to update booking"})
				return
			}
			if conflict {
				c.JSON(409, gin.H{"error": "Vehicle already has a booking in this time window"})
				return
			}
			updates["vehicle_id"] = vehicle.ID
		}

		if input.Status != nil {
			updates["status"] = *input.Status
		}
		if input.PickupLocation != nil {
			updates["pickup_location"] = *input.PickupLocation
		}
		if input.DropoffLocation != nil {
			updates["dropoff_location"] = *input.DropoffLocation
		}
		if input.SpecialRequests != nil {
			updates["special_requests"] = *input.SpecialRequests
		}

		if len(updates) > 0 {
			if err := db.Model(&booking).Updates(updates).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update booking"})
				return
			}
		}

		var updated models.Booking
		if err := db.Preload("Tour").Preload("Driver").Preload("Vehicle").First(&updated, booking.ID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking"})
			return
		}

		c.JSON(200, gin.H{"booking": updated})
	}
}

// assignmentConflict reports whether the driver or vehicle already has an
// active booking overlapping the assignment window around pickupAt.
func assignmentConflict(db *gorm.DB, column string, resourceID uint, pickupAt time.Time, excludeID uint) (bool, error) {
	// Candidate rows are narrowed by date in SQL; the exact overlap check
	// needs the HH:MM pickup time, which lives in Go.
	var candidates []models.Booking
	err := db.Where(column+" = ?", resourceID).
		Where("status NOT IN ?", []models.BookingStatus{models.BookingStatusCancelled, models.BookingStatusCompleted}).
		Where("pickup_date BETWEEN ? AND ?", pickupAt.AddDate(0, 0, -1), pickupAt.AddDate(0, 0, 1)).
		Find(&candidates).Error
	if err != nil {
		return false, err
	}
	return utils.HasAssignmentConflict(candidates, pickupAt, excludeID), nil
}

// CancelBooking marks a booking cancelled. Bookings are never deleted; the
// row stays for the audit trail.
func CancelBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := db.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Booking cancelled successfully",
			"booking": booking,
		})
	}
}
