package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
	"github.com/primetaxi/backend/pkg/utils"
)

// GetDashboardStats aggregates the numbers the admin landing page shows:
// booking and revenue totals with month-over-month change, fleet
// availability, pending work and the latest bookings.
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		startOfLastMonth := startOfMonth.AddDate(0, -1, 0)
		startOfDay := utils.StartOfDay(now)

		var totalBookings int64
		db.Model(&models.Booking{}).Count(&totalBookings)

		var monthlyBookings int64
		db.Model(&models.Booking{}).
			Where("created_at >= ?", startOfMonth).
			Count(&monthlyBookings)

		var lastMonthBookings int64
		db.Model(&models.Booking{}).
			Where("created_at >= ? AND created_at < ?", startOfLastMonth, startOfMonth).
			Count(&lastMonthBookings)

		var totalRevenue float64
		db.Model(&models.Booking{}).
			Where("payment_status = ?", models.PaymentStatusPaid).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&totalRevenue)

		var monthlyRevenue float64
		db.Model(&models.Booking{}).
			Where("payment_status = ? AND paid_at >= ?", models.PaymentStatusPaid, startOfMonth).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&monthlyRevenue)

		var lastMonthRevenue float64
		db.Model(&models.Booking{}).
			Where("payment_status = ? AND paid_at >= ? AND paid_at < ?", models.PaymentStatusPaid, startOfLastMonth, startOfMonth).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&lastMonthRevenue)

		var activeDrivers int64
		db.Model(&models.Driver{}).
			Where("status IN ?", []models.DriverStatus{models.DriverStatusAvailable, models.DriverStatusOnTour}).
			Count(&activeDrivers)

		var availableVehicles int64
		db.Model(&models.Vehicle{}).
			Where("status = ?", models.VehicleStatusAvailable).
			Count(&availableVehicles)

		var pendingBookings int64
		db.Model(&models.Booking{}).
			Where("status = ?", models.BookingStatusPending).
			Count(&pendingBookings)

		var todayBookings int64
		db.Model(&models.Booking{}).
			Where("pickup_date >= ? AND pickup_date < ?", startOfDay, startOfDay.Add(24*time.Hour)).
			Count(&todayBookings)

		var unreadMessages int64
		db.Model(&models.ContactSubmission{}).
			Where("read = ?", false).
			Count(&unreadMessages)

		var recentBookings []models.Booking
		db.Preload("Tour").
			Order("created_at DESC").
			Limit(5).
			Find(&recentBookings)

		c.JSON(200, gin.H{
			"bookings": gin.H{
				"total":         totalBookings,
				"thisMonth":     monthlyBookings,
				"lastMonth":     lastMonthBookings,
				"percentChange": percentChange(monthlyBookings, lastMonthBookings),
				"pending":       pendingBookings,
				"today":         todayBookings,
			},
			"revenue": gin.H{
				"total":         totalRevenue,
				"thisMonth":     monthlyRevenue,
				"lastMonth":     lastMonthRevenue,
				"percentChange": percentChangeFloat(monthlyRevenue, lastMonthRevenue),
			},
			"fleet": gin.H{
				"activeDrivers":     activeDrivers,
				"availableVehicles": availableVehicles,
			},
			"unreadMessages": unreadMessages,
			"recentBookings": recentBookings,
		})
	}
}

// percentChange returns the month-over-month change. With no previous
// activity, any current activity reads as 100% growth.
func percentChange(current, previous int64) float64 {
	return percentChangeFloat(float64(current), float64(previous))
}

func percentChangeFloat(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
