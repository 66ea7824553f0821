package handlers

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
)

type analyticsTrend struct {
	Date      string  `json:"date"`
	Count     int     `json:"count"`
	Revenue   float64 `json:"revenue"`
	Confirmed int     `json:"confirmed"`
	Cancelled int     `json:"cancelled"`
}

type analyticsRevenueByType struct {
	Type    string  `json:"type"`
	Revenue float64 `json:"revenue"`
}

type analyticsTopTour struct {
	TourID   uint    `json:"tourId"`
	TourName string  `json:"tourName"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type analyticsSummary struct {
	TotalBookings       int     `json:"totalBookings"`
	CompletedBookings   int     `json:"completedBookings"`
	CancelledBookings   int     `json:"cancelledBookings"`
	PaidBookings        int     `json:"paidBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AverageBookingValue float64 `json:"averageBookingValue"`
	ConversionRate      float64 `json:"conversionRate"`
	CancellationRate    float64 `json:"cancellationRate"`
}

type analyticsReport struct {
	Summary        analyticsSummary         `json:"summary"`
	Trends         []analyticsTrend         `json:"trends"`
	BookingsByType map[string]int           `json:"bookingsByType"`
	RevenueByType  []analyticsRevenueByType `json:"revenueByType"`
	TopTours       []analyticsTopTour       `json:"topTours"`
}

// aggregateAnalytics reduces a period's bookings to the report the admin
// analytics page renders: per-day trends, type breakdowns, top tours and
// conversion metrics. Revenue only counts PAID bookings.
func aggregateAnalytics(bookings []models.Booking, tourNames map[uint]string) analyticsReport {
	trendIndex := make(map[string]int)
	trends := []analyticsTrend{}
	bookingsByType := make(map[string]int)
	revenueByType := make(map[string]float64)

	type tourAgg struct {
		bookings int
		revenue  float64
	}
	tourTotals := make(map[uint]*tourAgg)

	var completed, cancelled, paid int
	var totalRevenue float64

	for _, b := range bookings {
		date := b.CreatedAt.Format("2006-01-02")
		i, ok := trendIndex[date]
		if !ok {
			i = len(trends)
			trendIndex[date] = i
			trends = append(trends, analyticsTrend{Date: date})
		}
		trends[i].Count++

		isPaid := b.PaymentStatus == models.PaymentStatusPaid
		if isPaid {
			trends[i].Revenue += b.TotalPrice
			revenueByType[string(b.Type)] += b.TotalPrice
			totalRevenue += b.TotalPrice
			paid++
		}
		switch b.Status {
		case models.BookingStatusConfirmed, models.BookingStatusCompleted:
			trends[i].Confirmed++
			completed++
		case models.BookingStatusCancelled:
			trends[i].Cancelled++
			cancelled++
		}

		bookingsByType[string(b.Type)]++

		if b.TourID != nil {
			agg, ok := tourTotals[*b.TourID]
			if !ok {
				agg = &tourAgg{}
				tourTotals[*b.TourID] = agg
			}
			agg.bookings++
			agg.revenue += b.TotalPrice
		}
	}

	revenue := make([]analyticsRevenueByType, 0, len(revenueByType))
	for t, r := range revenueByType {
		revenue = append(revenue, analyticsRevenueByType{Type: t, Revenue: r})
	}
	sort.Slice(revenue, func(i, j int) bool { return revenue[i].Type < revenue[j].Type })

	topTours := make([]analyticsTopTour, 0, len(tourTotals))
	for id, agg := range tourTotals {
		name, ok := tourNames[id]
		if !ok {
			name = "Unknown"
		}
		topTours = append(topTours, analyticsTopTour{
			TourID:   id,
			TourName: name,
			Bookings: agg.bookings,
			Revenue:  agg.revenue,
		})
	}
	sort.Slice(topTours, func(i, j int) bool {
		if topTours[i].Bookings != topTours[j].Bookings {
			return topTours[i].Bookings > topTours[j].Bookings
		}
		return topTours[i].TourID < topTours[j].TourID
	})
	if len(topTours) > 5 {
		topTours = topTours[:5]
	}

	total := len(bookings)
	summary := analyticsSummary{
		TotalBookings:     total,
		CompletedBookings: completed,
		CancelledBookings: cancelled,
		PaidBookings:      paid,
		TotalRevenue:      totalRevenue,
	}
	if paid > 0 {
		summary.AverageBookingValue = math.Round(totalRevenue / float64(paid))
	}
	if total > 0 {
		summary.ConversionRate = math.Round(float64(paid)/float64(total)*1000) / 10
		summary.CancellationRate = math.Round(float64(cancelled)/float64(total)*1000) / 10
	}

	return analyticsReport{
		Summary:        summary,
		Trends:         trends,
		BookingsByType: bookingsByType,
		RevenueByType:  revenue,
		TopTours:       topTours,
	}
}

// GetAnalytics returns booking and revenue analytics for the last N days
// (?period=N, default 30).
func GetAnalytics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := strconv.Atoi(c.DefaultQuery("period", "30"))
		if err != nil || days < 1 || days > 365 {
			days = 30
		}
		startDate := time.Now().AddDate(0, 0, -days)

		var bookings []models.Booking
		err = db.Where("created_at >= ?", startDate).
			Order("created_at ASC").
			Find(&bookings).Error
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch analytics"})
			return
		}

		tourIDs := make([]uint, 0)
		seen := make(map[uint]bool)
		for _, b := range bookings {
			if b.TourID != nil && !seen[*b.TourID] {
				seen[*b.TourID] = true
				tourIDs = append(tourIDs, *b.TourID)
			}
		}

		tourNames := make(map[uint]string, len(tourIDs))
		if len(tourIDs) > 0 {
			var tours []models.Tour
			if err := db.Where("id IN ?", tourIDs).Find(&tours).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch analytics"})
				return
			}
			for _, t := range tours {
				tourNames[t.ID] = t.Name
			}
		}

		report := aggregateAnalytics(bookings, tourNames)

		c.JSON(200, gin.H{
			"period":         days,
			"summary":        report.Summary,
			"trends":         report.Trends,
			"bookingsByType": report.BookingsByType,
			"revenueByType":  report.RevenueByType,
			"topTours":       report.TopTours,
		})
	}
}
