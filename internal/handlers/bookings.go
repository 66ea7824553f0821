package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
	"github.com/primetaxi/backend/internal/services"
)

type CreateBookingInput struct {
	Type            string `json:"type" binding:"required,oneof=TAXI AIRPORT_TRANSFER PRIVATE_TOUR CUSTOM_TOUR"`
	CustomerName    string `json:"customerName" binding:"required,min=2"`
	CustomerEmail   string `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string `json:"customerPhone" binding:"required,min=7"`
	Passengers      int    `json:"passengers" binding:"required,min=1,max=50"`
	PickupLocation  string `json:"pickupLocation" binding:"required,min=3"`
	DropoffLocation string `json:"dropoffLocation"`
	PickupDate      string `json:"pickupDate" binding:"required"`
	PickupTime      string `json:"pickupTime" binding:"required"`
	TourID          *uint  `json:"tourId"`
	SpecialRequests string `json:"specialRequests"`
}

// parsePickupDate accepts both a bare date and a full timestamp.
func parsePickupDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// CreateBooking handles the public booking form: validate, price, open a
// payment intent and persist. The client secret in the response is what
// the frontend uses to complete payment.
func CreateBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		pickupDate, err := parsePickupDate(input.PickupDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": "pickupDate must be a date or RFC 3339 timestamp"})
			return
		}
		if _, err := time.Parse("15:04", input.PickupTime); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": "pickupTime must be HH:MM"})
			return
		}

		result, err := svc.Create(c.Request.Context(), services.CreateBookingRequest{
			Type:            models.BookingType(input.Type),
			CustomerName:    input.CustomerName,
			CustomerEmail:   input.CustomerEmail,
			CustomerPhone:   input.CustomerPhone,
			Passengers:      input.Passengers,
			PickupLocation:  input.PickupLocation,
			DropoffLocation: input.DropoffLocation,
			PickupDate:      pickupDate,
			PickupTime:      input.PickupTime,
			SpecialRequests: input.SpecialRequests,
			TourID:          input.TourID,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidBookingType), errors.Is(err, services.ErrInvalidPassengers):
				c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			default:
				c.JSON(500, gin.H{"error": "Failed to create booking"})
			}
			return
		}

		c.JSON(201, gin.H{
			"booking":      result.Booking,
			"clientSecret": result.ClientSecret,
		})
	}
}

// GetBooking returns a single booking, used by the payment confirmation page.
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		err := db.Preload("Tour").
			First(&booking, c.Param("id")).Error
		if err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		c.JSON(200, gin.H{"booking": booking})
	}
}
