package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingType string

const (
	BookingTypeTaxi            BookingType = "TAXI"
	BookingTypeAirportTransfer BookingType = "AIRPORT_TRANSFER"
	BookingTypePrivateTour     BookingType = "PRIVATE_TOUR"
	BookingTypeCustomTour      BookingType = "CUSTOM_TOUR"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Booking is a single reservation for a taxi ride, airport transfer or tour.
// Rows are never deleted; cancellation is a status transition so the audit
// trail stays intact.
type Booking struct {
	gorm.Model
	BookingNumber   string        `json:"bookingNumber" gorm:"uniqueIndex;not null"`
	Type            BookingType   `json:"type" gorm:"not null"`
	CustomerName    string        `json:"customerName" gorm:"not null"`
	CustomerEmail   string        `json:"customerEmail" gorm:"not null"`
	CustomerPhone   string        `json:"customerPhone" gorm:"not null"`
	Passengers      int           `json:"passengers" gorm:"not null"`
	PickupLocation  string        `json:"pickupLocation" gorm:"not null"`
	DropoffLocation string        `json:"dropoffLocation"`
	PickupDate      time.Time     `json:"pickupDate" gorm:"not null"`
	PickupTime      string        `json:"pickupTime" gorm:"not null"` // HH:MM, 24h
	SpecialRequests string        `json:"specialRequests"`
	BasePrice       float64       `json:"basePrice" gorm:"not null"`
	Extras          float64       `json:"extras" gorm:"not null"`
	TotalPrice      float64       `json:"totalPrice" gorm:"not null"`
	Currency        string        `json:"currency" gorm:"not null;default:'ISK'"`
	PaymentIntentID string        `json:"paymentIntentId" gorm:"uniqueIndex;not null"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"not null;default:'PENDING'"`
	PaidAt          *time.Time    `json:"paidAt,omitempty"`
	Status          BookingStatus `json:"status" gorm:"not null;default:'PENDING'"`
	TourID          *uint         `json:"tourId,omitempty"`
	Tour            *Tour         `json:"tour,omitempty"`
	DriverID        *uint         `json:"driverId,omitempty"`
	Driver          *Driver       `json:"driver,omitempty"`
	VehicleID       *uint         `json:"vehicleId,omitempty"`
	Vehicle         *Vehicle      `json:"vehicle,omitempty"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
