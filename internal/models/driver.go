package models

import (
	"gorm.io/gorm"
)

type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "AVAILABLE"
	DriverStatusOnTour    DriverStatus = "ON_TOUR"
	DriverStatusOffline   DriverStatus = "OFFLINE"
	DriverStatusBreak     DriverStatus = "BREAK"
)

// Driver is a staff member who can be assigned to bookings. Drivers with
// associated bookings cannot be deleted.
type Driver struct {
	gorm.Model
	Name          string       `json:"name" gorm:"not null"`
	Email         string       `json:"email" gorm:"uniqueIndex;not null"`
	Phone         string       `json:"phone" gorm:"not null"`
	LicenseNumber string       `json:"licenseNumber" gorm:"not null"`
	Status        DriverStatus `json:"status" gorm:"not null;default:'OFFLINE'"`
	Image         string       `json:"image"`
	VehicleID     *uint        `json:"vehicleId,omitempty"`
	Vehicle       *Vehicle     `json:"vehicle,omitempty"`
}

// TableName specifies the table name
func (Driver) TableName() string {
	return "drivers"
}
