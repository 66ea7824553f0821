package models

import (
	"gorm.io/gorm"
)

type VehicleType string

const (
	VehicleTypeSedan   VehicleType = "SEDAN"
	VehicleTypeSUV     VehicleType = "SUV"
	VehicleTypeVan     VehicleType = "VAN"
	VehicleTypeLuxury  VehicleType = "LUXURY"
	VehicleTypeMinibus VehicleType = "MINIBUS"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusInUse       VehicleStatus = "IN_USE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusRetired     VehicleStatus = "RETIRED"
)

// Vehicle is a fleet unit. A vehicle cannot be deleted while a driver is
// assigned to it or while bookings reference it.
type Vehicle struct {
	gorm.Model
	Make         string        `json:"make" gorm:"not null"`
	VehicleModel string        `json:"model" gorm:"column:model;not null"`
	Year         int           `json:"year" gorm:"not null"`
	LicensePlate string        `json:"licensePlate" gorm:"uniqueIndex;not null"`
	Type         VehicleType   `json:"type" gorm:"not null"`
	Capacity     int           `json:"capacity" gorm:"not null"`
	Features     StringList    `json:"features" gorm:"type:text"`
	Image        string        `json:"image"`
	Status       VehicleStatus `json:"status" gorm:"not null;default:'AVAILABLE'"`
	Driver       *Driver       `json:"driver,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
