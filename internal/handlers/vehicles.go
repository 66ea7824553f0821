package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
)

type VehicleInput struct {
	Make         string   `json:"make" binding:"required,min=1"`
	Model        string   `json:"model" binding:"required,min=1"`
	Year         int      `json:"year" binding:"required,min=1990"`
	LicensePlate string   `json:"licensePlate" binding:"required,min=1"`
	Type         string   `json:"type" binding:"required,oneof=SEDAN SUV VAN LUXURY MINIBUS"`
	Capacity     int      `json:"capacity" binding:"required,min=1,max=20"`
	Features     []string `json:"features"`
	Image        string   `json:"image"`
	Status       string   `json:"status" binding:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE RETIRED"`
}

type UpdateVehicleInput struct {
	Make         *string   `json:"make" binding:"omitempty,min=1"`
	Model        *string   `json:"model" binding:"omitempty,min=1"`
	Year         *int      `json:"year" binding:"omitempty,min=1990"`
	LicensePlate *string   `json:"licensePlate" binding:"omitempty,min=1"`
	Type         *string   `json:"type" binding:"omitempty,oneof=SEDAN SUV VAN LUXURY MINIBUS"`
	Capacity     *int      `json:"capacity" binding:"omitempty,min=1,max=20"`
	Features     *[]string `json:"features"`
	Image        *string   `json:"image"`
	Status       *string   `json:"status" binding:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE RETIRED"`
}

func ListVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Vehicle{})

		if status := c.Query("status"); status != "" && status != "all" {
			query = query.Where("status = ?", status)
		}
		if vehicleType := c.Query("type"); vehicleType != "" && vehicleType != "all" {
			query = query.Where("type = ?", vehicleType)
		}
		if search := c.Query("search"); search != "" {
			pattern := "%" + search + "%"
			query = query.Where("make ILIKE ? OR model ILIKE ? OR license_plate ILIKE ?", pattern, pattern, pattern)
		}

		var vehicles []models.Vehicle
		if err := query.Preload("Driver").Order("created_at DESC").Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, gin.H{"vehicles": vehicles})
	}
}

func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}
		if input.Year > time.Now().Year()+1 {
			c.JSON(400, gin.H{"error": "Validation failed", "details": "year is in the future"})
			return
		}

		var count int64
		db.Model(&models.Vehicle{}).Where("license_plate = ?", input.LicensePlate).Count(&count)
		if count > 0 {
			c.JSON(409, gin.H{"error": "Vehicle with this license plate already exists"})
			return
		}

		status := models.VehicleStatusAvailable
		if input.Status != "" {
			status = models.VehicleStatus(input.Status)
		}

		vehicle := models.Vehicle{
			Make:         input.Make,
			VehicleModel: input.Model,
			Year:         input.Year,
			LicensePlate: input.LicensePlate,
			Type:         models.VehicleType(input.Type),
			Capacity:     input.Capacity,
			Features:     input.Features,
			Image:        input.Image,
			Status:       status,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, gin.H{"vehicle": vehicle})
	}
}

func GetVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicle models.Vehicle
		if err := db.Preload("Driver").First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		var bookings []models.Booking
		db.Where("vehicle_id = ?", vehicle.ID).
			Order("created_at DESC").
			Limit(10).
			Find(&bookings)

		c.JSON(200, gin.H{"vehicle": vehicle, "bookings": bookings})
	}
}

func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicle models.Vehicle
		if err := db.First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		var input UpdateVehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		if input.LicensePlate != nil && *input.LicensePlate != vehicle.LicensePlate {
			var count int64
			db.Model(&models.Vehicle{}).Where("license_plate = ?", *input.LicensePlate).Count(&count)
			if count > 0 {
				c.JSON(409, gin.H{"error": "License plate already in use"})
				return
			}
		}

		updates := map[string]interface{}{}
		if input.Make != nil {
			updates["make"] = *input.Make
		}
		if input.Model != nil {
			updates["model"] = *input.Model
		}
		if input.Year != nil {
			updates["year"] = *input.Year
		}
		if input.LicensePlate != nil {
			updates["license_plate"] = *input.LicensePlate
		}
		if input.Type != nil {
			updates["type"] = *input.Type
		}
		if input.Capacity != nil {
			updates["capacity"] = *input.Capacity
		}
		if input.Features != nil {
			updates["features"] = models.StringList(*input.Features)
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}
		if input.Status != nil {
			updates["status"] = *input.Status
		}

		if len(updates) > 0 {
			if err := db.Model(&vehicle).Updates(updates).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update vehicle"})
				return
			}
		}

		var updated models.Vehicle
		if err := db.Preload("Driver").First(&updated, vehicle.ID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update vehicle"})
			return
		}

		c.JSON(200, gin.H{"vehicle": updated})
	}
}

// DeleteVehicle removes a vehicle unless a driver is assigned to it or
// bookings reference it.
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicle models.Vehicle
		if err := db.First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		var driver models.Driver
		err := db.Where("vehicle_id = ?", vehicle.ID).First(&driver).Error
		if err == nil {
			c.JSON(409, gin.H{"error": "Cannot delete vehicle with assigned driver"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		var bookingCount int64
		if err := db.Model(&models.Booking{}).Where("vehicle_id = ?", vehicle.ID).Count(&bookingCount).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}
		if bookingCount > 0 {
			c.JSON(409, gin.H{"error": "Cannot delete vehicle with existing bookings"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted successfully"})
	}
}
