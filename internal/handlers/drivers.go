package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
)

type DriverInput struct {
	Name          string `json:"name" binding:"required,min=1"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required,min=1"`
	LicenseNumber string `json:"licenseNumber" binding:"required,min=1"`
	Status        string `json:"status" binding:"omitempty,oneof=AVAILABLE ON_TOUR OFFLINE BREAK"`
	Image         string `json:"image"`
	VehicleID     *uint  `json:"vehicleId"`
}

type UpdateDriverInput struct {
	Name          *string `json:"name" binding:"omitempty,min=1"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone" binding:"omitempty,min=1"`
	LicenseNumber *string `json:"licenseNumber" binding:"omitempty,min=1"`
	Status        *string `json:"status" binding:"omitempty,oneof=AVAILABLE ON_TOUR OFFLINE BREAK"`
	Image         *string `json:"image"`
	VehicleID     *uint   `json:"vehicleId"`
}

func ListDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Driver{})

		if status := c.Query("status"); status != "" && status != "all" {
			query = query.Where("status = ?", status)
		}
		if search := c.Query("search"); search != "" {
			pattern := "%" + search + "%"
			query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
		}

		var drivers []models.Driver
		if err := query.Preload("Vehicle").Order("created_at DESC").Find(&drivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}

		c.JSON(200, gin.H{"drivers": drivers})
	}
}

func CreateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DriverInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		var count int64
		db.Model(&models.Driver{}).Where("email = ?", input.Email).Count(&count)
		if count > 0 {
			c.JSON(409, gin.H{"error": "Driver with this email already exists"})
			return
		}

		status := models.DriverStatusOffline
		if input.Status != "" {
			status = models.DriverStatus(input.Status)
		}

		driver := models.Driver{
			Name:          input.Name,
			Email:         input.Email,
			Phone:         input.Phone,
			LicenseNumber: input.LicenseNumber,
			Status:        status,
			Image:         input.Image,
			VehicleID:     input.VehicleID,
		}

		if err := db.Create(&driver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create driver"})
			return
		}

		c.JSON(201, gin.H{"driver": driver})
	}
}

func GetDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var driver models.Driver
		if err := db.Preload("Vehicle").First(&driver, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		// Recent bookings for the detail view.
		var bookings []models.Booking
		db.Where("driver_id = ?", driver.ID).
			Order("created_at DESC").
			Limit(10).
			Find(&bookings)

		c.JSON(200, gin.H{"driver": driver, "bookings": bookings})
	}
}

func UpdateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var driver models.Driver
		if err := db.First(&driver, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		var input UpdateDriverInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		if input.Email != nil && *input.Email != driver.Email {
			var count int64
			db.Model(&models.Driver{}).Where("email = ?", *input.Email).Count(&count)
			if count > 0 {
				c.JSON(409, gin.H{"error": "Email already in use"})
				return
			}
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Email != nil {
			updates["email"] = *input.Email
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.LicenseNumber != nil {
			updates["license_number"] = *input.LicenseNumber
		}
		if input.Status != nil {
			updates["status"] = *input.Status
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}
		if input.VehicleID != nil {
			updates["vehicle_id"] = *input.VehicleID
		}

		if len(updates) > 0 {
			if err := db.Model(&driver).Updates(updates).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update driver"})
				return
			}
		}

		var updated models.Driver
		if err := db.Preload("Vehicle").First(&updated, driver.ID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update driver"})
			return
		}

		c.JSON(200, gin.H{"driver": updated})
	}
}

// DeleteDriver removes a driver unless bookings reference them.
func DeleteDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var driver models.Driver
		if err := db.First(&driver, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		var bookingCount int64
		if err := db.Model(&models.Booking{}).Where("driver_id = ?", driver.ID).Count(&bookingCount).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete driver"})
			return
		}
		if bookingCount > 0 {
			c.JSON(409, gin.H{"error": "Cannot delete driver with existing bookings"})
			return
		}

		if err := db.Delete(&driver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete driver"})
			return
		}

		c.JSON(200, gin.H{"message": "Driver deleted successfully"})
	}
}
