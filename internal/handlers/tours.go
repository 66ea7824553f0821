package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
)

type TourInput struct {
	Name             string   `json:"name" binding:"required,min=3"`
	Slug             string   `json:"slug" binding:"required,min=3"`
	Description      string   `json:"description" binding:"required,min=50"`
	ShortDescription string   `json:"shortDescription" binding:"required,min=20"`
	Duration         string   `json:"duration" binding:"required"`
	DurationHours    int      `json:"durationHours" binding:"required,min=1"`
	Price            float64  `json:"price" binding:"min=0"`
	Currency         string   `json:"currency"`
	Category         string   `json:"category" binding:"required,oneof=FULL_DAY HALF_DAY EVENING MULTI_DAY TRANSFER"`
	Highlights       []string `json:"highlights"`
	Includes         []string `json:"includes"`
	Images           []string `json:"images"`
	Featured         bool     `json:"featured"`
	Active           *bool    `json:"active"`
}

// ListTours returns the public tour catalogue: active tours, optionally
// narrowed by category or featured flag.
func ListTours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Tour{}).Where("active = ?", true)

		if category := c.Query("category"); category != "" && category != "all" {
			query = query.Where("category = ?", category)
		}
		if c.Query("featured") == "true" {
			query = query.Where("featured = ?", true)
		}

		var tours []models.Tour
		if err := query.Order("featured DESC, created_at DESC").Find(&tours).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch tours"})
			return
		}

		c.JSON(200, gin.H{"tours": tours})
	}
}

// ListAllTours is the admin view: inactive tours included.
func ListAllTours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Tour{})

		if category := c.Query("category"); category != "" && category != "all" {
			query = query.Where("category = ?", category)
		}
		if active := c.Query("active"); active == "true" {
			query = query.Where("active = ?", true)
		} else if active == "false" {
			query = query.Where("active = ?", false)
		}

		var tours []models.Tour
		if err := query.Order("created_at DESC").Find(&tours).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch tours"})
			return
		}

		c.JSON(200, gin.H{"tours": tours})
	}
}

func GetTourBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tour models.Tour
		if err := db.Where("slug = ? AND active = ?", c.Param("slug"), true).First(&tour).Error; err != nil {
			c.JSON(404, gin.H{"error": "Tour not found"})
			return
		}

		c.JSON(200, gin.H{"tour": tour})
	}
}

func CreateTour(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TourInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		var count int64
		db.Model(&models.Tour{}).Where("slug = ?", input.Slug).Count(&count)
		if count > 0 {
			c.JSON(409, gin.H{"error": "Tour with this slug already exists"})
			return
		}

		currency := input.Currency
		if currency == "" {
			currency = "ISK"
		}
		active := true
		if input.Active != nil {
			active = *input.Active
		}

		tour := models.Tour{
			Name:             input.Name,
			Slug:             input.Slug,
			Description:      input.Description,
			ShortDescription: input.ShortDescription,
			Duration:         input.Duration,
			DurationHours:    input.DurationHours,
			Price:            input.Price,
			Currency:         currency,
			Category:         models.TourCategory(input.Category),
			Highlights:       input.Highlights,
			Includes:         input.Includes,
			Images:           input.Images,
			Featured:         input.Featured,
			Active:           active,
		}

		if err := db.Create(&tour).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create tour"})
			return
		}

		c.JSON(201, gin.H{"tour": tour})
	}
}

func UpdateTour(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tour models.Tour
		if err := db.First(&tour, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Tour not found"})
			return
		}

		var input TourInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		if input.Slug != tour.Slug {
			var count int64
			db.Model(&models.Tour{}).Where("slug = ?", input.Slug).Count(&count)
			if count > 0 {
				c.JSON(409, gin.H{"error": "Slug already in use"})
				return
			}
		}

		tour.Name = input.Name
		tour.Slug = input.Slug
		tour.Description = input.Description
		tour.ShortDescription = input.ShortDescription
		tour.Duration = input.Duration
		tour.DurationHours = input.DurationHours
		tour.Price = input.Price
		if input.Currency != "" {
			tour.Currency = input.Currency
		}
		tour.Category = models.TourCategory(input.Category)
		tour.Highlights = input.Highlights
		tour.Includes = input.Includes
		tour.Images = input.Images
		tour.Featured = input.Featured
		if input.Active != nil {
			tour.Active = *input.Active
		}

		if err := db.Save(&tour).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update tour"})
			return
		}

		c.JSON(200, gin.H{"tour": tour})
	}
}

// DeleteTour removes a tour unless bookings reference it; referenced tours
// can only be deactivated.
func DeleteTour(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tour models.Tour
		if err := db.First(&tour, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Tour not found"})
			return
		}

		var bookingCount int64
		if err := db.Model(&models.Booking{}).Where("tour_id = ?", tour.ID).Count(&bookingCount).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete tour"})
			return
		}
		if bookingCount > 0 {
			c.JSON(409, gin.H{"error": "Cannot delete tour with existing bookings"})
			return
		}

		if err := db.Delete(&tour).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete tour"})
			return
		}

		c.JSON(200, gin.H{"message": "Tour deleted successfully"})
	}
}
