package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/primetaxi/backend/internal/models"
	"github.com/primetaxi/backend/pkg/utils"
)

type ContactInput struct {
	Name    string `json:"name" binding:"required,min=2"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required,min=3"`
	Message string `json:"message" binding:"required,min=10"`
}

// SubmitContact stores a contact-form message. The acknowledgement email is
// best effort; a mail failure never fails the submission.
func SubmitContact(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		submission := models.ContactSubmission{
			Name:    input.Name,
			Email:   input.Email,
			Phone:   input.Phone,
			Subject: input.Subject,
			Message: input.Message,
		}

		if err := db.Create(&submission).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to submit message"})
			return
		}

		go func() {
			if err := utils.SendContactAcknowledgement(submission.Name, submission.Email, submission.Subject); err != nil {
				log.Printf("Failed to send contact acknowledgement to %s: %v", submission.Email, err)
			}
		}()

		c.JSON(201, gin.H{"message": "Message received"})
	}
}

func ListContactSubmissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.ContactSubmission{})

		if read := c.Query("read"); read == "true" {
			query = query.Where("read = ?", true)
		} else if read == "false" {
			query = query.Where("read = ?", false)
		}

		var submissions []models.ContactSubmission
		if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch messages"})
			return
		}

		var unread int64
		db.Model(&models.ContactSubmission{}).Where("read = ?", false).Count(&unread)

		c.JSON(200, gin.H{"submissions": submissions, "unread": unread})
	}
}

// GetContactSubmission returns one message and marks it read.
func GetContactSubmission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var submission models.ContactSubmission
		if err := db.First(&submission, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Message not found"})
			return
		}

		if !submission.Read {
			if err := db.Model(&submission).Update("read", true).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch message"})
				return
			}
		}

		c.JSON(200, gin.H{"submission": submission})
	}
}

type UpdateContactInput struct {
	Read *bool `json:"read" binding:"required"`
}

func UpdateContactSubmission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var submission models.ContactSubmission
		if err := db.First(&submission, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Message not found"})
			return
		}

		var input UpdateContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}

		if err := db.Model(&submission).Update("read", *input.Read).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update message"})
			return
		}

		c.JSON(200, gin.H{"submission": submission})
	}
}

func DeleteContactSubmission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var submission models.ContactSubmission
		if err := db.First(&submission, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Message not found"})
			return
		}

		if err := db.Delete(&submission).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete message"})
			return
		}

		c.JSON(200, gin.H{"message": "Message deleted successfully"})
	}
}
