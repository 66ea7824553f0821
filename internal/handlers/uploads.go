package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/primetaxi/backend/internal/services"
)

var uploadFolders = map[string]bool{
	"tours":    true,
	"drivers":  true,
	"vehicles": true,
}

// UploadImage accepts a multipart image for a tour, driver or vehicle and
// returns its public URL.
func UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "No image file provided"})
			return
		}

		if file.Size > 5*1024*1024 {
			c.JSON(400, gin.H{"error": "Image must be smaller than 5MB"})
			return
		}

		folder := strings.ToLower(c.DefaultPostForm("folder", "tours"))
		if !uploadFolders[folder] {
			c.JSON(400, gin.H{"error": "Invalid upload folder"})
			return
		}

		url, err := services.UploadImage(file, folder)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"url": url})
	}
}
