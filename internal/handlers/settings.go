package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/primetaxi/backend/internal/services"
)

func GetSettings(store *services.SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := store.Get(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch settings"})
			return
		}

		c.JSON(200, gin.H{"settings": settings})
	}
}

// UpdateSettings applies a partial settings update. Unknown keys are
// rejected with the key named in the response.
func UpdateSettings(store *services.SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input map[string]string
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
			return
		}
		if len(input) == 0 {
			c.JSON(400, gin.H{"error": "Validation failed", "details": "no settings provided"})
			return
		}

		if err := store.Set(c.Request.Context(), input); err != nil {
			if errors.Is(err, services.ErrUnknownSetting) {
				c.JSON(400, gin.H{"error": "Validation failed", "details": err.Error()})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update settings"})
			return
		}

		settings, err := store.Get(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch settings"})
			return
		}

		c.JSON(200, gin.H{"settings": settings})
	}
}
