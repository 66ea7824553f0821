package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/primetaxi/backend/internal/services"
)

// StripeWebhook receives gateway events. The signature is verified before
// anything else; unsigned or badly signed payloads are rejected without
// touching any booking. A 2xx tells the gateway to stop retrying, so only
// handler failures return 5xx.
func StripeWebhook(gateway services.PaymentGateway, svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to read request body"})
			return
		}

		signature := c.GetHeader("Stripe-Signature")
		if signature == "" {
			log.Printf("Webhook rejected: missing signature header")
			c.JSON(400, gin.H{"error": "Missing signature"})
			return
		}

		event, err := gateway.VerifyEvent(payload, signature)
		if err != nil {
			log.Printf("Webhook rejected: %v", err)
			c.JSON(400, gin.H{"error": "Invalid signature"})
			return
		}

		if err := svc.HandleEvent(c.Request.Context(), event); err != nil {
			log.Printf("Webhook handling failed for event %s: %v", event.ID, err)
			c.JSON(500, gin.H{"error": "Webhook handling failed"})
			return
		}

		c.JSON(200, gin.H{"received": true})
	}
}
