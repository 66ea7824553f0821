package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/primetaxi/backend/internal/services"
)

type CreateIntentInput struct {
	Amount   float64           `json:"amount" binding:"required"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// CreatePaymentIntent opens a standalone payment intent, used for custom
// quotes priced outside the standard table.
func CreatePaymentIntent(gateway services.PaymentGateway, currency services.CurrencySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateIntentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Invalid amount"})
			return
		}
		if input.Amount <= 0 {
			c.JSON(400, gin.H{"error": "Invalid amount"})
			return
		}

		cur := input.Currency
		if cur == "" {
			cur = currency.Currency(c.Request.Context())
		}

		intent, err := gateway.CreateIntent(c.Request.Context(), input.Amount, cur, input.Metadata)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to create payment intent"})
			return
		}

		c.JSON(200, gin.H{"clientSecret": intent.ClientSecret})
	}
}
