package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/notify"
)

type sendPayload struct {
	OrderNumber string `json:"orderNumber"`
}

type sendRequest struct {
	FirstName string      `json:"firstName" binding:"required"`
	Payload   sendPayload `json:"payload"`
	UserEmail string      `json:"userEmail" binding:"required,email"`
}

// POST /api/send — fan-out trigger. The response always carries both
// per-message outcomes; a failed send is telemetry, not an error status.
func SendOrderEmails(dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/send"
		defer handlePanic(c, route)

		var req sendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindingError(c, route, err)
			return
		}

		result := dispatcher.DispatchOrder(c.Request.Context(), req.UserEmail, req.FirstName, req.Payload.OrderNumber)

		if !result.CustomerEmail.OK() {
			log.Printf("[%s] customer email failed: %s", route, result.CustomerEmail.Err)
		}
		if !result.InternalEmail.OK() {
			log.Printf("[%s] internal email failed: %s", route, result.InternalEmail.Err)
		}

		c.JSON(http.StatusOK, result)
	}
}
