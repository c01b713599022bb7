package cancellation

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCancellationRoutes configures cancellation history and webhook routes
func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/users/cancellations", middleware.JWTAuth(), controller.ListMyCancellations)

	// Gateway callback, authenticated by the gateway's own signature
	// scheme at the ingress layer rather than user JWTs.
	rg.POST("/webhooks/refund-status", controller.RefundWebhook)
}
