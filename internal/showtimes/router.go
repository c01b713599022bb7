package showtimes

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShowtimeRoutes configures all showtime catalog routes
func SetupShowtimeRoutes(rg *gin.RouterGroup, controller *Controller) {
	showtimes := rg.Group("/showtimes")
	{
		showtimes.GET("", controller.ListShowtimes)
		showtimes.GET("/:id", controller.GetShowtime)

		showtimes.POST("", middleware.JWTAuth(), middleware.RequireAdmin(), controller.CreateShowtime)
	}
}
