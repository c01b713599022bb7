package seats

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes configures seat map and seat hold routes
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/showtimes/:id/seats", controller.GetSeatMap)

	seats := rg.Group("/seats")
	seats.Use(middleware.JWTAuth())
	{
		seats.POST("/reserve", controller.ReserveSeats)
	}
}
