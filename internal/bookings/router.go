package bookings

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking lifecycle routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		bookings.POST("", controller.CreateBooking)
		bookings.GET("/:id", controller.GetBooking)
		bookings.PUT("/:id/seats", controller.UpdateSeats)
		bookings.POST("/:id/confirm-payment", controller.ConfirmPayment)
		bookings.POST("/:id/cancel", controller.CancelBooking)
	}

	rg.GET("/users/bookings", middleware.JWTAuth(), controller.ListMyBookings)
}
