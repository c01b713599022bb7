package coupons

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCouponRoutes configures coupon validation and listing routes
func SetupCouponRoutes(rg *gin.RouterGroup, controller *Controller) {
	coupons := rg.Group("/coupons")
	coupons.Use(middleware.JWTAuth())
	{
		coupons.GET("", controller.ListMyCoupons)
		coupons.POST("/validate", controller.ValidateCoupon)
	}
}
