package coupons

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ValidateCoupon handles POST /api/v1/coupons/validate
func (c *Controller) ValidateCoupon(ctx *gin.Context) {
	var req ValidateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, err := uuid.Parse(ctx.GetString("user_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, nil)
		return
	}

	result, err := c.service.Validate(ctx.Request.Context(), userID, req.Code, req.Total)
	if err != nil {
		switch {
		case errors.Is(err, ErrCouponNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Coupon not found", nil, nil)
		case errors.Is(err, ErrCouponExpired),
			errors.Is(err, ErrMinPurchaseNotMet),
			errors.Is(err, ErrNoActiveGrant):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Coupon not applicable", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to validate coupon", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon is valid", result, nil)
}

// ListMyCoupons handles GET /api/v1/coupons
func (c *Controller) ListMyCoupons(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.GetString("user_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, nil)
		return
	}

	grants, err := c.service.ListGrants(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list coupons", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupons retrieved successfully", gin.H{
		"coupons": grants,
		"total":   len(grants),
	}, nil)
}
