package cancellation

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

// ListMyCancellations handles GET /api/v1/users/cancellations
func (c *Controller) ListMyCancellations(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.GetString("user_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, nil)
		return
	}

	cancellations, err := c.service.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list cancellations", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellations retrieved successfully", gin.H{
		"cancellations": cancellations,
		"total":         len(cancellations),
	}, nil)
}

// RefundWebhook handles POST /api/v1/webhooks/refund-status. Gateways may
// deliver the same event more than once; replays are acknowledged 200.
func (c *Controller) RefundWebhook(ctx *gin.Context) {
	var req RefundWebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid webhook payload", nil, err.Error())
		return
	}

	err := c.service.HandleRefundWebhook(ctx.Request.Context(), req.GatewayRefundID, req.Status == "succeeded")
	if err != nil {
		if errors.Is(err, ErrCancellationNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Unknown refund", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to process webhook", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Webhook processed", nil, nil)
}
