package seats

import (
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

// GetSeatMap handles GET /api/v1/showtimes/:id/seats
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), showtimeID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get seat map", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved successfully", gin.H{
		"showtime_id": showtimeID,
		"seats":       seatMap,
	}, nil)
}

// ReserveSeats handles POST /api/v1/seats/reserve. Holds a batch of seats
// without creating a booking yet; responds 409 with the contended seat IDs
// when any seat in the batch cannot be acquired.
func (c *Controller) ReserveSeats(ctx *gin.Context) {
	var req ReserveSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, err := uuid.Parse(ctx.GetString("user_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, nil)
		return
	}

	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat ID", nil, raw)
			return
		}
		seatIDs = append(seatIDs, id)
	}

	held, expiresAt, err := c.service.ReserveSeats(ctx.Request.Context(), showtimeID, seatIDs, userID)
	if err != nil {
		if conflict, ok := IsConflict(err); ok {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are unavailable", nil, gin.H{
				"conflicting_seat_ids": conflict.SeatIDs,
			})
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to reserve seats", nil, err.Error())
		return
	}

	views := make([]SeatView, len(held))
	var total float64
	for i := range held {
		views[i] = SeatView{
			ID:     held[i].ID,
			Row:    held[i].Row,
			Number: held[i].Number,
			Status: StatusReserved,
			Price:  held[i].Price,
		}
		total += held[i].Price
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats reserved successfully", ReserveSeatsResponse{
		ShowtimeID: req.ShowtimeID,
		SeatIDs:    req.SeatIDs,
		ExpiresAt:  expiresAt,
		Seats:      views,
		TotalPrice: total,
	}, nil)
}
