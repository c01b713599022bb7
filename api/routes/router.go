// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cinebook/internal/bookings"
	"cinebook/internal/cancellation"
	"cinebook/internal/coupons"
	"cinebook/internal/notifications"
	"cinebook/internal/payments"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	cache     cache.Service
	logger    *logger.Logger
	publisher notifications.Publisher

	bookingService bookings.Service
	sweeper        *bookings.Sweeper
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, log *logger.Logger, publisher notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		cache:     cacheService,
		logger:    log,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupBookingCore(api)
	}
}

// setupBookingCore wires the booking domain modules. Order matters: the
// seat ledger and coupon services are collaborators of the booking
// service, so they are built first.
func (r *Router) setupBookingCore(rg *gin.RouterGroup) {
	pg := r.db.GetPostgreSQL()

	// Seat ledger
	seatRepo := seats.NewRepository(pg)
	seatService := seats.NewService(seatRepo, r.cache, r.config, r.logger)
	seatController := seats.NewController(seatService)
	seats.SetupSeatRoutes(rg, seatController)

	// Showtime catalog, seeded seats come from the seat ledger
	showtimeRepo := showtimes.NewRepository(pg)
	showtimeService := showtimes.NewService(showtimeRepo, seatService)
	showtimeController := showtimes.NewController(showtimeService)
	showtimes.SetupShowtimeRoutes(rg, showtimeController)

	// Coupons
	couponRepo := coupons.NewRepository(pg)
	couponService := coupons.NewService(couponRepo, r.logger)
	couponController := coupons.NewController(couponService)
	coupons.SetupCouponRoutes(rg, couponController)

	// Payment gateways and cancellations
	gateways := payments.NewRegistry(
		payments.NewStripeGateway(r.logger),
		payments.NewOmiseGateway(r.logger),
		payments.NewPayPalGateway(r.logger),
	)
	cancellationRepo := cancellation.NewRepository(pg)
	cancellationService := cancellation.NewService(cancellationRepo, gateways, r.logger)
	cancellationController := cancellation.NewController(cancellationService)
	cancellation.SetupCancellationRoutes(rg, cancellationController)

	// Booking state machine on top of the rest
	bookingRepo := bookings.NewRepository(pg)
	r.bookingService = bookings.NewService(
		bookingRepo,
		seatService,
		showtimeService,
		couponService,
		cancellationService,
		r.publisher,
		r.logger,
	)
	bookingController := bookings.NewController(r.bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)

	r.sweeper = bookings.NewSweeper(r.bookingService, &bookings.SweeperConfig{
		Interval:  r.config.Booking.SweepInterval,
		BatchSize: r.config.Booking.SweepBatchSize,
	}, r.logger)
}

// Sweeper returns the expiry sweeper built during route setup
func (r *Router) Sweeper() *bookings.Sweeper {
	return r.sweeper
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		status := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		}
		if r.sweeper != nil {
			status["sweeper"] = r.sweeper.Status()
		}
		c.JSON(http.StatusOK, status)
	})
}
