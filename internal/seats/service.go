package seats

import (
	"context"
	"fmt"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	SeedSeats(ctx context.Context, showtimeID uuid.UUID, rows int, seatsPerRow int, price float64) error
	GetSeatMap(ctx context.Context, showtimeID uuid.UUID) ([]SeatView, error)
	ReserveSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) ([]Seat, time.Time, error)
	ReleaseSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error
	CommitSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error
	ReleaseSweptSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error
	ReleaseCancelledSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error
}

type service struct {
	repo   Repository
	cache  cache.Service
	config *config.Config
	logger *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		config: cfg,
		logger: log,
	}
}

func (s *service) SeedSeats(ctx context.Context, showtimeID uuid.UUID, rows int, seatsPerRow int, price float64) error {
	if err := s.repo.SeedSeats(ctx, showtimeID, rows, seatsPerRow, price); err != nil {
		return err
	}
	s.invalidateSeatMap(ctx, showtimeID)
	return nil
}

// GetSeatMap returns the seat map with lapsed holds already resolved to
// AVAILABLE. The map is cached briefly; mutations invalidate it, and the
// short TTL bounds staleness from sweeps racing the cache.
func (s *service) GetSeatMap(ctx context.Context, showtimeID uuid.UUID) ([]SeatView, error) {
	cacheKey := cache.BuildSeatMapKey(showtimeID.String())

	var views []SeatView
	err := s.cache.GetOrSet(ctx, cacheKey, s.config.Redis.SeatMapTTL, func() (interface{}, error) {
		seats, err := s.repo.GetSeats(ctx, showtimeID)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		result := make([]SeatView, len(seats))
		for i := range seats {
			result[i] = seats[i].ToView(now)
		}
		return result, nil
	}, &views)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat map: %w", err)
	}
	return views, nil
}

// ReserveSeats places a hold on the whole batch for the configured
// reservation window. All-or-nothing: on conflict no seat changes and the
// returned error names every contended seat.
func (s *service) ReserveSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) ([]Seat, time.Time, error) {
	if len(seatIDs) == 0 {
		return nil, time.Time{}, fmt.Errorf("no seats requested")
	}
	if max := s.config.Booking.MaxSeatsPerBooking; len(seatIDs) > max {
		return nil, time.Time{}, fmt.Errorf("cannot reserve more than %d seats per booking", max)
	}
	if hasDuplicates(seatIDs) {
		return nil, time.Time{}, fmt.Errorf("duplicate seat ids in request")
	}

	expiresAt := time.Now().Add(s.config.Booking.ReservationTTL)
	held, err := s.repo.TryHold(ctx, showtimeID, seatIDs, userID, expiresAt)
	if err != nil {
		return nil, time.Time{}, err
	}

	s.invalidateSeatMap(ctx, showtimeID)
	s.logger.InfoWithContext(ctx, "Seats held", map[string]interface{}{
		"showtime_id": showtimeID.String(),
		"user_id":     userID.String(),
		"seat_count":  len(held),
		"expires_at":  expiresAt,
	})
	return held, expiresAt, nil
}

func (s *service) ReleaseSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error {
	if err := s.repo.Release(ctx, showtimeID, seatIDs, userID); err != nil {
		return err
	}
	s.invalidateSeatMap(ctx, showtimeID)
	return nil
}

func (s *service) CommitSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error {
	if err := s.repo.Commit(ctx, showtimeID, seatIDs, userID); err != nil {
		return err
	}
	s.invalidateSeatMap(ctx, showtimeID)
	return nil
}

// ReleaseSweptSeats frees seats of reservations the sweeper has claimed.
// It ignores holder ownership since the owning reservation is already
// EXPIRED.
func (s *service) ReleaseSweptSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error {
	if err := s.repo.ReleaseAny(ctx, seatIDs); err != nil {
		return err
	}
	s.invalidateSeatMap(ctx, showtimeID)
	return nil
}

// ReleaseCancelledSeats frees the seats of a cancelled booking, including
// BOOKED seats of a paid one.
func (s *service) ReleaseCancelledSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error {
	if err := s.repo.ReleaseCancelled(ctx, showtimeID, seatIDs); err != nil {
		return err
	}
	s.invalidateSeatMap(ctx, showtimeID)
	return nil
}

func (s *service) invalidateSeatMap(ctx context.Context, showtimeID uuid.UUID) {
	key := cache.BuildSeatMapKey(showtimeID.String())
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to invalidate seat map cache", "showtime_id", showtimeID.String(), "error", err)
	}
}

func hasDuplicates(ids []uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
