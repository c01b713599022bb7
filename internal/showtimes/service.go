package showtimes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrShowtimeNotFound = errors.New("showtime not found")

// SeatSeeder pre-seeds the seat map when a showtime is scheduled
// (narrow interface to avoid a dependency on the seats package).
type SeatSeeder interface {
	SeedSeats(ctx context.Context, showtimeID uuid.UUID, rows, seatsPerRow int, price float64) error
}

// Service interface defines the contract for showtime catalog logic
type Service interface {
	CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error)
	GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error)
	ListUpcoming(ctx context.Context, query ShowtimeListQuery) ([]Showtime, int64, error)
}

type service struct {
	repo   Repository
	seeder SeatSeeder
}

// NewService creates a new showtime service instance
func NewService(repo Repository, seeder SeatSeeder) Service {
	return &service{
		repo:   repo,
		seeder: seeder,
	}
}

// CreateShowtime schedules a screening and seeds its seat map.
func (s *service) CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error) {
	if req.StartsAt.Before(time.Now()) {
		return nil, fmt.Errorf("showtime must start in the future")
	}

	showtime := &Showtime{
		MovieTitle:  req.MovieTitle,
		HallName:    req.HallName,
		StartsAt:    req.StartsAt.UTC(),
		BasePrice:   req.BasePrice,
		SeatRows:    req.SeatRows,
		SeatsPerRow: req.SeatsPerRow,
	}

	if err := s.repo.Create(ctx, showtime); err != nil {
		return nil, fmt.Errorf("failed to create showtime: %w", err)
	}

	if err := s.seeder.SeedSeats(ctx, showtime.ID, req.SeatRows, req.SeatsPerRow, req.BasePrice); err != nil {
		return nil, fmt.Errorf("failed to seed seats for showtime %s: %w", showtime.ID, err)
	}

	return showtime, nil
}

// GetShowtime retrieves a showtime by ID
func (s *service) GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	showtime, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}
	return showtime, nil
}

// ListUpcoming retrieves upcoming showtimes with pagination
func (s *service) ListUpcoming(ctx context.Context, query ShowtimeListQuery) ([]Showtime, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	offset := (query.Page - 1) * query.Limit
	return s.repo.ListUpcoming(ctx, time.Now(), query.Limit, offset)
}
