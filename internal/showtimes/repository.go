package showtimes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, showtime *Showtime) error
	GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error)
	ListUpcoming(ctx context.Context, from time.Time, limit, offset int) ([]Showtime, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, showtime *Showtime) error {
	return r.db.WithContext(ctx).Create(showtime).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).First(&showtime, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) ListUpcoming(ctx context.Context, from time.Time, limit, offset int) ([]Showtime, int64, error) {
	var showtimes []Showtime
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).
		Model(&Showtime{}).
		Where("starts_at >= ?", from)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("starts_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&showtimes).Error

	return showtimes, totalCount, err
}
