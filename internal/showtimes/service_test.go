package showtimes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeShowtimeRepo struct {
	showtimes map[uuid.UUID]*Showtime
}

func newFakeShowtimeRepo() *fakeShowtimeRepo {
	return &fakeShowtimeRepo{showtimes: make(map[uuid.UUID]*Showtime)}
}

func (f *fakeShowtimeRepo) Create(_ context.Context, st *Showtime) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	f.showtimes[st.ID] = st
	return nil
}

func (f *fakeShowtimeRepo) GetByID(_ context.Context, id uuid.UUID) (*Showtime, error) {
	st, ok := f.showtimes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return st, nil
}

func (f *fakeShowtimeRepo) ListUpcoming(_ context.Context, from time.Time, limit, offset int) ([]Showtime, int64, error) {
	var out []Showtime
	for _, st := range f.showtimes {
		if !st.StartsAt.Before(from) {
			out = append(out, *st)
		}
	}
	return out, int64(len(out)), nil
}

type fakeSeeder struct {
	calls int
	rows  int
	cols  int
}

func (f *fakeSeeder) SeedSeats(_ context.Context, _ uuid.UUID, rows, seatsPerRow int, _ float64) error {
	f.calls++
	f.rows = rows
	f.cols = seatsPerRow
	return nil
}

func TestCreateShowtimeSeedsSeatMap(t *testing.T) {
	repo := newFakeShowtimeRepo()
	seeder := &fakeSeeder{}
	svc := NewService(repo, seeder)

	st, err := svc.CreateShowtime(context.Background(), CreateShowtimeRequest{
		MovieTitle:  "Arrival",
		HallName:    "Hall 2",
		StartsAt:    time.Now().Add(48 * time.Hour),
		BasePrice:   240,
		SeatRows:    8,
		SeatsPerRow: 12,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, st.ID)
	assert.Equal(t, 1, seeder.calls)
	assert.Equal(t, 8, seeder.rows)
	assert.Equal(t, 12, seeder.cols)
}

func TestCreateShowtimeRejectsPastStart(t *testing.T) {
	svc := NewService(newFakeShowtimeRepo(), &fakeSeeder{})

	_, err := svc.CreateShowtime(context.Background(), CreateShowtimeRequest{
		MovieTitle:  "Arrival",
		HallName:    "Hall 2",
		StartsAt:    time.Now().Add(-time.Hour),
		BasePrice:   240,
		SeatRows:    8,
		SeatsPerRow: 12,
	})
	assert.Error(t, err)
}

func TestGetShowtimeNotFound(t *testing.T) {
	svc := NewService(newFakeShowtimeRepo(), &fakeSeeder{})
	_, err := svc.GetShowtime(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestHasStarted(t *testing.T) {
	now := time.Now()
	upcoming := &Showtime{StartsAt: now.Add(time.Hour)}
	running := &Showtime{StartsAt: now.Add(-time.Hour)}

	assert.False(t, upcoming.HasStarted(now))
	assert.True(t, running.HasStarted(now))
	assert.True(t, (&Showtime{StartsAt: now}).HasStarted(now))
}
