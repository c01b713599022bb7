package seats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusAvailable.IsValid())
	assert.True(t, StatusReserved.IsValid())
	assert.True(t, StatusBooked.IsValid())
	assert.False(t, Status("HELD").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestEffectiveResolvesLapsedHolds(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.Equal(t, StatusAvailable, StatusReserved.Effective(&past, now),
		"a lapsed hold must read as AVAILABLE before the sweeper runs")
	assert.Equal(t, StatusReserved, StatusReserved.Effective(&future, now))
	assert.Equal(t, StatusBooked, StatusBooked.Effective(&past, now),
		"BOOKED never lapses")
	assert.Equal(t, StatusAvailable, StatusAvailable.Effective(nil, now))
}

func TestSeatHeldBy(t *testing.T) {
	now := time.Now()
	holder := uuid.New()
	other := uuid.New()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)

	seat := Seat{Status: StatusReserved, HolderUserID: &holder, HoldExpiresAt: &future}
	assert.True(t, seat.HeldBy(holder, now))
	assert.False(t, seat.HeldBy(other, now))

	seat.HoldExpiresAt = &past
	assert.False(t, seat.HeldBy(holder, now), "an expired hold is not a hold")

	booked := Seat{Status: StatusBooked}
	assert.False(t, booked.HeldBy(holder, now))
}

func TestSeatAcquirableBy(t *testing.T) {
	now := time.Now()
	holder := uuid.New()
	other := uuid.New()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)

	available := Seat{Status: StatusAvailable}
	assert.True(t, available.AcquirableBy(other, now))

	held := Seat{Status: StatusReserved, HolderUserID: &holder, HoldExpiresAt: &future}
	assert.True(t, held.AcquirableBy(holder, now), "re-holding your own seats extends the hold")
	assert.False(t, held.AcquirableBy(other, now))

	lapsed := Seat{Status: StatusReserved, HolderUserID: &holder, HoldExpiresAt: &past}
	assert.True(t, lapsed.AcquirableBy(other, now), "a lapsed hold is immediately claimable")

	booked := Seat{Status: StatusBooked}
	assert.False(t, booked.AcquirableBy(holder, now))
	assert.False(t, booked.AcquirableBy(other, now))
}

func TestSeatLabel(t *testing.T) {
	seat := Seat{Row: "C", Number: 7}
	assert.Equal(t, "C7", seat.Label())
}

func TestConflictErrorCarriesSeatIDs(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	var err error = &ConflictError{SeatIDs: ids}

	conflict, ok := IsConflict(err)
	assert.True(t, ok)
	assert.Equal(t, ids, conflict.SeatIDs)

	_, ok = IsConflict(ErrSeatNotFound)
	assert.False(t, ok)
}
