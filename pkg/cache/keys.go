package cache

// Redis key layout for the booking service.
// Pattern: cinebook:{module}:{operation}:{identifier}

const keyPrefix = "cinebook"

// BuildSeatMapKey returns the cache key for a showtime's seat map.
func BuildSeatMapKey(showtimeID string) string {
	return keyPrefix + ":seats:map:" + showtimeID
}

// SeatMapPattern matches every cached seat map for invalidation sweeps.
const SeatMapPattern = keyPrefix + ":seats:map:*"

// BuildShowtimeKey returns the cache key for a showtime's detail view.
func BuildShowtimeKey(showtimeID string) string {
	return keyPrefix + ":showtimes:detail:" + showtimeID
}
