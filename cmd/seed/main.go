package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinebook/internal/coupons"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CineBook Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"cancellations",
		"payments",
		"booking_seats",
		"bookings",
		"user_coupons",
		"coupons",
		"showtime_seats",
		"showtimes",
		"users",
	}

	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll populates users, showtimes with seat maps, and coupons
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.seedUsers()
	if err != nil {
		return err
	}
	fmt.Printf("  👤 Seeded %d users\n", len(userIDs))

	showtimeCount, err := s.seedShowtimes(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("  🎬 Seeded %d showtimes with seat maps\n", showtimeCount)

	grantCount, err := s.seedCoupons(ctx, userIDs)
	if err != nil {
		return err
	}
	fmt.Printf("  🎟️  Seeded coupons with %d user grants\n", grantCount)

	return nil
}

func (s *Seeder) seedUsers() ([]uuid.UUID, error) {
	seedUsers := []users.User{
		{Email: "admin@cinebook.local", Name: "Admin", Role: users.RoleAdmin},
		{Email: "alice@example.com", Name: "Alice Nguyen", Role: users.RoleUser},
		{Email: "bob@example.com", Name: "Bob Tanaka", Role: users.RoleUser},
		{Email: "carol@example.com", Name: "Carol Mensah", Role: users.RoleUser},
	}

	ids := make([]uuid.UUID, 0, len(seedUsers))
	for i := range seedUsers {
		if err := s.db.PostgreSQL.Create(&seedUsers[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", seedUsers[i].Email, err)
		}
		ids = append(ids, seedUsers[i].ID)
	}
	return ids, nil
}

func (s *Seeder) seedShowtimes(ctx context.Context) (int, error) {
	seatRepo := seats.NewRepository(s.db.PostgreSQL)

	base := time.Now().Truncate(time.Hour)
	seedShowtimes := []showtimes.Showtime{
		{MovieTitle: "Interstellar (IMAX)", HallName: "Hall 1", StartsAt: base.Add(26 * time.Hour), BasePrice: 280, SeatRows: 10, SeatsPerRow: 14},
		{MovieTitle: "The Grand Budapest Hotel", HallName: "Hall 2", StartsAt: base.Add(28 * time.Hour), BasePrice: 220, SeatRows: 8, SeatsPerRow: 12},
		{MovieTitle: "Spirited Away", HallName: "Hall 3", StartsAt: base.Add(50 * time.Hour), BasePrice: 200, SeatRows: 8, SeatsPerRow: 10},
		{MovieTitle: "Dune: Part Two", HallName: "Hall 1", StartsAt: base.Add(3 * time.Hour), BasePrice: 300, SeatRows: 10, SeatsPerRow: 14},
	}

	for i := range seedShowtimes {
		st := &seedShowtimes[i]
		if err := s.db.PostgreSQL.Create(st).Error; err != nil {
			return 0, fmt.Errorf("failed to seed showtime %q: %w", st.MovieTitle, err)
		}
		if err := seatRepo.SeedSeats(ctx, st.ID, st.SeatRows, st.SeatsPerRow, st.BasePrice); err != nil {
			return 0, fmt.Errorf("failed to seed seats for %q: %w", st.MovieTitle, err)
		}
	}
	return len(seedShowtimes), nil
}

func (s *Seeder) seedCoupons(ctx context.Context, userIDs []uuid.UUID) (int, error) {
	couponRepo := coupons.NewRepository(s.db.PostgreSQL)

	now := time.Now()
	seedCoupons := []coupons.Coupon{
		{Code: "WELCOME10", Description: "10% off your first booking", Type: coupons.DiscountPercentage, Value: 10, MinPurchase: 0, ValidFrom: now.Add(-24 * time.Hour), ValidUntil: now.Add(90 * 24 * time.Hour)},
		{Code: "MOVIE50", Description: "50 off orders over 400", Type: coupons.DiscountFixed, Value: 50, MinPurchase: 400, ValidFrom: now.Add(-24 * time.Hour), ValidUntil: now.Add(30 * 24 * time.Hour)},
		{Code: "EXPIRED25", Description: "Lapsed promo, kept for testing", Type: coupons.DiscountPercentage, Value: 25, MinPurchase: 0, ValidFrom: now.Add(-60 * 24 * time.Hour), ValidUntil: now.Add(-24 * time.Hour)},
	}

	for i := range seedCoupons {
		if err := couponRepo.CreateCoupon(ctx, &seedCoupons[i]); err != nil {
			return 0, fmt.Errorf("failed to seed coupon %s: %w", seedCoupons[i].Code, err)
		}
	}

	// Grant the live coupons to every non-admin user.
	grants := 0
	for _, userID := range userIDs[1:] {
		for i := range seedCoupons[:2] {
			grant := &coupons.UserCoupon{
				UserID:   userID,
				CouponID: seedCoupons[i].ID,
				Status:   coupons.GrantActive,
			}
			if err := couponRepo.GrantCoupon(ctx, grant); err != nil {
				return 0, fmt.Errorf("failed to grant coupon: %w", err)
			}
			grants++
		}
	}
	return grants, nil
}
