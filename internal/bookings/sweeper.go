package bookings

import (
	"context"
	"time"

	"cinebook/pkg/logger"
)

// expirer is the slice of Service the sweeper drives.
type expirer interface {
	SweepExpired(ctx context.Context, batchSize int) (int, error)
}

// Sweeper periodically reclaims reservations whose payment window has
// lapsed. More than one sweeper may run at once across processes; each
// booking is still reclaimed exactly once because claims are conditional
// writes in the repository.
type Sweeper struct {
	service expirer
	config  *SweeperConfig
	logger  *logger.Logger
	done    chan struct{}
}

// SweeperConfig contains the sweep schedule
type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

// DefaultSweeperConfig returns the default sweep schedule
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		Interval:  1 * time.Minute,
		BatchSize: 100,
	}
}

// NewSweeper creates an expiry sweeper
func NewSweeper(service expirer, config *SweeperConfig, log *logger.Logger) *Sweeper {
	if config == nil {
		config = DefaultSweeperConfig()
	}
	return &Sweeper{
		service: service,
		config:  config,
		logger:  log,
		done:    make(chan struct{}),
	}
}

// Start launches the sweep loop. One pass runs immediately so lapsed
// reservations do not survive a process restart by a full interval.
func (sw *Sweeper) Start(ctx context.Context) {
	sw.logger.Info("Starting expiry sweeper", "interval", sw.config.Interval.String(), "batch_size", sw.config.BatchSize)
	go sw.run(ctx)
}

// Stop terminates the sweep loop.
func (sw *Sweeper) Stop() {
	close(sw.done)
	sw.logger.Info("Expiry sweeper stopped")
}

func (sw *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(sw.config.Interval)
	defer ticker.Stop()

	sw.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			sw.sweep(ctx)
		case <-sw.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sw *Sweeper) sweep(ctx context.Context) {
	if _, err := sw.service.SweepExpired(ctx, sw.config.BatchSize); err != nil {
		sw.logger.ErrorWithContext(ctx, "Sweep pass failed", err, nil)
	}
}

// Status reports the sweeper schedule for the health endpoint.
func (sw *Sweeper) Status() map[string]interface{} {
	return map[string]interface{}{
		"interval":   sw.config.Interval.String(),
		"batch_size": sw.config.BatchSize,
		"status":     "running",
	}
}
