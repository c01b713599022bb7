package bookings

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"cinebook/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type countingExpirer struct {
	passes atomic.Int32
}

func (c *countingExpirer) SweepExpired(context.Context, int) (int, error) {
	c.passes.Add(1)
	return 0, nil
}

func TestSweeperRunsOnStartAndOnTicks(t *testing.T) {
	expirer := &countingExpirer{}
	sweeper := NewSweeper(expirer, &SweeperConfig{
		Interval:  10 * time.Millisecond,
		BatchSize: 10,
	}, logger.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper.Start(ctx)
	time.Sleep(55 * time.Millisecond)
	sweeper.Stop()

	passes := expirer.passes.Load()
	assert.GreaterOrEqual(t, passes, int32(2), "expected the startup pass plus ticks, got %d", passes)

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, passes, expirer.passes.Load(), "no passes may run after Stop")
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	expirer := &countingExpirer{}
	sweeper := NewSweeper(expirer, &SweeperConfig{
		Interval:  10 * time.Millisecond,
		BatchSize: 10,
	}, logger.New())

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)
	time.Sleep(15 * time.Millisecond)
	cancel()
	time.Sleep(15 * time.Millisecond)

	passes := expirer.passes.Load()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, passes, expirer.passes.Load(), "no passes may run after context cancellation")
}

func TestDefaultSweeperConfig(t *testing.T) {
	cfg := DefaultSweeperConfig()
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, 100, cfg.BatchSize)
}
