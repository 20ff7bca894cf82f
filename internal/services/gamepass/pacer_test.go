package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalPacerWaitsEachPause(t *testing.T) {
	p := NewIntervalPacer(20 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Pause(context.Background()))
	require.NoError(t, p.Pause(context.Background()))

	// Two pauses, each a full interval; the initial token is pre-drained.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestIntervalPacerWaitsAfterIdle(t *testing.T) {
	p := NewIntervalPacer(50 * time.Millisecond)
	require.NoError(t, p.Pause(context.Background()))

	// Idle long enough for the bucket to refill; the next Pause must still
	// wait a full interval rather than return instantly.
	time.Sleep(75 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Pause(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestIntervalPacerZeroInterval(t *testing.T) {
	p := NewIntervalPacer(0)

	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Pause(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestIntervalPacerCancelledContext(t *testing.T) {
	p := NewIntervalPacer(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, p.Pause(ctx))
}
