package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestRealClockSince(t *testing.T) {
	clock := RealClock{}
	d := clock.Since(time.Now().Add(-time.Second))
	assert.GreaterOrEqual(t, d, time.Second)
}

func TestRealTickerStops(t *testing.T) {
	ticker := RealClock{}.NewTicker(time.Millisecond)
	<-ticker.C()
	ticker.Stop()
}

func TestMockClockAdvance(t *testing.T) {
	clock := NewMockClock(epoch)
	clock.Advance(150 * time.Millisecond)

	assert.Equal(t, epoch.Add(150*time.Millisecond), clock.Now())
	assert.Equal(t, 150*time.Millisecond, clock.Since(epoch))
}

func TestMockTickerPeriodAndStop(t *testing.T) {
	clock := NewMockClock(epoch)
	ticker := clock.NewTicker(150 * time.Millisecond)

	clock.Advance(150 * time.Millisecond)
	require.Len(t, ticker.C(), 1)
	assert.Equal(t, epoch.Add(150*time.Millisecond), <-ticker.C())

	clock.Advance(100 * time.Millisecond)
	assert.Len(t, ticker.C(), 0)

	clock.Advance(50 * time.Millisecond)
	assert.Len(t, ticker.C(), 1)
	<-ticker.C()

	ticker.Stop()
	clock.Advance(time.Second)
	assert.Len(t, ticker.C(), 0)

	tickers := clock.Tickers()
	require.Len(t, tickers, 1)
	assert.True(t, tickers[0].Stopped())
}

func TestMockTickerSkipsMissedDeadlines(t *testing.T) {
	clock := NewMockClock(epoch)
	ticker := clock.NewTicker(100 * time.Millisecond)

	// Several periods in one step deliver a single tick.
	clock.Advance(350 * time.Millisecond)
	assert.Len(t, ticker.C(), 1)
	<-ticker.C()

	// The next deadline stays on the original grid.
	clock.Advance(50 * time.Millisecond)
	assert.Len(t, ticker.C(), 1)
}
