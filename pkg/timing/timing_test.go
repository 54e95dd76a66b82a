package timing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	calls := 0
	s := Measure("noop", func() { calls++ })
	require.Equal(t, 1, calls, "kernel must run exactly once")
	require.Equal(t, "noop", s.Name)
	require.GreaterOrEqual(t, s.Elapsed, time.Duration(0))
	require.False(t, math.IsInf(float64(s.Nanoseconds()), 0))
}

func TestMeasure_Sleeps(t *testing.T) {
	s := Measure("sleep", func() { time.Sleep(2 * time.Millisecond) })
	require.GreaterOrEqual(t, s.Elapsed, 2*time.Millisecond)
	require.Equal(t, s.Elapsed.Nanoseconds(), s.Nanoseconds())
}

func TestSpeedup(t *testing.T) {
	base := Sample{Name: "add", Elapsed: 400 * time.Nanosecond}
	fast := Sample{Name: "add_vectorized", Elapsed: 100 * time.Nanosecond}

	require.InDelta(t, 4.0, Speedup(base, fast), 1e-9)
	require.InDelta(t, 0.25, Speedup(fast, base), 1e-9)
	require.Zero(t, Speedup(base, Sample{}))
	require.Zero(t, Speedup(Sample{}, fast))
}
