// Package timing measures a single call of a kernel with the monotonic clock.
//
// There is no warm-up, repetition or outlier rejection: one call, one sample.
package timing

import "time"

// Sample is the elapsed time of one kernel call.
type Sample struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Nanoseconds returns the elapsed time in nanoseconds.
func (s Sample) Nanoseconds() int64 {
	return s.Elapsed.Nanoseconds()
}

// Measure calls fn once and returns how long it took. Both readings come from
// the monotonic clock. Elapsed is never negative.
func Measure(name string, fn func()) Sample {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	return Sample{Name: name, Elapsed: max(elapsed, 0)}
}

// Speedup returns how many times faster candidate ran than baseline.
// It is zero when either sample is zero.
func Speedup(baseline, candidate Sample) float64 {
	if baseline.Elapsed <= 0 || candidate.Elapsed <= 0 {
		return 0
	}
	return float64(baseline.Elapsed) / float64(candidate.Elapsed)
}
