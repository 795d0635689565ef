// Package analysis characterizes the per-frame metric series of a run.
//
//   - [PowerSpectrum]: FFT magnitudes of a mean-removed series
//   - [DominantPeriod]: the strongest oscillation, in frames
//   - [Summarize]: range, mean, spread and drift
//
// A life population that settles into blinkers shows a period-2 peak:
//
//	peak, ok := analysis.DominantPeriod(populations)
//	if ok {
//	    fmt.Printf("period %.1f frames\n", peak.Period)
//	}
package analysis
