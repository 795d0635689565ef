package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of frequency bins 0 through len(data)/2
// of data with its mean removed. The last bin is the Nyquist frequency, where
// period-2 oscillators show up.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	freq := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(freq[i])
	}
	return ps
}

// Peak describes the strongest non-DC frequency of a series.
type Peak struct {
	Bin    int
	Period float64 // in samples
	Power  float64
}

// DominantPeriod finds the strongest non-DC bin. ok is false for series that
// are too short or have no measurable oscillation.
func DominantPeriod(data []float64) (Peak, bool) {
	if len(data) < 4 {
		return Peak{}, false
	}
	ps := PowerSpectrum(data)

	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}

	scale := 0.0
	for _, v := range data {
		scale = math.Max(scale, math.Abs(v))
	}
	if ps[best] <= 1e-9*math.Max(scale, 1)*float64(len(data)) {
		return Peak{}, false
	}

	return Peak{
		Bin:    best,
		Period: float64(len(data)) / float64(best),
		Power:  ps[best],
	}, true
}
