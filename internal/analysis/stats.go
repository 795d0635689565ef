package analysis

import "math"

type Summary struct {
	Samples int
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64
	// Drift is (last - first) / |first|, or 0 when first is 0.
	Drift float64
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	s := Summary{Samples: len(data), Min: data[0], Max: data[0]}
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
	}
	s.Mean /= float64(len(data))

	for _, v := range data {
		d := v - s.Mean
		s.StdDev += d * d
	}
	s.StdDev = math.Sqrt(s.StdDev / float64(len(data)))

	if first := data[0]; first != 0 {
		s.Drift = (data[len(data)-1] - first) / math.Abs(first)
	}
	return s
}
