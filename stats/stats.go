// Package stats aggregates computed sample results into group statistics.
package stats

import "math"

// Summary is the descriptive statistics of one group of results.
//
// The standard deviation uses the n−1 denominator. With fewer than two
// values the spread measures are 0; an empty group is the zero Summary.
type Summary struct {
	N                      int     `json:"n"`
	Mean                   float64 `json:"mean"`
	StandardDeviation      float64 `json:"standard_deviation"`
	StandardError          float64 `json:"standard_error"`
	Variance               float64 `json:"variance"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	Unit                   string  `json:"unit,omitempty"`
}

func (s Summary) IsEmpty() bool {
	return s.N == 0
}

func Describe(values []float64, unit string) Summary {
	n := len(values)
	if n == 0 {
		return Summary{Unit: unit}
	}

	mean := Mean(values)
	sd := StandardDeviation(values, mean)

	summary := Summary{
		N:                 n,
		Mean:              mean,
		StandardDeviation: sd,
		StandardError:     StandardError(sd, n),
		Variance:          float64(sd * sd),
		Unit:              unit,
	}
	if mean != 0 {
		summary.CoefficientOfVariation = float64(sd/mean) * 100
	}

	return summary
}

// Mean sums left to right. An empty slice has mean 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StandardDeviation is the sample standard deviation around mean.
func StandardDeviation(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var squares float64
	for _, v := range values {
		d := v - mean
		squares += float64(d * d)
	}
	return math.Sqrt(squares / float64(n-1))
}

func StandardError(sd float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return sd / math.Sqrt(float64(n))
}
