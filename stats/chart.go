package stats

import "github.com/timgluz/phytolab/sample"

// ChartPoint is one bar of the results chart.
type ChartPoint struct {
	Name      string    `json:"name"`
	Key       string    `json:"key,omitempty"`
	Value     float64   `json:"value"`
	ErrorY    float64   `json:"error_y"`
	Unit      string    `json:"unit,omitempty"`
	N         int       `json:"n"`
	RawValues []float64 `json:"raw_values"`
}

// Chart builds one bar per treatment carrying the mean and its standard
// error, or one bar per sample when grouped is false.
func Chart(results []sample.Computed, grouped bool) []ChartPoint {
	if grouped {
		groups := Aggregate(results, GroupByTreatment)
		points := make([]ChartPoint, 0, len(groups))
		for _, g := range groups {
			points = append(points, ChartPoint{
				Name:      g.Treatment,
				Key:       g.Key,
				Value:     g.Mean,
				ErrorY:    g.StandardError,
				Unit:      g.Unit,
				N:         g.N,
				RawValues: g.Values,
			})
		}
		return points
	}

	points := make([]ChartPoint, 0, len(results))
	for _, r := range results {
		points = append(points, ChartPoint{
			Name:      r.SampleName,
			Value:     r.Value,
			Unit:      r.Unit,
			N:         1,
			RawValues: []float64{r.Value},
		})
	}
	return points
}
