package stats

import (
	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/sample"
)

// SeriesSummary is the mean and standard error of one pigment series.
type SeriesSummary struct {
	Mean          float64 `json:"mean"`
	StandardError float64 `json:"standard_error"`
}

// PigmentSummary keeps the four chlorophyll-assay series apart.
type PigmentSummary struct {
	N          int           `json:"n"`
	ChlA       SeriesSummary `json:"chl_a"`
	ChlB       SeriesSummary `json:"chl_b"`
	TotalChl   SeriesSummary `json:"total_chl"`
	Carotenoid SeriesSummary `json:"carotenoid"`
	Unit       string        `json:"unit"`
}

// DescribePigments summarises chlorophyll a, chlorophyll b, total
// chlorophyll and carotenoid independently. Results without pigment values
// count as zeros.
func DescribePigments(results []sample.Computed) PigmentSummary {
	n := len(results)
	chlA := make([]float64, 0, n)
	chlB := make([]float64, 0, n)
	total := make([]float64, 0, n)
	carotenoid := make([]float64, 0, n)

	for _, r := range results {
		var p assay.Pigments
		if r.Pigments != nil {
			p = *r.Pigments
		}
		chlA = append(chlA, p.ChlA)
		chlB = append(chlB, p.ChlB)
		total = append(total, p.Total())
		carotenoid = append(carotenoid, p.Carotenoid)
	}

	return PigmentSummary{
		N:          n,
		ChlA:       describeSeries(chlA),
		ChlB:       describeSeries(chlB),
		TotalChl:   describeSeries(total),
		Carotenoid: describeSeries(carotenoid),
		Unit:       assay.UnitMicrogramPerML,
	}
}

func describeSeries(values []float64) SeriesSummary {
	s := Describe(values, "")
	return SeriesSummary{Mean: s.Mean, StandardError: s.StandardError}
}

// SelectionStatistics is the statistics panel of a selection: pigment
// series for the chlorophyll assay, a single Summary otherwise.
type SelectionStatistics struct {
	AnalysisType assay.Type      `json:"analysis_type,omitempty"`
	Empty        bool            `json:"empty"`
	Summary      *Summary        `json:"summary,omitempty"`
	Pigments     *PigmentSummary `json:"pigments,omitempty"`
}

// Selection dispatches on the assay of the first result.
func Selection(results []sample.Computed) SelectionStatistics {
	if len(results) == 0 {
		return SelectionStatistics{Empty: true}
	}

	t := results[0].AnalysisType
	if t == assay.ChlorophyllAB {
		pigments := DescribePigments(results)
		return SelectionStatistics{AnalysisType: t, Pigments: &pigments}
	}

	summary := Overall(results)
	return SelectionStatistics{AnalysisType: t, Summary: &summary}
}
