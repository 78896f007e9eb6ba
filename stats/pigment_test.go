package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/sample"
)

func pigmentResult(chlA, chlB, carotenoid float64) sample.Computed {
	p := assay.Pigments{ChlA: chlA, ChlB: chlB, Carotenoid: carotenoid}
	return sample.Computed{
		Sample: sample.Sample{AnalysisType: assay.ChlorophyllAB, TreatmentName: "Control"},
		Result: assay.Result{Value: chlA, Unit: assay.UnitMicrogramPerML, Pigments: &p},
	}
}

func TestDescribePigments(t *testing.T) {
	results := []sample.Computed{
		pigmentResult(2, 1, 0.5),
		pigmentResult(4, 2, 1.0),
		pigmentResult(6, 3, 1.5),
	}

	summary := DescribePigments(results)

	assert.Equal(t, 3, summary.N)
	assert.Equal(t, assay.UnitMicrogramPerML, summary.Unit)
	assert.InDelta(t, 4.0, summary.ChlA.Mean, 1e-12)
	assert.InDelta(t, 2/math.Sqrt(3), summary.ChlA.StandardError, 1e-12)
	assert.InDelta(t, 2.0, summary.ChlB.Mean, 1e-12)
	assert.InDelta(t, 1/math.Sqrt(3), summary.ChlB.StandardError, 1e-12)
	assert.InDelta(t, 6.0, summary.TotalChl.Mean, 1e-12)
	assert.InDelta(t, 3/math.Sqrt(3), summary.TotalChl.StandardError, 1e-12)
	assert.InDelta(t, 1.0, summary.Carotenoid.Mean, 1e-12)
}

func TestDescribePigmentsMissingValues(t *testing.T) {
	withoutPigments := sample.Computed{
		Sample: sample.Sample{AnalysisType: assay.ChlorophyllAB},
		Result: assay.Result{Value: 0, Unit: assay.UnitMicrogramPerML},
	}

	summary := DescribePigments([]sample.Computed{pigmentResult(4, 2, 1), withoutPigments})
	assert.InDelta(t, 2.0, summary.ChlA.Mean, 1e-12)
	assert.InDelta(t, 1.0, summary.ChlB.Mean, 1e-12)
	assert.InDelta(t, 0.5, summary.Carotenoid.Mean, 1e-12)
}

func TestSelection(t *testing.T) {
	empty := Selection(nil)
	assert.True(t, empty.Empty)
	assert.Nil(t, empty.Summary)
	assert.Nil(t, empty.Pigments)

	chlorophyll := Selection([]sample.Computed{pigmentResult(2, 1, 0.5), pigmentResult(4, 2, 1)})
	assert.Equal(t, assay.ChlorophyllAB, chlorophyll.AnalysisType)
	require.NotNil(t, chlorophyll.Pigments)
	assert.Nil(t, chlorophyll.Summary)
	assert.Equal(t, 2, chlorophyll.Pigments.N)

	phenol := Selection([]sample.Computed{computed("A", "1", 2), computed("A", "2", 4), computed("B", "1", 6)})
	require.NotNil(t, phenol.Summary)
	assert.Nil(t, phenol.Pigments)
	assert.InDelta(t, 50.0, phenol.Summary.CoefficientOfVariation, 1e-12)
}
