package analysis

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/calibration"
	"github.com/timgluz/phytolab/sample"
	"github.com/timgluz/phytolab/stats"
)

func newTestEngine() *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(sample.NewInMemoryRepository(logger), calibration.NewInMemoryStore(logger), logger)
}

func phenolSample(treatment, name string, absorbance float64) *sample.Sample {
	return &sample.Sample{
		TreatmentName:    treatment,
		SampleName:       name,
		AbsorbanceValues: sample.Absorbance{"765": absorbance},
	}
}

func TestEngineResults(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()
	require.True(t, engine.IsReady())

	_, err := engine.AddSamples(ctx, assay.TotalPhenol, []*sample.Sample{
		phenolSample("Salt", "Rep1", 9),
		phenolSample("Control", "Rep2", 7),
		phenolSample("Control", "Rep1", 5),
	})
	require.NoError(t, err)

	results, err := engine.Results(ctx, assay.TotalPhenol, ResultOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 0.0, r.Value)
		assert.Equal(t, assay.UnitNotAvailable, r.Unit)
		assert.True(t, r.Incomplete)
	}

	require.NoError(t, engine.ApplyParams(ctx, assay.TotalPhenol, assay.Params{StdA: assay.Value(2), StdB: assay.Value(1)}))

	results, err = engine.Results(ctx, assay.TotalPhenol, ResultOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Control", results[0].TreatmentName)
	assert.Equal(t, "Rep1", results[0].SampleName)
	assert.InDelta(t, 2.0, results[0].Value, 1e-12)
	assert.Equal(t, "Rep2", results[1].SampleName)
	assert.InDelta(t, 3.0, results[1].Value, 1e-12)
	assert.Equal(t, "Salt", results[2].TreatmentName)
	assert.InDelta(t, 4.0, results[2].Value, 1e-12)
	assert.Equal(t, assay.UnitGallicAcid, results[2].Unit)
}

func TestEngineResultsPeriod(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	old := phenolSample("Control", "Old", 1)
	old.CreatedDate = time.Now().UTC().Add(-72 * time.Hour)
	_, err := engine.AddSamples(ctx, assay.TotalPhenol, []*sample.Sample{old, phenolSample("Control", "New", 1)})
	require.NoError(t, err)

	results, err := engine.Results(ctx, assay.TotalPhenol, ResultOptions{Period: "P1D"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "New", results[0].SampleName)

	_, err = engine.Results(ctx, assay.TotalPhenol, ResultOptions{Period: "yesterday"})
	assert.ErrorIs(t, err, sample.ErrInvalidPeriod)
}

func TestEngineStatistics(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()
	require.NoError(t, engine.ApplyParams(ctx, assay.TotalPhenol, assay.Params{StdA: assay.Value(1), StdB: assay.Value(0)}))

	added, err := engine.AddSamples(ctx, assay.TotalPhenol, []*sample.Sample{
		phenolSample("Control", "Rep1", 2),
		phenolSample("Control", "Rep2", 4),
		phenolSample("Control", "Rep3", 6),
		phenolSample("Drought", "Rep1", 10),
	})
	require.NoError(t, err)

	all, err := engine.Statistics(ctx, assay.TotalPhenol, nil)
	require.NoError(t, err)
	require.NotNil(t, all.Summary)
	assert.Equal(t, 4, all.Summary.N)

	selection, err := engine.Statistics(ctx, assay.TotalPhenol, []string{added[0].ID, added[1].ID, added[2].ID, "unknown"})
	require.NoError(t, err)
	require.NotNil(t, selection.Summary)
	assert.Equal(t, 3, selection.Summary.N)
	assert.InDelta(t, 4.0, selection.Summary.Mean, 1e-12)
	assert.InDelta(t, 2.0, selection.Summary.StandardDeviation, 1e-12)

	groups, err := engine.Groups(ctx, assay.TotalPhenol, stats.GroupByTreatment, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Drought", groups[1].Treatment)
	assert.Equal(t, 1, groups[1].N)

	chart, err := engine.Chart(ctx, assay.TotalPhenol, true)
	require.NoError(t, err)
	require.Len(t, chart, 2)
	assert.InDelta(t, 2/1.7320508075688772, chart[0].ErrorY, 1e-12)

	empty, err := engine.Statistics(ctx, assay.DPPHScavenging, nil)
	require.NoError(t, err)
	assert.True(t, empty.Empty)
}

func TestEngineChlorophyllStatistics(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	_, err := engine.AddSamples(ctx, assay.ChlorophyllAB, []*sample.Sample{
		{TreatmentName: "Control", SampleName: "Rep1", AbsorbanceValues: sample.Absorbance{"665.2": 0.5, "652.4": 0.3, "470": 0.4}},
		{TreatmentName: "Control", SampleName: "Rep2", AbsorbanceValues: sample.Absorbance{"665.2": 0.6, "652.4": 0.2, "470": 0.5}},
	})
	require.NoError(t, err)

	selection, err := engine.Statistics(ctx, assay.ChlorophyllAB, nil)
	require.NoError(t, err)
	require.NotNil(t, selection.Pigments)
	assert.Nil(t, selection.Summary)
	assert.Equal(t, 2, selection.Pigments.N)
	assert.Greater(t, selection.Pigments.ChlA.StandardError, 0.0)
}

func TestEngineUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	added, err := engine.AddSamples(ctx, assay.TotalPhenol, []*sample.Sample{phenolSample("Control", "Rep1", 5)})
	require.NoError(t, err)
	id := added[0].ID

	updated, err := engine.UpdateSample(ctx, assay.TotalPhenol, id, &sample.Sample{SampleName: "Rep9", AbsorbanceValues: sample.Absorbance{"765": 7}})
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "Rep9", updated.SampleName)
	assert.Equal(t, 7.0, updated.AbsorbanceValues["765"])

	_, err = engine.UpdateSample(ctx, assay.DPPHScavenging, id, &sample.Sample{SampleName: "x"})
	assert.ErrorIs(t, err, sample.ErrSampleNotFound)

	computed, err := engine.Sample(ctx, assay.TotalPhenol, id)
	require.NoError(t, err)
	assert.Equal(t, assay.UnitNotAvailable, computed.Unit)

	require.NoError(t, engine.RemoveSamples(ctx, assay.DPPHScavenging, id))
	results, err := engine.Results(ctx, assay.TotalPhenol, ResultOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 1, "removal is scoped to the assay")

	require.NoError(t, engine.RemoveSamples(ctx, assay.TotalPhenol, id))
	results, err = engine.Results(ctx, assay.TotalPhenol, ResultOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineAddSamplesErrors(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	_, err := engine.AddSamples(ctx, assay.Type("vitamin_c"), []*sample.Sample{phenolSample("A", "1", 1)})
	assert.ErrorIs(t, err, assay.ErrUnknownType)

	wrong := phenolSample("A", "1", 1)
	wrong.AnalysisType = assay.SOD
	_, err = engine.AddSamples(ctx, assay.TotalPhenol, []*sample.Sample{wrong})
	assert.ErrorIs(t, err, ErrAnalysisTypeMismatch)
}

func TestEngineAddSamplesKeepsIDsUnique(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	phenol := phenolSample("Control", "Rep1", 1)
	phenol.ID = "x"
	_, err := engine.AddSamples(ctx, assay.TotalPhenol, []*sample.Sample{phenol})
	require.NoError(t, err)

	sod := &sample.Sample{ID: "x", TreatmentName: "Salt", SampleName: "Rep1", AbsorbanceValues: sample.Absorbance{"560": 0.3}}
	_, err = engine.AddSamples(ctx, assay.SOD, []*sample.Sample{sod})
	assert.ErrorIs(t, err, sample.ErrSampleExists)

	results, err := engine.Results(ctx, assay.TotalPhenol, ResultOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Control", results[0].TreatmentName)

	results, err = engine.Results(ctx, assay.SOD, ResultOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineImportCSV(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	added, err := engine.ImportCSV(ctx, assay.DPPHScavenging, strings.NewReader("treatment_name;sample_name;517\nControl;Rep1;0,4\n"))
	require.NoError(t, err)
	require.Len(t, added, 1)

	require.NoError(t, engine.ApplyParams(ctx, assay.DPPHScavenging, assay.Params{DPPHControl: assay.Value(1)}))
	results, err := engine.Results(ctx, assay.DPPHScavenging, ResultOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 60.0, results[0].Value, 1e-9)

	_, err = engine.ImportCSV(ctx, assay.DPPHScavenging, strings.NewReader(""))
	assert.ErrorIs(t, err, sample.ErrNoRows)
}

func TestEngineWithLanguage(t *testing.T) {
	engine := newTestEngine().WithLanguage("ko")
	assert.Equal(t, "ko", engine.language.String())

	engine.WithLanguage("???")
	assert.Equal(t, "ko", engine.language.String())
}
