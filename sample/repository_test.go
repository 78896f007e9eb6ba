package sample

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/phytolab/assay"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(newTestLogger())
	require.True(t, repo.IsReady())

	first := New(assay.TotalPhenol, "Control", "Rep1", Absorbance{"765": 0.1})
	second := New(assay.TotalPhenol, "Control", "Rep2", Absorbance{"765": 0.2})
	other := New(assay.DPPHScavenging, "Control", "Rep1", Absorbance{"517": 0.4})

	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.AddBatch(ctx, []*Sample{second, other}))

	samples, err := repo.List(ctx, assay.TotalPhenol)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, first.ID, samples[0].ID)
	assert.Equal(t, second.ID, samples[1].ID)

	samples[0].AbsorbanceValues["765"] = 9
	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.1, stored.AbsorbanceValues["765"], "listed samples must be copies")

	stored.Merge(&Sample{TreatmentName: "Drought"})
	require.NoError(t, repo.Update(ctx, stored))

	updated, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drought", updated.TreatmentName)
	assert.NotNil(t, updated.UpdatedDate)

	require.NoError(t, repo.Delete(ctx, first.ID, "unknown"))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrSampleNotFound)

	samples, err = repo.List(ctx, assay.TotalPhenol)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, second.ID, samples[0].ID)

	require.NoError(t, repo.Close())
	samples, err = repo.List(ctx, assay.DPPHScavenging)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestInMemoryRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(newTestLogger())

	err := repo.Add(ctx, New(assay.Type("vitamin_c"), "A", "1", nil))
	assert.ErrorIs(t, err, assay.ErrUnknownType)

	err = repo.Update(ctx, New(assay.TotalPhenol, "A", "1", nil))
	assert.ErrorIs(t, err, ErrSampleNotFound)

	invalid := New(assay.TotalPhenol, "A", "1", nil)
	valid := New(assay.TotalPhenol, "A", "2", nil)
	invalid.AnalysisType = "unknown"
	assert.Error(t, repo.AddBatch(ctx, []*Sample{valid, invalid}))

	samples, err := repo.List(ctx, assay.TotalPhenol)
	require.NoError(t, err)
	assert.Empty(t, samples, "a rejected batch adds nothing")
}

func TestInMemoryRepositoryDuplicateIDs(t *testing.T) {
	ctx := context.Background()

	stored := New(assay.TotalPhenol, "Control", "Rep1", Absorbance{"765": 0.1})
	stored.ID = "x"

	sameID := func(t assay.Type, wl string) *Sample {
		s := New(t, "Drought", "Rep9", Absorbance{wl: 0.3})
		s.ID = "x"
		return s
	}

	tests := []struct {
		name  string
		batch []*Sample
	}{
		{
			name:  "same ID in another assay",
			batch: []*Sample{sameID(assay.SOD, "560")},
		},
		{
			name:  "same ID in the same assay",
			batch: []*Sample{sameID(assay.TotalPhenol, "765")},
		},
		{
			name: "fresh sample before a taken ID",
			batch: []*Sample{
				New(assay.TotalPhenol, "Control", "Rep2", Absorbance{"765": 0.2}),
				sameID(assay.TotalPhenol, "765"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewInMemoryRepository(newTestLogger())
			require.NoError(t, repo.Add(ctx, stored))

			err := repo.AddBatch(ctx, tc.batch)
			assert.ErrorIs(t, err, ErrSampleExists)

			samples, err := repo.List(ctx, assay.TotalPhenol)
			require.NoError(t, err)
			require.Len(t, samples, 1, "a rejected batch adds nothing")
			assert.Equal(t, "Control", samples[0].TreatmentName)

			got, err := repo.GetByID(ctx, "x")
			require.NoError(t, err)
			assert.Equal(t, assay.TotalPhenol, got.AnalysisType)
		})
	}
}

func TestValidateBatch(t *testing.T) {
	first := New(assay.TotalPhenol, "Control", "Rep1", nil)
	second := New(assay.TotalPhenol, "Control", "Rep2", nil)
	twin := New(assay.SOD, "Control", "Rep1", nil)
	twin.ID = first.ID
	noID := New(assay.TotalPhenol, "Control", "Rep3", nil)
	noID.ID = ""

	tests := []struct {
		name    string
		batch   []*Sample
		wantErr error
		invalid bool
	}{
		{name: "empty batch", batch: nil},
		{name: "distinct IDs", batch: []*Sample{first, second}},
		{name: "repeated ID", batch: []*Sample{first, twin}, wantErr: ErrSampleExists},
		{name: "missing ID", batch: []*Sample{noID}, invalid: true},
		{name: "nil sample", batch: []*Sample{first, nil}, invalid: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBatch(tc.batch)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.invalid:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
