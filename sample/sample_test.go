package sample

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/phytolab/assay"
)

func TestNew(t *testing.T) {
	s := New(assay.TotalPhenol, " Control ", "Rep1", nil)

	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Control", s.TreatmentName)
	assert.Equal(t, "Rep1", s.SampleName)
	assert.NotNil(t, s.AbsorbanceValues)
	assert.False(t, s.CreatedDate.IsZero())
	assert.Nil(t, s.UpdatedDate)

	other := New(assay.TotalPhenol, "Control", "Rep1", nil)
	assert.NotEqual(t, s.ID, other.ID)
}

func TestMerge(t *testing.T) {
	s := New(assay.Anthocyanin, "Control", "Rep1", Absorbance{"530": 0.5, "600": 0.1})
	id := s.ID

	s.Merge(&Sample{SampleName: "Rep2", AbsorbanceValues: Absorbance{"600": 0.2}})

	assert.Equal(t, id, s.ID)
	assert.Equal(t, "Control", s.TreatmentName)
	assert.Equal(t, "Rep2", s.SampleName)
	assert.Equal(t, Absorbance{"530": 0.5, "600": 0.2}, s.AbsorbanceValues)
	assert.NotNil(t, s.UpdatedDate)

	s.Merge(nil)
	assert.Equal(t, "Rep2", s.SampleName)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		sample      *Sample
		missing     []string
		expectError bool
	}{
		{
			name:    "complete chlorophyll sample",
			sample:  New(assay.ChlorophyllAB, "A", "1", Absorbance{"665.2": 0.5, "652.4": 0.3, "470": 0.4}),
			missing: nil,
		},
		{
			name:    "chlorophyll without 470",
			sample:  New(assay.ChlorophyllAB, "A", "1", Absorbance{"665.2": 0.5, "652.4": 0.3}),
			missing: []string{"470"},
		},
		{
			name:        "unknown assay",
			sample:      New(assay.Type("vitamin_c"), "A", "1", nil),
			expectError: true,
		},
		{
			name:        "nil sample",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			missing, err := tc.sample.Validate()
			if tc.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.missing, missing)
		})
	}
}

func TestAbsorbanceUnmarshal(t *testing.T) {
	input := `{"665.2": 0.5, "652.4": "0,25", "470": "", " 600 ": "abc", "530": null, "517": true}`

	var a Absorbance
	require.NoError(t, json.Unmarshal([]byte(input), &a))

	assert.Equal(t, Absorbance{
		"665.2": 0.5,
		"652.4": 0.25,
		"470":   0,
		"600":   0,
		"530":   0,
		"517":   0,
	}, a)

	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &a))
}

func TestParseReading(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
	}{
		{"0.123", 0.123},
		{" 0,145 ", 0.145},
		{"", 0},
		{"n/a", 0},
		{"NaN", 0},
		{"-Inf", 0},
		{"1e-3", 0.001},
		{"0.5abc", 0.5},
		{"0,42 AU", 0.42},
		{"-.25", -0.25},
		{"+3", 3},
		{"2e", 2},
		{"1e400", 0},
		{"abc0.5", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseReading(tc.input))
		})
	}
}

func TestSampleJSON(t *testing.T) {
	input := `{
		"treatment_name": "Drought",
		"sample_name": "Rep3",
		"analysis_type": "dpph_scavenging",
		"absorbance_values": {"517": "0.4"}
	}`

	var s Sample
	require.NoError(t, json.Unmarshal([]byte(input), &s))

	assert.Equal(t, assay.DPPHScavenging, s.AnalysisType)
	assert.Equal(t, 0.4, s.AbsorbanceValues["517"])
}

func TestCompute(t *testing.T) {
	s := New(assay.DPPHScavenging, "Control", "Rep1", Absorbance{"517": 0.4})

	computed, err := Compute(*s, assay.Params{DPPHControl: assay.Value(1)})
	require.NoError(t, err)
	assert.InDelta(t, 60.0, computed.Value, 1e-9)
	assert.Equal(t, assay.UnitInhibition, computed.Unit)
	assert.Equal(t, s.ID, computed.ID)
	assert.Empty(t, computed.MissingWavelengths)

	out, err := json.Marshal(computed)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Control", decoded["treatment_name"])
	assert.Equal(t, "% inhibition", decoded["unit"])
	assert.Contains(t, decoded, "result")
	assert.NotContains(t, decoded, "chl_a")

	_, err = Compute(Sample{AnalysisType: "vitamin_c"}, assay.Params{})
	assert.ErrorIs(t, err, assay.ErrUnknownType)
}

func TestComputeAllChlorophyll(t *testing.T) {
	samples := []Sample{
		*New(assay.ChlorophyllAB, "A", "1", Absorbance{"665.2": 0.5, "652.4": 0.3}),
	}

	computed, err := ComputeAll(samples, assay.Params{})
	require.NoError(t, err)
	require.Len(t, computed, 1)
	require.NotNil(t, computed[0].Pigments)
	assert.Equal(t, []string{"470"}, computed[0].MissingWavelengths)

	out, err := json.Marshal(computed[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"chl_b"`)
}
