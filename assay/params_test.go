package assay

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityUnmarshal(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
		set      bool
	}{
		{name: "number", input: `2.5`, expected: 2.5, set: true},
		{name: "zero", input: `0`, expected: 0, set: true},
		{name: "numeric string", input: `"0.0123"`, expected: 0.0123, set: true},
		{name: "decimal comma", input: `"1,5"`, expected: 1.5, set: true},
		{name: "padded string", input: `" 3 "`, expected: 3, set: true},
		{name: "empty string", input: `""`},
		{name: "text", input: `"abc"`},
		{name: "null", input: `null`},
		{name: "boolean", input: `true`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tc.input), &q)
			assert.NoError(t, err)

			v, set := q.Float()
			assert.Equal(t, tc.set, set)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestQuantityValue(t *testing.T) {
	assert.True(t, Value(math.NaN()).IsZero())
	assert.True(t, Value(math.Inf(1)).IsZero())
	assert.False(t, Value(0).IsZero())
	assert.Equal(t, 7.0, Quantity{}.Or(7))
	assert.Equal(t, 0.0, Value(0).Or(7))
}

func TestParamsJSON(t *testing.T) {
	input := `{
		"std_a": "0.0123",
		"std_b": 0.004,
		"dilution_factor": "",
		"cat": {"total_vol": 3000, "enzyme_vol": "100", "enzyme_conc": 2},
		"anthocyanin": {"V": 4}
	}`

	var p Params
	require.NoError(t, json.Unmarshal([]byte(input), &p))

	curve, ok := p.LinearCurve()
	require.True(t, ok)
	assert.Equal(t, 0.0123, curve.Slope)
	assert.Equal(t, 0.004, curve.Intercept)
	assert.Equal(t, 1.0, curve.Dilution)
	assert.Equal(t, 1.0, curve.AbsDilution)

	require.NotNil(t, p.CAT)
	_, ok = p.CAT.Enzyme(0)
	assert.False(t, ok, "no ΔA from reading or delta_A")
	cfg, ok := p.CAT.Enzyme(0.05)
	require.True(t, ok)
	assert.Equal(t, 100.0, cfg.EnzymeVolume)

	antho := p.AnthocyaninConfig()
	assert.Equal(t, 4.0, antho.ExtractionVolume)
	assert.Equal(t, DefaultAnthocyanin.MolecularWeight, antho.MolecularWeight)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"std_a": 0.0123,
		"std_b": 0.004,
		"cat": {"total_vol": 3000, "enzyme_vol": 100, "enzyme_conc": 2},
		"anthocyanin": {"V": 4}
	}`, string(out))
}

func TestParamsIsEmpty(t *testing.T) {
	assert.True(t, Params{}.IsEmpty())
	assert.False(t, Params{DPPHControl: Value(1)}.IsEmpty())
	assert.False(t, Params{SOD: &SODParams{}}.IsEmpty())
}

func TestLinearCurveIncomplete(t *testing.T) {
	testCases := []struct {
		name   string
		params Params
	}{
		{name: "nothing set", params: Params{}},
		{name: "zero slope", params: Params{StdA: Value(0), StdB: Value(1)}},
		{name: "no intercept", params: Params{StdA: Value(1)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := tc.params.LinearCurve()
			assert.False(t, ok)
		})
	}
}
