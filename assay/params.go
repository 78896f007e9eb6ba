package assay

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity is an optional calibration value. Values typed into the
// parameter form arrive as numbers or strings; blank or non-numeric input
// leaves the quantity unset.
type Quantity struct {
	value float64
	set   bool
}

// Value returns a set quantity. Non-finite numbers stay unset.
func Value(v float64) Quantity {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Quantity{}
	}
	return Quantity{value: v, set: true}
}

func (q Quantity) Float() (float64, bool) {
	return q.value, q.set
}

// IsZero reports an unset quantity, so `omitzero` drops it when encoding.
func (q Quantity) IsZero() bool {
	return !q.set
}

// Or returns the value, or def when unset.
func (q Quantity) Or(def float64) float64 {
	if !q.set {
		return def
	}
	return q.value
}

// usable is the "field completed" check of the parameter form: set and
// non-zero.
func (q Quantity) usable() bool {
	return q.set && q.value != 0
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.set {
		return []byte("null"), nil
	}
	return json.Marshal(q.value)
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, ok := parseNumber(s); ok {
			*q = Value(v)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*q = Value(v)
	return nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Params is the calibration parameter set a user applies to every sample of
// one assay. Colorimetric assays use the flat fields, anthocyanin and the
// enzyme assays their nested records.
type Params struct {
	StdA              Quantity `json:"std_a,omitzero"`
	StdB              Quantity `json:"std_b,omitzero"`
	AbsDilutionFactor Quantity `json:"abs_dilution_factor,omitzero"`
	DilutionFactor    Quantity `json:"dilution_factor,omitzero"`
	DPPHControl       Quantity `json:"dpph_control,omitzero"`

	Anthocyanin *AnthocyaninParams `json:"anthocyanin,omitempty"`
	CAT         *EnzymeParams      `json:"cat,omitempty"`
	POD         *EnzymeParams      `json:"pod,omitempty"`
	SOD         *SODParams         `json:"sod,omitempty"`
}

type AnthocyaninParams struct {
	V                 Quantity `json:"V,omitzero"`
	N                 Quantity `json:"n,omitzero"`
	Mw                Quantity `json:"Mw,omitzero"`
	Epsilon           Quantity `json:"epsilon,omitzero"`
	M                 Quantity `json:"m,omitzero"`
	AbsDilutionFactor Quantity `json:"abs_dilution_factor,omitzero"`
}

type EnzymeParams struct {
	DeltaA              Quantity `json:"delta_A,omitzero"`
	TotalVolume         Quantity `json:"total_vol,omitzero"`
	EnzymeVolume        Quantity `json:"enzyme_vol,omitzero"`
	EnzymeConcentration Quantity `json:"enzyme_conc,omitzero"`
}

type SODParams struct {
	ControlAbs          Quantity `json:"control_abs,omitzero"`
	TotalVolume         Quantity `json:"total_vol,omitzero"`
	EnzymeVolume        Quantity `json:"enzyme_vol,omitzero"`
	EnzymeConcentration Quantity `json:"enzyme_conc,omitzero"`
}

// IsEmpty reports whether nothing has been applied yet.
func (p Params) IsEmpty() bool {
	return p == Params{}
}

// Effective configurations: user input merged over defaults, resolved once
// before a formula runs.

const defaultDilution = 1.0

type LinearCurveConfig struct {
	Slope       float64
	Intercept   float64
	AbsDilution float64
	Dilution    float64
}

// LinearCurve resolves the standard curve. ok is false while the slope or
// intercept is missing, or the slope is zero.
func (p Params) LinearCurve() (LinearCurveConfig, bool) {
	if !p.StdA.usable() || !p.StdB.set {
		return LinearCurveConfig{}, false
	}
	return LinearCurveConfig{
		Slope:       p.StdA.value,
		Intercept:   p.StdB.value,
		AbsDilution: p.AbsDilutionFactor.Or(defaultDilution),
		Dilution:    p.DilutionFactor.Or(defaultDilution),
	}, true
}

type GlucosinolateConfig struct {
	AbsDilution float64
	Dilution    float64
}

func (p Params) Glucosinolate() GlucosinolateConfig {
	return GlucosinolateConfig{
		AbsDilution: p.AbsDilutionFactor.Or(defaultDilution),
		Dilution:    p.DilutionFactor.Or(defaultDilution),
	}
}

type DPPHConfig struct {
	Control     float64
	AbsDilution float64
	Dilution    float64
}

func (p Params) DPPH() (DPPHConfig, bool) {
	if !p.DPPHControl.usable() {
		return DPPHConfig{}, false
	}
	return DPPHConfig{
		Control:     p.DPPHControl.value,
		AbsDilution: p.AbsDilutionFactor.Or(defaultDilution),
		Dilution:    p.DilutionFactor.Or(defaultDilution),
	}, true
}

type AnthocyaninConfig struct {
	ExtractionVolume float64 // V, mL
	Dilution         float64 // n
	MolecularWeight  float64 // Mw, cyanidin-3-glucoside
	Absorptivity     float64 // ε
	SampleMass       float64 // m, g
	AbsDilution      float64
}

var DefaultAnthocyanin = AnthocyaninConfig{
	ExtractionVolume: 2,
	Dilution:         1,
	MolecularWeight:  449.2,
	Absorptivity:     26900,
	SampleMass:       0.02,
	AbsDilution:      1,
}

func (p Params) AnthocyaninConfig() AnthocyaninConfig {
	c := DefaultAnthocyanin
	in := p.Anthocyanin
	if in == nil {
		return c
	}
	c.ExtractionVolume = in.V.Or(c.ExtractionVolume)
	c.Dilution = in.N.Or(c.Dilution)
	c.MolecularWeight = in.Mw.Or(c.MolecularWeight)
	c.Absorptivity = in.Epsilon.Or(c.Absorptivity)
	c.SampleMass = in.M.Or(c.SampleMass)
	c.AbsDilution = in.AbsDilutionFactor.Or(c.AbsDilution)
	return c
}

type EnzymeConfig struct {
	DeltaA              float64 // ΔA per minute
	TotalVolume         float64 // μL
	EnzymeVolume        float64 // μL
	EnzymeConcentration float64 // mg/mL
}

// Enzyme resolves CAT/POD parameters. The sample's own ΔA reading takes
// precedence over the delta_A field; every value must be completed.
func (in *EnzymeParams) Enzyme(reading float64) (EnzymeConfig, bool) {
	if in == nil {
		return EnzymeConfig{}, false
	}
	deltaA := Value(reading)
	if !deltaA.usable() {
		deltaA = in.DeltaA
	}
	if !deltaA.usable() || !in.TotalVolume.usable() || !in.EnzymeVolume.usable() || !in.EnzymeConcentration.usable() {
		return EnzymeConfig{}, false
	}
	return EnzymeConfig{
		DeltaA:              deltaA.value,
		TotalVolume:         in.TotalVolume.value,
		EnzymeVolume:        in.EnzymeVolume.value,
		EnzymeConcentration: in.EnzymeConcentration.value,
	}, true
}

type SODConfig struct {
	ControlAbs          float64
	TotalVolume         float64
	EnzymeVolume        float64
	EnzymeConcentration float64
}

func (in *SODParams) Config() (SODConfig, bool) {
	if in == nil {
		return SODConfig{}, false
	}
	if !in.ControlAbs.usable() || !in.TotalVolume.usable() || !in.EnzymeVolume.usable() || !in.EnzymeConcentration.usable() {
		return SODConfig{}, false
	}
	return SODConfig{
		ControlAbs:          in.ControlAbs.value,
		TotalVolume:         in.TotalVolume.value,
		EnzymeVolume:        in.EnzymeVolume.value,
		EnzymeConcentration: in.EnzymeConcentration.value,
	}, true
}

// Clone returns a copy that shares no nested records with p.
func (p Params) Clone() Params {
	if p.Anthocyanin != nil {
		v := *p.Anthocyanin
		p.Anthocyanin = &v
	}
	if p.CAT != nil {
		v := *p.CAT
		p.CAT = &v
	}
	if p.POD != nil {
		v := *p.POD
		p.POD = &v
	}
	if p.SOD != nil {
		v := *p.SOD
		p.SOD = &v
	}
	return p
}
