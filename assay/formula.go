package assay

import "math"

// Result is the computed value for one sample.
type Result struct {
	Value float64 `json:"result"`
	Unit  string  `json:"unit"`

	// Chlorophyll a/b and carotenoid, set for chlorophyll_a_b only.
	*Pigments

	// Incomplete marks the zero result of an assay whose calibration
	// parameters have not been completed.
	Incomplete bool `json:"incomplete,omitempty"`
}

type Pigments struct {
	ChlA       float64 `json:"chl_a"`
	ChlB       float64 `json:"chl_b"`
	Carotenoid float64 `json:"carotenoid"`
}

// Total is total chlorophyll, a + b.
func (p Pigments) Total() float64 {
	return p.ChlA + p.ChlB
}

func (r Result) sanitize() Result {
	r.Value = finiteOrZero(r.Value)
	if r.Pigments != nil {
		p := Pigments{
			ChlA:       finiteOrZero(r.ChlA),
			ChlB:       finiteOrZero(r.ChlB),
			Carotenoid: finiteOrZero(r.Carotenoid),
		}
		r.Pigments = &p
	}
	return r
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type readings map[string]float64

func (r readings) at(wavelength string) float64 {
	return finiteOrZero(r[wavelength])
}

// single reads a one-wavelength assay. A sample stored under another key
// but carrying exactly one reading is read from that key.
func (r readings) single(wavelength string) float64 {
	if v, ok := r[wavelength]; ok {
		return finiteOrZero(v)
	}
	if len(r) == 1 {
		for _, v := range r {
			return finiteOrZero(v)
		}
	}
	return 0
}

// Explicit float64 conversions around products keep every product rounded
// on its own, so no architecture fuses them into an FMA.

// Lichtenthaler & Buschmann (2001), 90% methanol extracts.
func pigmentContent(a665, a652, a470 float64) Pigments {
	chlA := float64(16.82*a665) - float64(9.28*a652)
	chlB := float64(36.92*a652) - float64(16.54*a665)
	carotenoid := (float64(1000*a470) - float64(1.91*chlA) - float64(95.15*chlB)) / 225
	return Pigments{ChlA: chlA, ChlB: chlB, Carotenoid: carotenoid}
}

func calculateChlorophyll(r readings, _ Params) Result {
	p := pigmentContent(r.at("665.2"), r.at("652.4"), r.at("470"))
	return Result{Value: p.ChlA, Unit: UnitMicrogramPerML, Pigments: &p}
}

func calculateCarotenoid(r readings, _ Params) Result {
	p := pigmentContent(r.at("665.2"), r.at("652.4"), r.at("470"))
	return Result{Value: p.Carotenoid, Unit: UnitMicrogramPerML}
}

func linearCurveConcentration(absorbance float64, c LinearCurveConfig) float64 {
	return float64((float64(absorbance*c.AbsDilution)-c.Intercept)/c.Slope) * c.Dilution
}

func linearCurveFormula(wavelength, unit string) func(readings, Params) Result {
	return func(r readings, p Params) Result {
		curve, ok := p.LinearCurve()
		if !ok {
			return Result{Value: 0, Unit: UnitNotAvailable, Incomplete: true}
		}
		return Result{Value: linearCurveConcentration(r.single(wavelength), curve), Unit: unit}
	}
}

// Mawlong et al. (2017), palladium complex at 425 nm.
func calculateGlucosinolate(r readings, p Params) Result {
	c := p.Glucosinolate()
	value := (1.40 + float64(118.86*float64(r.single("425")*c.AbsDilution))) * c.Dilution
	return Result{Value: value, Unit: UnitMicromolPerGram}
}

func calculateDPPH(r readings, p Params) Result {
	c, ok := p.DPPH()
	if !ok {
		return Result{Value: 0, Unit: UnitInhibition, Incomplete: true}
	}
	sample := float64(r.single("517") * c.AbsDilution)
	value := float64(float64((c.Control-sample)/c.Control)*100) * c.Dilution
	return Result{Value: value, Unit: UnitInhibition}
}

func calculateAnthocyanin(r readings, p Params) Result {
	c := p.AnthocyaninConfig()
	denominator := float64(c.Absorptivity * c.SampleMass)
	if denominator == 0 {
		return Result{Value: 0, Unit: UnitMilligramPerGram, Incomplete: true}
	}
	diff := float64((r.at("530") - r.at("600")) * c.AbsDilution)
	value := float64(float64(float64(diff*c.ExtractionVolume)*c.Dilution)*c.MolecularWeight) / denominator
	return Result{Value: value, Unit: UnitMilligramPerGram}
}

// Molar extinction coefficients (mM⁻¹ cm⁻¹) used by the enzyme assays.
const (
	catalaseExtinction   = 39.4 // H2O2 at 240 nm
	peroxidaseExtinction = 26.6 // tetraguaiacol at 470 nm
)

// enzymeActivity returns activity per mg of enzyme from ΔA/min.
func enzymeActivity(c EnzymeConfig, extinction float64) float64 {
	perML := float64(float64(c.DeltaA*c.TotalVolume)*1000) / float64(extinction*c.EnzymeVolume)
	return perML / c.EnzymeConcentration
}

func enzymeFormula(wavelength string, extinction float64, params func(Params) *EnzymeParams) func(readings, Params) Result {
	return func(r readings, p Params) Result {
		c, ok := params(p).Enzyme(r.single(wavelength))
		if !ok {
			return Result{Value: 0, Unit: UnitEnzymeActivity, Incomplete: true}
		}
		return Result{Value: enzymeActivity(c, extinction), Unit: UnitEnzymeActivity}
	}
}

// One SOD unit inhibits NBT photoreduction by 50%.
const sodUnitInhibition = 50

func calculateSOD(r readings, p Params) Result {
	c, ok := p.SOD.Config()
	if !ok {
		return Result{Value: 0, Unit: UnitSODActivity, Incomplete: true}
	}
	inhibition := float64((c.ControlAbs-r.single("560"))/c.ControlAbs) * 100
	perML := float64(inhibition*c.TotalVolume) / float64(sodUnitInhibition*c.EnzymeVolume)
	return Result{Value: perML / c.EnzymeConcentration, Unit: UnitSODActivity}
}
