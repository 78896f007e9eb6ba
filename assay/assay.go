// Package assay is the formula registry: it maps a sample's absorbance
// readings plus the calibration parameters of its assay to a computed result.
package assay

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

type Type string

const (
	ChlorophyllAB  Type = "chlorophyll_a_b"
	Carotenoid     Type = "carotenoid"
	TotalPhenol    Type = "total_phenol"
	TotalFlavonoid Type = "total_flavonoid"
	Glucosinolate  Type = "glucosinolate"
	DPPHScavenging Type = "dpph_scavenging"
	Anthocyanin    Type = "anthocyanin"
	CAT            Type = "cat"
	POD            Type = "pod"
	SOD            Type = "sod"
	H2O2           Type = "h2o2"
)

const (
	UnitMicrogramPerML   = "μg/ml"
	UnitGallicAcid       = "mg GAE/g"
	UnitQuercetin        = "mg QE/g"
	UnitMicromolPerGram  = "μmol/g"
	UnitInhibition       = "% inhibition"
	UnitMilligramPerGram = "mg/g"
	UnitEnzymeActivity   = "μmol/min/mg DW"
	UnitSODActivity      = "unit/mg DW"
	UnitNotAvailable     = "N/A" // calibration curve not complete yet
)

var ErrUnknownType = errors.New("unknown assay type")

// definition is one row of the registry.
type definition struct {
	wavelengths []string
	unit        string
	calculate   func(r readings, p Params) Result
}

var registry = map[Type]definition{
	ChlorophyllAB:  {[]string{"665.2", "652.4", "470"}, UnitMicrogramPerML, calculateChlorophyll},
	Carotenoid:     {[]string{"470", "665.2", "652.4"}, UnitMicrogramPerML, calculateCarotenoid},
	TotalPhenol:    {[]string{"765"}, UnitGallicAcid, linearCurveFormula("765", UnitGallicAcid)},
	TotalFlavonoid: {[]string{"415"}, UnitQuercetin, linearCurveFormula("415", UnitQuercetin)},
	H2O2:           {[]string{"390"}, UnitMicromolPerGram, linearCurveFormula("390", UnitMicromolPerGram)},
	Glucosinolate:  {[]string{"425"}, UnitMicromolPerGram, calculateGlucosinolate},
	DPPHScavenging: {[]string{"517"}, UnitInhibition, calculateDPPH},
	Anthocyanin:    {[]string{"530", "600"}, UnitMilligramPerGram, calculateAnthocyanin},
	CAT:            {[]string{"240"}, UnitEnzymeActivity, enzymeFormula("240", catalaseExtinction, func(p Params) *EnzymeParams { return p.CAT })},
	POD:            {[]string{"470"}, UnitEnzymeActivity, enzymeFormula("470", peroxidaseExtinction, func(p Params) *EnzymeParams { return p.POD })},
	SOD:            {[]string{"560"}, UnitSODActivity, calculateSOD},
}

// ParseType accepts the tag as used in URLs and files, ignoring case and
// surrounding whitespace.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", unknownTypeError(s)
	}
	return t, nil
}

// Types returns every supported assay tag in lexical order.
func Types() []Type {
	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (t Type) IsValid() bool {
	_, ok := registry[t]
	return ok
}

// Validate returns the unknown-type error for tags outside the registry.
func (t Type) Validate() error {
	if t.IsValid() {
		return nil
	}
	return unknownTypeError(string(t))
}

func (t Type) String() string {
	return string(t)
}

// Wavelengths lists the absorbance keys the assay reads, in input-form order.
func (t Type) Wavelengths() []string {
	def, ok := registry[t]
	if !ok {
		return nil
	}
	return append([]string(nil), def.wavelengths...)
}

// Unit is the unit of a complete result. Incomplete linear-curve results
// carry UnitNotAvailable instead.
func (t Type) Unit() string {
	return registry[t].unit
}

// MissingWavelengths reports the required keys absent from values. Missing
// readings are not an error; the formulas read them as 0.
func MissingWavelengths(t Type, values map[string]float64) []string {
	var missing []string
	for _, wl := range t.Wavelengths() {
		if _, ok := values[wl]; !ok {
			missing = append(missing, wl)
		}
	}
	return missing
}

// Calculate runs the formula registered for t. The only failure is an
// unknown tag; missing parameters and readings resolve to documented
// fallbacks.
func Calculate(t Type, values map[string]float64, p Params) (Result, error) {
	def, ok := registry[t]
	if !ok {
		return Result{}, unknownTypeError(string(t))
	}

	result := def.calculate(readings(values), p)
	return result.sanitize(), nil
}

func unknownTypeError(tag string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unsupported assay type %q", tag)).
		WithCause(ErrUnknownType)
}

// IsInvalidArgument reports whether err was classified as caller input error.
func IsInvalidArgument(err error) bool {
	var eb *errbuilder.ErrBuilder
	if errors.As(err, &eb) {
		return eb.ErrCode() == errbuilder.CodeInvalidArgument
	}
	return errors.Is(err, ErrUnknownType)
}
