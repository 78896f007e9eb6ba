// Package sample holds the replicate samples of an assay run and their
// persistence.
package sample

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timgluz/phytolab/assay"
)

// placeholderName fills blank labels of uploaded rows.
const placeholderName = "N/A"

type Sample struct {
	ID               string     `json:"id"`
	TreatmentName    string     `json:"treatment_name"`
	SampleName       string     `json:"sample_name"`
	AnalysisType     assay.Type `json:"analysis_type"`
	AbsorbanceValues Absorbance `json:"absorbance_values"`
	CreatedDate      time.Time  `json:"created_date"`
	UpdatedDate      *time.Time `json:"updated_date,omitempty"`
}

func New(t assay.Type, treatment, name string, values Absorbance) *Sample {
	if values == nil {
		values = Absorbance{}
	}

	return &Sample{
		ID:               uuid.NewString(),
		TreatmentName:    strings.TrimSpace(treatment),
		SampleName:       strings.TrimSpace(name),
		AnalysisType:     t,
		AbsorbanceValues: values,
		CreatedDate:      time.Now().UTC(),
	}
}

// Merge applies an edit. Blank labels keep the current value; readings are
// replaced per wavelength.
func (s *Sample) Merge(other *Sample) {
	if other == nil {
		return
	}

	if name := strings.TrimSpace(other.TreatmentName); name != "" {
		s.TreatmentName = name
	}
	if name := strings.TrimSpace(other.SampleName); name != "" {
		s.SampleName = name
	}

	if len(other.AbsorbanceValues) > 0 {
		if s.AbsorbanceValues == nil {
			s.AbsorbanceValues = Absorbance{}
		}
		for wl, v := range other.AbsorbanceValues {
			s.AbsorbanceValues[wl] = v
		}
	}

	now := time.Now().UTC()
	s.UpdatedDate = &now
}

// Validate rejects samples of an unknown assay. The returned wavelengths
// are the required readings the sample lacks; they are informational and
// are read as 0 by the formulas.
func (s *Sample) Validate() ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("sample cannot be nil")
	}

	if err := s.AnalysisType.Validate(); err != nil {
		return nil, err
	}

	return assay.MissingWavelengths(s.AnalysisType, s.AbsorbanceValues), nil
}

// Computed is a sample together with its calculated result.
type Computed struct {
	Sample
	assay.Result

	MissingWavelengths []string `json:"missing_wavelengths,omitempty"`
}

// Compute runs the sample through the formula registry.
func Compute(s Sample, p assay.Params) (Computed, error) {
	result, err := assay.Calculate(s.AnalysisType, s.AbsorbanceValues, p)
	if err != nil {
		return Computed{}, fmt.Errorf("failed to calculate sample %s: %w", s.ID, err)
	}

	return Computed{
		Sample:             s,
		Result:             result,
		MissingWavelengths: assay.MissingWavelengths(s.AnalysisType, s.AbsorbanceValues),
	}, nil
}

// ComputeAll computes every sample with the same parameter set.
func ComputeAll(samples []Sample, p assay.Params) ([]Computed, error) {
	computed := make([]Computed, 0, len(samples))
	for _, s := range samples {
		c, err := Compute(s, p)
		if err != nil {
			return nil, err
		}
		computed = append(computed, c)
	}

	return computed, nil
}
