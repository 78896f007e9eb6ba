package stats

import (
	"fmt"
	"sort"

	"github.com/gosimple/slug"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/sample"
)

type GroupingKey string

const (
	GroupByTreatment GroupingKey = "treatment_name"
	GroupNone        GroupingKey = ""
)

var ErrUnknownGroupingKey = fmt.Errorf("unknown grouping key")

func ParseGroupingKey(s string) (GroupingKey, error) {
	switch key := GroupingKey(s); key {
	case GroupByTreatment, GroupNone:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGroupingKey, s)
	}
}

// Group is the statistics of one treatment, or of the whole input when not
// grouping. Chlorophyll groups also carry the four pigment series.
type Group struct {
	Treatment string    `json:"treatment_name"`
	Key       string    `json:"key"`
	Values    []float64 `json:"values"`
	Summary

	Pigments *PigmentSummary `json:"pigments,omitempty"`
}

// Aggregate computes the statistics per group. Groups come in ascending
// treatment-name order and keep the input order of their values. GroupNone
// returns exactly one group, also for empty input; grouping an empty input
// by treatment returns no groups.
func Aggregate(results []sample.Computed, key GroupingKey) []Group {
	if key == GroupNone {
		return []Group{newGroup("", results)}
	}

	byTreatment := make(map[string][]sample.Computed)
	for _, r := range results {
		byTreatment[r.TreatmentName] = append(byTreatment[r.TreatmentName], r)
	}

	treatments := make([]string, 0, len(byTreatment))
	for t := range byTreatment {
		treatments = append(treatments, t)
	}
	sort.Strings(treatments)

	groups := make([]Group, 0, len(treatments))
	for _, t := range treatments {
		groups = append(groups, newGroup(t, byTreatment[t]))
	}
	return groups
}

// Overall treats the whole input, e.g. the current selection, as one group.
func Overall(results []sample.Computed) Summary {
	return newGroup("", results).Summary
}

func newGroup(treatment string, results []sample.Computed) Group {
	values := make([]float64, 0, len(results))
	for _, r := range results {
		values = append(values, r.Value)
	}

	var unit string
	if len(results) > 0 {
		unit = results[0].Unit
	}

	group := Group{
		Treatment: treatment,
		Key:       slug.Make(treatment),
		Values:    values,
		Summary:   Describe(values, unit),
	}
	if hasPigments(results) {
		pigments := DescribePigments(results)
		group.Pigments = &pigments
	}
	return group
}

// hasPigments reports whether results belong to the chlorophyll assay,
// either by tag or by carrying pigment values.
func hasPigments(results []sample.Computed) bool {
	for _, r := range results {
		if r.AnalysisType == assay.ChlorophyllAB || r.Pigments != nil {
			return true
		}
	}
	return false
}
