package sample

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortForDisplay orders results by treatment name, then by sample name using
// the collation rules of tag. The sort is stable.
func SortForDisplay(results []Computed, tag language.Tag) {
	c := collate.New(tag)

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.TreatmentName != b.TreatmentName {
			return a.TreatmentName < b.TreatmentName
		}
		return c.CompareString(a.SampleName, b.SampleName) < 0
	})
}
