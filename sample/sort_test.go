package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestSortForDisplay(t *testing.T) {
	results := []Computed{
		{Sample: Sample{ID: "1", TreatmentName: "Salt", SampleName: "Rep1"}},
		{Sample: Sample{ID: "2", TreatmentName: "Control", SampleName: "rep2"}},
		{Sample: Sample{ID: "3", TreatmentName: "Control", SampleName: "Rep1"}},
		{Sample: Sample{ID: "4", TreatmentName: "Drought", SampleName: "b"}},
		{Sample: Sample{ID: "5", TreatmentName: "Drought", SampleName: "A"}},
	}

	SortForDisplay(results, language.English)

	var ids []string
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"3", "2", "5", "4", "1"}, ids)
}
