package sample

import (
	"fmt"
	"time"

	"github.com/sosodev/duration"
)

var ErrInvalidPeriod = fmt.Errorf("invalid period")

// Period is a creation-time window; samples created in [Start, End] match.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p *Period) IsValid() bool {
	return p.Start.Before(p.End)
}

func (p *Period) String() string {
	return duration.FromTimeDuration(p.End.Sub(p.Start)).String()
}

func (p *Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// NewPeriodFromISO8601Duration returns the window of the given length that
// ends at until, e.g. "P7D" for the last week.
func NewPeriodFromISO8601Duration(iso8601 string, until time.Time) (*Period, error) {
	d, err := duration.Parse(iso8601)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse ISO 8601 duration %q: %v", ErrInvalidPeriod, iso8601, err)
	}

	period := &Period{
		Start: until.Add(-d.ToTimeDuration()),
		End:   until,
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: %s is not a positive duration", ErrInvalidPeriod, iso8601)
	}

	return period, nil
}

// FilterByPeriod keeps the samples created within p, in their input order.
// A nil period keeps everything.
func FilterByPeriod(samples []Sample, p *Period) []Sample {
	if p == nil {
		return samples
	}

	filtered := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if p.Contains(s.CreatedDate) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
