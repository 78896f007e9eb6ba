// Package analysis ties the sample and calibration stores to the formula
// registry and the aggregator.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/calibration"
	"github.com/timgluz/phytolab/sample"
	"github.com/timgluz/phytolab/stats"
)

const DefaultLanguageCode = "en"

var ErrAnalysisTypeMismatch = fmt.Errorf("sample belongs to another analysis type")

type ResultOptions struct {
	// Period is an ISO 8601 duration such as "P7D"; empty lists everything.
	Period string
}

type Engine struct {
	samples sample.Repository
	params  calibration.Store

	language language.Tag
	logger   *slog.Logger
}

func NewEngine(samples sample.Repository, params calibration.Store, logger *slog.Logger) *Engine {
	return &Engine{
		samples:  samples,
		params:   params,
		language: language.English,
		logger:   logger,
	}
}

// WithLanguage sets the collation used to order sample names. Unparsable
// codes keep the current language.
func (e *Engine) WithLanguage(code string) *Engine {
	tag, err := language.Parse(code)
	if err != nil {
		e.logger.Warn("Unsupported language code, keeping default", "language", code, "error", err)
		return e
	}
	e.language = tag
	return e
}

func (e *Engine) IsReady() bool {
	if e.logger == nil {
		fmt.Println("Logger of Engine is not initialized")
		return false
	}

	if e.samples == nil || !e.samples.IsReady() {
		e.logger.Error("Sample repository is not ready")
		return false
	}

	if e.params == nil || !e.params.IsReady() {
		e.logger.Error("Calibration store is not ready")
		return false
	}

	return true
}

// Results computes every sample of t with the applied parameters, in
// display order.
func (e *Engine) Results(ctx context.Context, t assay.Type, opts ResultOptions) ([]sample.Computed, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	samples, err := e.samples.List(ctx, t)
	if err != nil {
		e.logger.Error("Failed to list samples", "analysis_type", t, "error", err)
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}

	if opts.Period != "" {
		period, err := sample.NewPeriodFromISO8601Duration(opts.Period, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		samples = sample.FilterByPeriod(samples, period)
	}

	params, err := e.params.Get(ctx, t)
	if err != nil {
		e.logger.Error("Failed to get calibration parameters", "analysis_type", t, "error", err)
		return nil, fmt.Errorf("failed to get calibration parameters: %w", err)
	}

	results, err := sample.ComputeAll(samples, params)
	if err != nil {
		return nil, err
	}
	sample.SortForDisplay(results, e.language)

	e.logger.Debug("Results computed", "analysis_type", t, "count", len(results))
	return results, nil
}

// Statistics summarises the selected samples; no IDs selects all of them.
// Unknown IDs are ignored.
func (e *Engine) Statistics(ctx context.Context, t assay.Type, ids []string) (stats.SelectionStatistics, error) {
	results, err := e.Results(ctx, t, ResultOptions{})
	if err != nil {
		return stats.SelectionStatistics{}, err
	}

	return stats.Selection(selectResults(results, ids)), nil
}

func (e *Engine) Groups(ctx context.Context, t assay.Type, key stats.GroupingKey, ids []string) ([]stats.Group, error) {
	results, err := e.Results(ctx, t, ResultOptions{})
	if err != nil {
		return nil, err
	}

	return stats.Aggregate(selectResults(results, ids), key), nil
}

func (e *Engine) Chart(ctx context.Context, t assay.Type, grouped bool) ([]stats.ChartPoint, error) {
	results, err := e.Results(ctx, t, ResultOptions{})
	if err != nil {
		return nil, err
	}

	return stats.Chart(results, grouped), nil
}

// AddSamples stores new samples of t. Samples without an analysis type
// are assigned t.
func (e *Engine) AddSamples(ctx context.Context, t assay.Type, samples []*sample.Sample) ([]*sample.Sample, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	added := make([]*sample.Sample, 0, len(samples))
	for _, s := range samples {
		if s == nil {
			continue
		}
		if s.AnalysisType == "" {
			s.AnalysisType = t
		}
		if s.AnalysisType != t {
			return nil, fmt.Errorf("%w: %s is not %s", ErrAnalysisTypeMismatch, s.AnalysisType, t)
		}

		fresh := sample.New(t, s.TreatmentName, s.SampleName, s.AbsorbanceValues)
		if s.ID != "" {
			fresh.ID = s.ID
		}
		if !s.CreatedDate.IsZero() {
			fresh.CreatedDate = s.CreatedDate
		}
		added = append(added, fresh)
	}

	if err := e.samples.AddBatch(ctx, added); err != nil {
		e.logger.Error("Failed to add samples", "analysis_type", t, "count", len(added), "error", err)
		return nil, fmt.Errorf("failed to add samples: %w", err)
	}

	e.logger.Info("Samples added", "analysis_type", t, "count", len(added))
	return added, nil
}

// ImportCSV reads an upload and stores its rows as samples of t.
func (e *Engine) ImportCSV(ctx context.Context, t assay.Type, r io.Reader) ([]*sample.Sample, error) {
	samples, err := sample.ReadCSV(r, t)
	if err != nil {
		e.logger.Warn("Failed to read CSV upload", "analysis_type", t, "error", err)
		return nil, err
	}

	return e.AddSamples(ctx, t, samples)
}

// UpdateSample merges patch into the stored sample.
func (e *Engine) UpdateSample(ctx context.Context, t assay.Type, id string, patch *sample.Sample) (*sample.Sample, error) {
	existing, err := e.sampleOf(ctx, t, id)
	if err != nil {
		return nil, err
	}

	existing.Merge(patch)
	if err := e.samples.Update(ctx, existing); err != nil {
		e.logger.Error("Failed to update sample", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update sample: %w", err)
	}

	return existing, nil
}

// RemoveSamples deletes samples of t. IDs of other assays are left alone.
func (e *Engine) RemoveSamples(ctx context.Context, t assay.Type, ids ...string) error {
	if err := t.Validate(); err != nil {
		return err
	}

	samples, err := e.samples.List(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to list samples: %w", err)
	}

	owned := make(map[string]bool, len(samples))
	for _, s := range samples {
		owned[s.ID] = true
	}

	remove := make([]string, 0, len(ids))
	for _, id := range ids {
		if owned[id] {
			remove = append(remove, id)
		}
	}

	if err := e.samples.Delete(ctx, remove...); err != nil {
		e.logger.Error("Failed to delete samples", "analysis_type", t, "error", err)
		return fmt.Errorf("failed to delete samples: %w", err)
	}

	e.logger.Info("Samples removed", "analysis_type", t, "count", len(remove))
	return nil
}

func (e *Engine) Sample(ctx context.Context, t assay.Type, id string) (*sample.Computed, error) {
	s, err := e.sampleOf(ctx, t, id)
	if err != nil {
		return nil, err
	}

	params, err := e.Params(ctx, t)
	if err != nil {
		return nil, err
	}

	computed, err := sample.Compute(*s, params)
	if err != nil {
		return nil, err
	}
	return &computed, nil
}

func (e *Engine) ApplyParams(ctx context.Context, t assay.Type, p assay.Params) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if err := e.params.Apply(ctx, t, p); err != nil {
		e.logger.Error("Failed to apply calibration parameters", "analysis_type", t, "error", err)
		return fmt.Errorf("failed to apply calibration parameters: %w", err)
	}
	return nil
}

func (e *Engine) Params(ctx context.Context, t assay.Type) (assay.Params, error) {
	if err := t.Validate(); err != nil {
		return assay.Params{}, err
	}

	return e.params.Get(ctx, t)
}

func (e *Engine) sampleOf(ctx context.Context, t assay.Type, id string) (*sample.Sample, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	s, err := e.samples.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.AnalysisType != t {
		return nil, fmt.Errorf("%w: %s", sample.ErrSampleNotFound, id)
	}
	return s, nil
}

func selectResults(results []sample.Computed, ids []string) []sample.Computed {
	if len(ids) == 0 {
		return results
	}

	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	filtered := make([]sample.Computed, 0, len(ids))
	for _, r := range results {
		if selected[r.ID] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
