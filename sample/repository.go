package sample

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/timgluz/phytolab/assay"
)

var (
	ErrSampleNotFound = fmt.Errorf("sample not found")
	ErrSampleExists   = fmt.Errorf("sample already exists")
)

type Repository interface {
	// List returns the samples of one assay in insertion order.
	List(ctx context.Context, t assay.Type) ([]Sample, error)
	GetByID(ctx context.Context, id string) (*Sample, error)

	Add(ctx context.Context, s *Sample) error
	AddBatch(ctx context.Context, samples []*Sample) error
	Update(ctx context.Context, s *Sample) error
	// Delete removes the given samples; unknown IDs are ignored.
	Delete(ctx context.Context, ids ...string) error

	// IsReady checks if the repository is ready for operations.
	IsReady() bool
	Close() error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	samples map[string]Sample
	order   []string
	logger  *slog.Logger
}

func NewInMemoryRepository(logger *slog.Logger) *InMemoryRepository {
	return &InMemoryRepository{
		samples: make(map[string]Sample),
		logger:  logger,
	}
}

func (r *InMemoryRepository) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.samples != nil && r.logger != nil
}

func (r *InMemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples = make(map[string]Sample)
	r.order = nil
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, t assay.Type) ([]Sample, error) {
	defer ctx.Done()

	r.mu.RLock()
	defer r.mu.RUnlock()

	samples := make([]Sample, 0, len(r.order))
	for _, id := range r.order {
		if s := r.samples[id]; s.AnalysisType == t {
			samples = append(samples, copySample(s))
		}
	}

	r.logger.Debug("Samples listed", "analysis_type", t, "count", len(samples))
	return samples, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Sample, error) {
	defer ctx.Done()

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.samples[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSampleNotFound, id)
	}

	found := copySample(s)
	return &found, nil
}

func (r *InMemoryRepository) Add(ctx context.Context, s *Sample) error {
	return r.AddBatch(ctx, []*Sample{s})
}

func (r *InMemoryRepository) AddBatch(ctx context.Context, samples []*Sample) error {
	defer ctx.Done()

	if err := ValidateBatch(samples); err != nil {
		r.logger.Error("Rejected sample batch", "error", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range samples {
		if _, exists := r.samples[s.ID]; exists {
			return fmt.Errorf("%w: %s", ErrSampleExists, s.ID)
		}
	}

	for _, s := range samples {
		r.order = append(r.order, s.ID)
		r.samples[s.ID] = copySample(*s)
	}

	r.logger.Info("Samples added", "count", len(samples))
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, s *Sample) error {
	defer ctx.Done()

	if s == nil {
		return fmt.Errorf("sample cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.samples[s.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrSampleNotFound, s.ID)
	}
	r.samples[s.ID] = copySample(*s)

	r.logger.Info("Sample updated", "id", s.ID)
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, ids ...string) error {
	defer ctx.Done()

	r.mu.Lock()
	defer r.mu.Unlock()

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.samples[id]; ok {
			remove[id] = true
			delete(r.samples, id)
		}
	}

	kept := r.order[:0]
	for _, id := range r.order {
		if !remove[id] {
			kept = append(kept, id)
		}
	}
	r.order = kept

	r.logger.Info("Samples deleted", "count", len(remove))
	return nil
}

// ValidateBatch checks that every sample is valid, has an ID and that no ID
// repeats within the batch.
func ValidateBatch(samples []*Sample) error {
	seen := make(map[string]bool, len(samples))
	for _, s := range samples {
		if s == nil {
			return fmt.Errorf("sample cannot be nil")
		}
		if _, err := s.Validate(); err != nil {
			return err
		}
		if s.ID == "" {
			return fmt.Errorf("sample ID cannot be empty")
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: %s appears twice in batch", ErrSampleExists, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func copySample(s Sample) Sample {
	values := make(Absorbance, len(s.AbsorbanceValues))
	for wl, v := range s.AbsorbanceValues {
		values[wl] = v
	}
	s.AbsorbanceValues = values

	if s.UpdatedDate != nil {
		updated := *s.UpdatedDate
		s.UpdatedDate = &updated
	}
	return s
}
