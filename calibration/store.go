// Package calibration keeps the calibration parameter set applied to each
// assay. The last applied set wins.
package calibration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gosimple/slug"

	"github.com/timgluz/phytolab/assay"
)

type Store interface {
	// Get returns the applied parameters, or empty parameters when none
	// have been applied for t.
	Get(ctx context.Context, t assay.Type) (assay.Params, error)
	Apply(ctx context.Context, t assay.Type, p assay.Params) error

	IsReady() bool
	Close() error
}

// StoreKey is the key the parameters of t are stored under.
func StoreKey(t assay.Type) string {
	return slug.Make("calc_params_" + string(t))
}

type InMemoryStore struct {
	mu     sync.RWMutex
	params map[assay.Type]assay.Params
	logger *slog.Logger
}

func NewInMemoryStore(logger *slog.Logger) *InMemoryStore {
	return &InMemoryStore{
		params: make(map[assay.Type]assay.Params),
		logger: logger,
	}
}

func (s *InMemoryStore) IsReady() bool {
	return s.logger != nil
}

func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params = make(map[assay.Type]assay.Params)
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, t assay.Type) (assay.Params, error) {
	defer ctx.Done()

	if err := ValidateType(t); err != nil {
		return assay.Params{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.params[t].Clone(), nil
}

func (s *InMemoryStore) Apply(ctx context.Context, t assay.Type, p assay.Params) error {
	defer ctx.Done()

	if err := ValidateType(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.params[t] = p.Clone()
	s.logger.Info("Calibration parameters applied", "analysis_type", t, "key", StoreKey(t))
	return nil
}

// ValidateType checks that t names a known assay.
func ValidateType(t assay.Type) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid calibration target: %w", err)
	}
	return nil
}

// DecodeParams reads stored parameters; an empty blob yields zero params.
func DecodeParams(t assay.Type, jsonBlob []byte) (assay.Params, error) {
	var p assay.Params
	if len(jsonBlob) == 0 {
		return p, nil
	}

	if err := json.Unmarshal(jsonBlob, &p); err != nil {
		return assay.Params{}, fmt.Errorf("failed to unmarshal calibration parameters for %s: %w", t, err)
	}
	return p, nil
}
