package spinkv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spinframework/spin-go-sdk/v2/kv"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/calibration"
)

var (
	ErrKVStoreNotAvailable = fmt.Errorf("Spin KV store is not available")
)

type SpinKVStore struct {
	db     *kv.Store
	logger *slog.Logger
}

func NewSpinKVStore(storeName string, logger *slog.Logger) (*SpinKVStore, error) {
	db, err := kv.OpenStore(storeName)
	if err != nil {
		logger.Error("Failed to open Spin KV store", "store", storeName, "error", err)
		return nil, err
	}
	return &SpinKVStore{
		db:     db,
		logger: logger,
	}, nil
}

func (s *SpinKVStore) IsReady() bool {
	if s.logger == nil {
		fmt.Println("Logger of SpinKVStore is not initialized")
		return false
	}

	if s.db == nil {
		s.logger.Error("Spin KV store is not initialized")
		return false
	}

	return true
}

func (s *SpinKVStore) Close() error {
	if s.db == nil {
		return nil
	}

	s.db.Close()
	s.logger.Info("Spin KV store closed successfully")
	return nil
}

func (s *SpinKVStore) Get(ctx context.Context, t assay.Type) (assay.Params, error) {
	defer ctx.Done()

	if !s.IsReady() {
		return assay.Params{}, ErrKVStoreNotAvailable
	}

	if err := calibration.ValidateType(t); err != nil {
		return assay.Params{}, err
	}

	key := calibration.StoreKey(t)
	exists, err := s.db.Exists(key)
	if err != nil {
		s.logger.Error("Failed to check calibration parameters", "key", key, "error", err)
		return assay.Params{}, fmt.Errorf("failed to check calibration parameters for %s: %w", t, err)
	}
	if !exists {
		s.logger.Debug("No calibration parameters applied yet", "analysis_type", t)
		return assay.Params{}, nil
	}

	jsonBlob, err := s.db.Get(key)
	if err != nil {
		s.logger.Error("Failed to get calibration parameters", "key", key, "error", err)
		return assay.Params{}, fmt.Errorf("failed to get calibration parameters for %s: %w", t, err)
	}

	return calibration.DecodeParams(t, jsonBlob)
}

func (s *SpinKVStore) Apply(ctx context.Context, t assay.Type, p assay.Params) error {
	defer ctx.Done()

	if !s.IsReady() {
		return ErrKVStoreNotAvailable
	}

	if err := calibration.ValidateType(t); err != nil {
		return err
	}

	jsonBlob, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("Failed to marshal calibration parameters", "analysis_type", t, "error", err)
		return fmt.Errorf("failed to marshal calibration parameters: %w", err)
	}

	key := calibration.StoreKey(t)
	if err := s.db.Set(key, jsonBlob); err != nil {
		s.logger.Error("Failed to store calibration parameters", "key", key, "error", err)
		return fmt.Errorf("failed to store calibration parameters for %s: %w", t, err)
	}

	s.logger.Info("Calibration parameters applied", "analysis_type", t, "key", key)
	return nil
}
