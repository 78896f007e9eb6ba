package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spinframework/spin-go-sdk/v2/sqlite"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/sample"
)

var (
	ErrDBNotAvailable = fmt.Errorf("SQLite DB is not available")
)

const createSamplesTable = `CREATE TABLE IF NOT EXISTS samples (
	id TEXT PRIMARY KEY,
	analysis_type TEXT NOT NULL,
	treatment_name TEXT NOT NULL,
	sample_name TEXT NOT NULL,
	absorbance_values TEXT NOT NULL,
	created_date TEXT NOT NULL,
	updated_date TEXT
)`

const sampleColumns = `id, analysis_type, treatment_name, sample_name, absorbance_values, created_date, updated_date`

// Upper bound on host parameters per statement, as compiled into current SQLite.
const maxVariables = 32766

const columnCount = 7

type SQLRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSpinSqliteDB(dbName string) (*sql.DB, error) {
	db := sqlite.Open(dbName)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite DB %s: %w", dbName, err)
	}

	return db, nil
}

func NewSqlRepository(db *sql.DB, logger *slog.Logger) (*SQLRepository, error) {
	if db == nil {
		logger.Error("SQL DB is not initialized")
		return nil, ErrDBNotAvailable
	}

	return &SQLRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Migrate creates the samples table when it does not exist yet.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSamplesTable); err != nil {
		r.logger.Error("Failed to create samples table", "error", err)
		return fmt.Errorf("failed to create samples table: %w", err)
	}
	return nil
}

func (r *SQLRepository) IsReady() bool {
	if r.logger == nil {
		fmt.Println("Logger of SQLRepository is not initialized")
		return false
	}

	if r.db == nil {
		r.logger.Error("SQLite DB is not initialized")
		return false
	}

	return true
}

func (r *SQLRepository) Close() error {
	if r.db == nil {
		return ErrDBNotAvailable
	}

	if err := r.db.Close(); err != nil {
		r.logger.Error("Failed to close SQLite DB", "error", err)
		return err
	}

	r.logger.Info("SQLite DB closed successfully")
	return nil
}

func (r *SQLRepository) List(ctx context.Context, t assay.Type) ([]sample.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples WHERE analysis_type = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, string(t))
	if err != nil {
		r.logger.Error("Failed to query samples", "analysis_type", t, "error", err)
		return nil, err
	}
	defer rows.Close()

	var samples []sample.Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			r.logger.Error("Failed to scan sample row", "error", err)
			return nil, err
		}
		samples = append(samples, *s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error occurred during row iteration", "error", err)
		return nil, err
	}

	r.logger.Debug("Samples retrieved", "analysis_type", t, "count", len(samples))
	return samples, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*sample.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanSample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", sample.ErrSampleNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to scan sample row", "id", id, "error", err)
		return nil, err
	}

	return s, nil
}

func (r *SQLRepository) Add(ctx context.Context, s *sample.Sample) error {
	return r.AddBatch(ctx, []*sample.Sample{s})
}

// AddBatch inserts all samples with a single statement, so either every row
// is stored or none is.
func (r *SQLRepository) AddBatch(ctx context.Context, samples []*sample.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	if err := sample.ValidateBatch(samples); err != nil {
		r.logger.Error("Rejected sample batch", "error", err)
		return err
	}

	if len(samples)*columnCount > maxVariables {
		return fmt.Errorf("batch of %d samples exceeds %d rows per insert", len(samples), maxVariables/columnCount)
	}

	ids := make([]string, len(samples))
	for i, s := range samples {
		ids[i] = s.ID
	}

	existing, err := r.existingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: %s", sample.ErrSampleExists, strings.Join(existing, ", "))
	}

	args := make([]any, 0, len(samples)*columnCount)
	for _, s := range samples {
		values, err := json.Marshal(s.AbsorbanceValues)
		if err != nil {
			return fmt.Errorf("failed to encode absorbance values: %w", err)
		}

		args = append(args,
			s.ID,
			string(s.AnalysisType),
			s.TreatmentName,
			s.SampleName,
			string(values),
			formatTime(s.CreatedDate),
			formatOptionalTime(s.UpdatedDate),
		)
	}

	if _, err := r.db.ExecContext(ctx, insertQuery(len(samples)), args...); err != nil {
		r.logger.Error("Failed to insert samples", "count", len(samples), "error", err)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", sample.ErrSampleExists, err)
		}
		return err
	}

	r.logger.Info("Samples added to database", "count", len(samples))
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, s *sample.Sample) error {
	if s == nil {
		return fmt.Errorf("sample cannot be nil")
	}

	ok, err := r.hasSample(ctx, s.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", sample.ErrSampleNotFound, s.ID)
	}

	values, err := json.Marshal(s.AbsorbanceValues)
	if err != nil {
		return fmt.Errorf("failed to encode absorbance values: %w", err)
	}

	query := `UPDATE samples SET treatment_name = ?, sample_name = ?, absorbance_values = ?, updated_date = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		s.TreatmentName,
		s.SampleName,
		string(values),
		formatOptionalTime(s.UpdatedDate),
		s.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update sample", "id", s.ID, "error", err)
		return err
	}

	r.logger.Info("Sample updated", "id", s.ID)
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM samples WHERE id IN (` + placeholders(len(ids)) + `)`
	if _, err := r.db.ExecContext(ctx, query, stringArgs(ids)...); err != nil {
		r.logger.Error("Failed to delete samples", "ids", ids, "error", err)
		return err
	}

	r.logger.Info("Samples deleted", "count", len(ids))
	return nil
}

func (r *SQLRepository) hasSample(ctx context.Context, id string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples WHERE id = ?`, id)

	var count int
	if err := row.Scan(&count); err != nil {
		r.logger.Error("Failed to scan sample count", "id", id, "error", err)
		return false, err
	}

	return count > 0, nil
}

func (r *SQLRepository) existingIDs(ctx context.Context, ids []string) ([]string, error) {
	query := `SELECT id FROM samples WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		r.logger.Error("Failed to look up sample IDs", "error", err)
		return nil, err
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing = append(existing, id)
	}

	return existing, rows.Err()
}

func insertQuery(rows int) string {
	row := "(" + placeholders(columnCount) + ")"
	values := strings.TrimSuffix(strings.Repeat(row+", ", rows), ", ")
	return `INSERT INTO samples (` + sampleColumns + `) VALUES ` + values
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*sample.Sample, error) {
	var (
		s           sample.Sample
		analysis    string
		values      string
		createdDate string
		updatedDate sql.NullString
	)

	if err := row.Scan(&s.ID, &analysis, &s.TreatmentName, &s.SampleName, &values, &createdDate, &updatedDate); err != nil {
		return nil, err
	}

	s.AnalysisType = assay.Type(analysis)
	if err := json.Unmarshal([]byte(values), &s.AbsorbanceValues); err != nil {
		return nil, fmt.Errorf("failed to decode absorbance values of sample %s: %w", s.ID, err)
	}

	created, err := time.Parse(time.RFC3339Nano, createdDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created date of sample %s: %w", s.ID, err)
	}
	s.CreatedDate = created

	if updatedDate.Valid && updatedDate.String != "" {
		updated, err := time.Parse(time.RFC3339Nano, updatedDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated date of sample %s: %w", s.ID, err)
		}
		s.UpdatedDate = &updated
	}

	return &s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
