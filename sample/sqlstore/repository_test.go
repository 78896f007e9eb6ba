package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/sample"
)

type fakeRow []any

func (f fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch target := d.(type) {
		case *string:
			*target = f[i].(string)
		case *sql.NullString:
			if f[i] == nil {
				*target = sql.NullString{}
				continue
			}
			*target = sql.NullString{String: f[i].(string), Valid: true}
		}
	}
	return nil
}

func TestScanSample(t *testing.T) {
	created := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	row := fakeRow{"id-1", "anthocyanin", "Control", "Rep1", `{"530":0.5,"600":"0.1"}`, formatTime(created), nil}
	s, err := scanSample(row)
	require.NoError(t, err)

	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, assay.Anthocyanin, s.AnalysisType)
	assert.Equal(t, sample.Absorbance{"530": 0.5, "600": 0.1}, s.AbsorbanceValues)
	assert.True(t, created.Equal(s.CreatedDate))
	assert.Nil(t, s.UpdatedDate)

	updated := created.Add(time.Hour)
	row = fakeRow{"id-2", "sod", "Salt", "Rep2", `{}`, formatTime(created), formatTime(updated)}
	s, err = scanSample(row)
	require.NoError(t, err)
	require.NotNil(t, s.UpdatedDate)
	assert.True(t, updated.Equal(*s.UpdatedDate))

	row = fakeRow{"id-3", "sod", "Salt", "Rep2", `not json`, formatTime(created), nil}
	_, err = scanSample(row)
	assert.Error(t, err)
}

func TestNewSqlRepositoryWithoutDB(t *testing.T) {
	_, err := NewSqlRepository(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorIs(t, err, ErrDBNotAvailable)
}

func TestFormatOptionalTime(t *testing.T) {
	assert.Nil(t, formatOptionalTime(nil))

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2025-01-02T02:04:05Z", formatOptionalTime(&ts))
}

func TestInsertQuery(t *testing.T) {
	tests := []struct {
		rows int
		args int
	}{
		{rows: 1, args: 7},
		{rows: 3, args: 21},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d rows", tc.rows), func(t *testing.T) {
			query := insertQuery(tc.rows)
			assert.True(t, strings.HasPrefix(query, "INSERT INTO samples ("+sampleColumns+") VALUES ("))
			assert.Equal(t, tc.args, strings.Count(query, "?"))
			assert.Equal(t, tc.rows, strings.Count(query, "("+placeholders(columnCount)+")"))
			assert.NotContains(t, query, ", ,")
		})
	}
}

func TestAddBatchRejectsBeforeQuerying(t *testing.T) {
	repo := &SQLRepository{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	first := sample.New(assay.TotalPhenol, "Control", "Rep1", nil)
	twin := sample.New(assay.SOD, "Control", "Rep1", nil)
	twin.ID = first.ID

	// A nil db would panic if the batch reached a query.
	err := repo.AddBatch(context.Background(), []*sample.Sample{first, twin})
	assert.ErrorIs(t, err, sample.ErrSampleExists)

	assert.NoError(t, repo.AddBatch(context.Background(), nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: samples.id")))
	assert.False(t, isUniqueViolation(errors.New("no such table: samples")))
}
