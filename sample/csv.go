package sample

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/timgluz/phytolab/assay"
)

const (
	ColumnTreatmentName = "treatment_name"
	ColumnSampleName    = "sample_name"
)

var ErrNoRows = fmt.Errorf("no valid rows in CSV input")

var (
	csvDelimiters = []rune{',', ';', '\t'}
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
)

// ReadCSV parses an upload for assay t. The delimiter is the one of
// comma, semicolon or tab that splits the header into the most columns.
// Rows whose column count differs from the header are skipped; readings of
// the assay's wavelengths are coerced with ParseReading, absent ones are 0.
func ReadCSV(r io.Reader, t assay.Type) ([]*Sample, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV input: %w", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sniffDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var samples []*Sample
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		if len(record) != len(header) {
			continue
		}

		values := make(Absorbance)
		for _, wl := range t.Wavelengths() {
			values[wl] = ParseReading(field(record, wl))
		}

		samples = append(samples, New(t, orPlaceholder(field(record, ColumnTreatmentName)), orPlaceholder(field(record, ColumnSampleName)), values))
	}

	if len(samples) == 0 {
		return nil, ErrNoRows
	}

	return samples, nil
}

func sniffDelimiter(content []byte) rune {
	firstLine := content
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		if line := scanner.Bytes(); len(bytes.TrimSpace(line)) > 0 {
			firstLine = line
			break
		}
	}

	best, maxCount := csvDelimiters[0], 0
	for _, d := range csvDelimiters {
		if count := bytes.Count(firstLine, []byte(string(d))) + 1; count > maxCount {
			best, maxCount = d, count
		}
	}
	return best
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholderName
	}
	return s
}

// CSVTemplate writes the downloadable upload template for assay t.
func CSVTemplate(w io.Writer, t assay.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}

	wavelengths := t.Wavelengths()
	rows := [][]string{
		append([]string{ColumnTreatmentName, ColumnSampleName}, wavelengths...),
		templateRow("Control", "Rep1", "0.123", len(wavelengths)),
		templateRow("Control", "Rep2", "0.145", len(wavelengths)),
		templateRow("Treatment", "Rep1", "0.098", len(wavelengths)),
	}

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV template: %w", err)
	}
	return nil
}

func templateRow(treatment, name, reading string, n int) []string {
	row := []string{treatment, name}
	for range n {
		row = append(row, reading)
	}
	return row
}
