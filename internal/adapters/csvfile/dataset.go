// Package csvfile stores datasets as CSV with a title column, one column per
// audio feature and a trailing genre column. Missing values are empty cells.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

const (
	titleColumn = "title"
	genreColumn = "genre"
)

// WriteDataset writes d to path, creating parent directories.
func WriteDataset(path string, d *domain.Dataset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("csvfile: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvfile: %w", err)
	}
	if err := Write(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes d as CSV.
func Write(w io.Writer, d *domain.Dataset) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(d.Features)+2)
	header = append(header, titleColumn)
	header = append(header, d.Features...)
	header = append(header, genreColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csvfile: write header: %w", err)
	}

	record := make([]string, len(header))
	for i, row := range d.Rows {
		if len(row.Features) != len(d.Features) {
			return fmt.Errorf("csvfile: row %d: %w: %d values for %d features", i, domain.ErrInvalidArgument, len(row.Features), len(d.Features))
		}
		record[0] = row.Title
		for j, v := range row.Features {
			record[j+1] = formatValue(v)
		}
		record[len(record)-1] = row.Genre
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csvfile: write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvfile: flush: %w", err)
	}
	return nil
}

// ReadDataset loads a dataset written by WriteDataset.
func ReadDataset(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a dataset. Empty cells and NaN literals become missing values.
func Read(r io.Reader) (*domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csvfile: %w: no header", domain.ErrEmptyDataset)
		}
		return nil, fmt.Errorf("csvfile: read header: %w", err)
	}
	if len(header) < 3 || header[0] != titleColumn || header[len(header)-1] != genreColumn {
		return nil, fmt.Errorf("csvfile: %w: header must be %s,<features...>,%s, got %v", domain.ErrInvalidArgument, titleColumn, genreColumn, header)
	}

	d, err := domain.NewDataset(header[1 : len(header)-1])
	if err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvfile: line %d: %w", line, err)
		}

		values := make(domain.FeatureVector, len(d.Features))
		for j := range values {
			v, err := parseValue(record[j+1])
			if err != nil {
				return nil, fmt.Errorf("csvfile: line %d column %s: %w", line, d.Features[j], err)
			}
			values[j] = v
		}
		if err := d.Append(record[0], record[len(record)-1], values); err != nil {
			return nil, fmt.Errorf("csvfile: line %d: %w", line, err)
		}
	}
	return d, nil
}

func formatValue(v float64) string {
	if domain.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return domain.Missing(), nil
	}
	return strconv.ParseFloat(s, 64)
}
