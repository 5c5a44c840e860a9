package domain

import (
	"fmt"
	"slices"
)

// Row is one labeled dataset entry.
type Row struct {
	Title    string
	Features FeatureVector
	Genre    string
}

// Dataset is the flat training table: title, one column per feature, genre.
type Dataset struct {
	Features []string
	Rows     []Row
}

// NewDataset creates an empty dataset with the given feature columns.
func NewDataset(features []string) (*Dataset, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: dataset needs at least one feature column", ErrInvalidArgument)
	}
	return &Dataset{
		Features: slices.Clone(features),
		Rows:     []Row{},
	}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Append adds one row. The vector must have one value per feature column.
func (d *Dataset) Append(title, genre string, features FeatureVector) error {
	if len(features) != len(d.Features) {
		return fmt.Errorf("%w: row %q has %d features, dataset has %d", ErrInvalidArgument, title, len(features), len(d.Features))
	}
	d.Rows = append(d.Rows, Row{Title: title, Features: features, Genre: genre})
	return nil
}

// AppendTable labels every row of table with genre and appends it, pairing
// rows with titles by position.
func (d *Dataset) AppendTable(titles []string, genre string, table FeatureTable) error {
	if len(titles) != table.Len() {
		return fmt.Errorf("%w: %d titles for %d feature rows", ErrInvalidArgument, len(titles), table.Len())
	}
	if !slices.Equal(table.Columns, d.Features) {
		return fmt.Errorf("%w: feature columns %v do not match dataset columns %v", ErrInvalidArgument, table.Columns, d.Features)
	}
	for i, row := range table.Rows {
		if err := d.Append(titles[i], genre, row); err != nil {
			return err
		}
	}
	return nil
}

// DropIncomplete returns a copy holding only rows without missing values.
func (d *Dataset) DropIncomplete() *Dataset {
	out := &Dataset{Features: slices.Clone(d.Features), Rows: make([]Row, 0, len(d.Rows))}
	for _, r := range d.Rows {
		if r.Features.Complete() {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Matrix splits the dataset into feature rows and labels, dropping titles.
func (d *Dataset) Matrix() ([][]float64, []string) {
	x := make([][]float64, len(d.Rows))
	y := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		x[i] = slices.Clone([]float64(r.Features))
		y[i] = r.Genre
	}
	return x, y
}

// GenreCounts returns the number of rows per genre.
func (d *Dataset) GenreCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range d.Rows {
		counts[r.Genre]++
	}
	return counts
}
