package domain

import (
	"fmt"
	"math"
	"slices"
)

// FeatureNames is the declared audio-feature order. Dataset columns and
// model inputs follow this order.
var FeatureNames = []string{
	"danceability",
	"energy",
	"key",
	"loudness",
	"mode",
	"speechiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"valence",
	"tempo",
}

// Categories is the seed list of browse categories used to label the dataset.
var Categories = []string{
	"pop",
	"indie_alt",
	"punk",
	"funk",
	"rock",
	"hiphop",
	"metal",
	"country",
	"jazz",
	"reggae",
	"classical",
	"party",
	"latin",
	"romance",
	"blues",
}

// DefaultFeatureNames returns a copy of FeatureNames.
func DefaultFeatureNames() []string {
	return slices.Clone(FeatureNames)
}

// DefaultCategories returns a copy of Categories.
func DefaultCategories() []string {
	return slices.Clone(Categories)
}

// Missing is the marker stored for an absent feature value.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// FeatureVector holds one value per column of its table, NaN where the
// provider did not report the feature.
type FeatureVector []float64

// MissingVector returns a vector of n missing values.
func MissingVector(n int) FeatureVector {
	v := make(FeatureVector, n)
	for i := range v {
		v[i] = Missing()
	}
	return v
}

// Complete reports whether every value is present.
func (v FeatureVector) Complete() bool {
	for _, x := range v {
		if IsMissing(x) {
			return false
		}
	}
	return true
}

// FeatureTable is the normalized result of an audio-features lookup: one row
// per requested track id, in request order, columns in request order.
type FeatureTable struct {
	Columns  []string
	TrackIDs []string
	Rows     []FeatureVector
}

// NewFeatureTable returns an empty table for the given columns.
func NewFeatureTable(columns []string) FeatureTable {
	return FeatureTable{
		Columns:  slices.Clone(columns),
		TrackIDs: []string{},
		Rows:     []FeatureVector{},
	}
}

// Len returns the number of rows.
func (t FeatureTable) Len() int {
	return len(t.Rows)
}

// Append adds a row for trackID. The vector width must match the columns.
func (t *FeatureTable) Append(trackID string, v FeatureVector) error {
	if len(v) != len(t.Columns) {
		return fmt.Errorf("%w: row for %q has %d values, table has %d columns", ErrInvalidArgument, trackID, len(v), len(t.Columns))
	}
	t.TrackIDs = append(t.TrackIDs, trackID)
	t.Rows = append(t.Rows, v)
	return nil
}

// Value returns the cell for row and column name. ok is false when the
// column does not exist or the row is out of range.
func (t FeatureTable) Value(row int, column string) (float64, bool) {
	if row < 0 || row >= len(t.Rows) {
		return 0, false
	}
	idx := slices.Index(t.Columns, column)
	if idx < 0 {
		return 0, false
	}
	return t.Rows[row][idx], true
}
