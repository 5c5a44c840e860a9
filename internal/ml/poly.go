package ml

import (
	"fmt"
	"slices"
)

// PolynomialFeatures expands each row into every monomial of its inputs up
// to Degree, bias column first, then by increasing degree with indices in
// non-decreasing order: for inputs a, b and degree 2 that is
// 1, a, b, a*a, a*b, b*b.
type PolynomialFeatures struct {
	Degree int `json:"degree"`
	Inputs int `json:"inputs"`

	terms [][]int
}

// Fit records the input width.
func (p *PolynomialFeatures) Fit(x [][]float64) error {
	if p.Degree < 1 {
		return fmt.Errorf("%w: polynomial degree must be at least 1, got %d", ErrParam, p.Degree)
	}
	_, d, err := dims(x)
	if err != nil {
		return err
	}
	p.Inputs = d
	p.terms = nil
	return nil
}

// OutputWidth returns the number of expanded columns.
func (p *PolynomialFeatures) OutputWidth() int {
	return len(p.monomials())
}

// Transform expands each row into its monomials up to Degree.
func (p *PolynomialFeatures) Transform(x [][]float64) ([][]float64, error) {
	if p.Inputs == 0 {
		return nil, fmt.Errorf("polynomial features: %w", ErrNotFitted)
	}
	if err := checkWidth(x, p.Inputs); err != nil {
		return nil, err
	}

	terms := p.monomials()
	out := make([][]float64, len(x))
	for i, row := range x {
		expanded := make([]float64, len(terms))
		for t, term := range terms {
			v := 1.0
			for _, j := range term {
				v *= row[j]
			}
			expanded[t] = v
		}
		out[i] = expanded
	}
	return out, nil
}

func (p *PolynomialFeatures) monomials() [][]int {
	if p.terms != nil {
		return p.terms
	}
	terms := [][]int{{}}
	prev := [][]int{{}}
	for deg := 1; deg <= p.Degree; deg++ {
		var next [][]int
		for _, t := range prev {
			start := 0
			if len(t) > 0 {
				start = t[len(t)-1]
			}
			for j := start; j < p.Inputs; j++ {
				next = append(next, append(slices.Clone(t), j))
			}
		}
		terms = append(terms, next...)
		prev = next
	}
	p.terms = terms
	return terms
}
