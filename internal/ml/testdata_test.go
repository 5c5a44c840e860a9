package ml

import "testing"

var blobFeatures = []string{"energy", "valence"}

// blobs returns three well separated clusters of perClass points each,
// jittered deterministically from seed.
func blobs(perClass int, seed uint64) ([][]float64, []string) {
	centers := map[string][2]float64{
		"jazz":  {0, 0},
		"metal": {6, 6},
		"pop":   {0, 6},
	}
	r := newRand(seed)
	var (
		x [][]float64
		y []string
	)
	for i := 0; i < perClass; i++ {
		for _, genre := range []string{"jazz", "metal", "pop"} {
			c := centers[genre]
			x = append(x, []float64{c[0] + r.Float64() - 0.5, c[1] + r.Float64() - 0.5})
			y = append(y, genre)
		}
	}
	return x, y
}

func specsUnderTest() []ModelSpec {
	poly := DefaultSpec(KindLogistic)
	poly.Degree = 2
	poly.C = 200
	return []ModelSpec{
		DefaultSpec(KindKNN),
		DefaultSpec(KindLogistic),
		poly,
		DefaultSpec(KindSVC),
	}
}

func mustFit(t testing.TB, spec ModelSpec, x [][]float64, y []string) *Pipeline {
	t.Helper()
	p, err := NewPipeline(blobFeatures, spec)
	if err != nil {
		t.Fatalf("new pipeline %s: %v", spec, err)
	}
	if err := p.Fit(x, y); err != nil {
		t.Fatalf("fit %s: %v", spec, err)
	}
	return p
}
