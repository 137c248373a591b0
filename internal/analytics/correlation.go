package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/technova/retail-insights/internal/dataset"
)

// CorrelationMatrix holds pairwise Pearson coefficients for a fixed
// measure order, rounded to two decimals.
type CorrelationMatrix struct {
	Measures []dataset.Measure
	coeffs   [][]float64
}

// CorrelationPair is one lower-triangle entry of the matrix.
type CorrelationPair struct {
	A, B dataset.Measure
	R    float64
}

// Correlations computes pairwise Pearson correlation between the
// given measures. Each pair uses only records where both measures are
// present. Pairs with fewer than two complete records, or with a
// constant side, get a coefficient of 0.
func Correlations(ds *dataset.Dataset, measures []dataset.Measure) *CorrelationMatrix {
	m := &CorrelationMatrix{
		Measures: measures,
		coeffs:   make([][]float64, len(measures)),
	}
	for i := range measures {
		m.coeffs[i] = make([]float64, len(measures))
		m.coeffs[i][i] = 1
	}

	for i := 0; i < len(measures); i++ {
		for j := 0; j < i; j++ {
			r := pairwiseCorrelation(ds, measures[i], measures[j])
			m.coeffs[i][j] = r
			m.coeffs[j][i] = r
		}
	}
	return m
}

// At returns the coefficient for a pair of measure indices.
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.coeffs[i][j]
}

// Pairs returns the lower triangle of the matrix, excluding the
// diagonal, in row order.
func (m *CorrelationMatrix) Pairs() []CorrelationPair {
	var out []CorrelationPair
	for i := 1; i < len(m.Measures); i++ {
		for j := 0; j < i; j++ {
			out = append(out, CorrelationPair{
				A: m.Measures[i],
				B: m.Measures[j],
				R: m.coeffs[i][j],
			})
		}
	}
	return out
}

// Strongest returns the pair with the largest absolute coefficient,
// or false when the matrix has fewer than two measures.
func (m *CorrelationMatrix) Strongest() (CorrelationPair, bool) {
	pairs := m.Pairs()
	if len(pairs) == 0 {
		return CorrelationPair{}, false
	}
	best := pairs[0]
	for _, p := range pairs[1:] {
		if math.Abs(p.R) > math.Abs(best.R) {
			best = p
		}
	}
	return best, true
}

func pairwiseCorrelation(ds *dataset.Dataset, a, b dataset.Measure) float64 {
	var xs, ys []float64
	for i := range ds.Records {
		x, okX := ds.Records[i].MeasureValue(a)
		y, okY := ds.Records[i].MeasureValue(b)
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return round2(r)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
