package analytics

import (
	"sort"

	"github.com/technova/retail-insights/internal/dataset"
)

// TopN returns the n largest groups of a summed measure. Ties keep
// first-seen record order. Fewer groups than n returns them all.
func TopN(ds *dataset.Dataset, dim dataset.Dimension, m dataset.Measure, n int) []Group {
	groups := SumBy(ds, dim, m)
	if n < len(groups) {
		groups = groups[:n]
	}
	return groups
}

// TopNPairs ranks pairs of dimension values (e.g. city within
// country) by a summed measure, descending, keeping the n largest.
func TopNPairs(ds *dataset.Dataset, d1, d2 dataset.Dimension, m dataset.Measure, n int) []Group2 {
	sums := make(map[[2]string]float64)
	var order [][2]string
	for i := range ds.Records {
		k1 := ds.Records[i].DimValue(d1)
		k2 := ds.Records[i].DimValue(d2)
		if k1 == "" || k2 == "" {
			continue
		}
		v, ok := ds.Records[i].MeasureValue(m)
		if !ok {
			continue
		}
		key := [2]string{k1, k2}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += v
	}

	out := make([]Group2, 0, len(order))
	for _, key := range order {
		out = append(out, Group2{Key1: key[0], Key2: key[1], Value: sums[key]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// ConcentrationShare is the fraction of the dataset total held by the
// given groups. An empty or zero total yields 0.
func ConcentrationShare(groups []Group, total float64) float64 {
	if total == 0 {
		return 0
	}
	var sum float64
	for _, g := range groups {
		sum += g.Value
	}
	return sum / total
}
