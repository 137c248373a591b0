// Package analytics computes aggregates over a canonical dataset.
// All functions are deterministic, read-only, and total on empty
// input.
package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/technova/retail-insights/internal/dataset"
)

// Group is one aggregated cell: a dimension value and its measure.
type Group struct {
	Key   string
	Value float64
}

// Group2 is one cell of a two-dimensional aggregation.
type Group2 struct {
	Key1  string
	Key2  string
	Value float64
}

// Stats is a per-group numeric summary.
type Stats struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Values extracts the present values of a measure, skipping records
// where it is missing.
func Values(ds *dataset.Dataset, m dataset.Measure) []float64 {
	out := make([]float64, 0, ds.Len())
	for i := range ds.Records {
		if v, ok := ds.Records[i].MeasureValue(m); ok {
			out = append(out, v)
		}
	}
	return out
}

// Total sums a measure over the whole dataset.
func Total(ds *dataset.Dataset, m dataset.Measure) float64 {
	var total float64
	for _, v := range Values(ds, m) {
		total += v
	}
	return total
}

// DistinctCustomers counts unique customer IDs. Records without an ID
// are not counted.
func DistinctCustomers(ds *dataset.Dataset) int {
	seen := make(map[string]bool)
	for i := range ds.Records {
		if id := ds.Records[i].CustomerID; id != "" {
			seen[id] = true
		}
	}
	return len(seen)
}

// SumBy sums a measure per value of a dimension, sorted by value
// descending. Ties keep first-seen record order.
func SumBy(ds *dataset.Dataset, dim dataset.Dimension, m dataset.Measure) []Group {
	return groupBy(ds, dim, m, func(values []float64) float64 {
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	})
}

// MeanBy averages a measure per value of a dimension, sorted by value
// descending.
func MeanBy(ds *dataset.Dataset, dim dataset.Dimension, m dataset.Measure) []Group {
	return groupBy(ds, dim, m, func(values []float64) float64 {
		return stat.Mean(values, nil)
	})
}

func groupBy(ds *dataset.Dataset, dim dataset.Dimension, m dataset.Measure, agg func([]float64) float64) []Group {
	order := make([]string, 0)
	values := make(map[string][]float64)
	for i := range ds.Records {
		key := ds.Records[i].DimValue(dim)
		if key == "" {
			continue
		}
		v, ok := ds.Records[i].MeasureValue(m)
		if !ok {
			continue
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = append(values[key], v)
	}

	out := make([]Group, 0, len(order))
	for _, key := range order {
		out = append(out, Group{Key: key, Value: agg(values[key])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// SumBy2 sums a measure per pair of dimension values, zero-filling
// the cross of the given domains so groups with no records still
// appear. Nil domains default to the values observed in the data.
func SumBy2(ds *dataset.Dataset, d1, d2 dataset.Dimension, m dataset.Measure, domain1, domain2 []string) []Group2 {
	sums := make(map[[2]string]float64)
	for i := range ds.Records {
		k1 := ds.Records[i].DimValue(d1)
		k2 := ds.Records[i].DimValue(d2)
		if k1 == "" || k2 == "" {
			continue
		}
		if v, ok := ds.Records[i].MeasureValue(m); ok {
			sums[[2]string{k1, k2}] += v
		}
	}

	if domain1 == nil {
		domain1 = observedDomain(sums, 0)
	}
	if domain2 == nil {
		domain2 = observedDomain(sums, 1)
	}

	out := make([]Group2, 0, len(domain1)*len(domain2))
	for _, k1 := range domain1 {
		for _, k2 := range domain2 {
			out = append(out, Group2{Key1: k1, Key2: k2, Value: sums[[2]string{k1, k2}]})
		}
	}
	return out
}

func observedDomain(sums map[[2]string]float64, pos int) []string {
	seen := make(map[string]bool)
	var out []string
	for key := range sums {
		if !seen[key[pos]] {
			seen[key[pos]] = true
			out = append(out, key[pos])
		}
	}
	sort.Strings(out)
	return out
}

// GroupStats is a per-group summary row.
type GroupStats struct {
	Key string
	Stats
}

// DescribeBy summarizes a measure per value of a dimension, sorted by
// standard deviation descending.
func DescribeBy(ds *dataset.Dataset, dim dataset.Dimension, m dataset.Measure) []GroupStats {
	order := make([]string, 0)
	values := make(map[string][]float64)
	for i := range ds.Records {
		key := ds.Records[i].DimValue(dim)
		if key == "" {
			continue
		}
		v, ok := ds.Records[i].MeasureValue(m)
		if !ok {
			continue
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = append(values[key], v)
	}

	out := make([]GroupStats, 0, len(order))
	for _, key := range order {
		out = append(out, GroupStats{Key: key, Stats: Describe(values[key])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Std > out[j].Std })
	return out
}

// Describe computes summary statistics for a slice of values. The
// input is not modified. Std is 0 for fewer than two values.
func Describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Stats{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: quantile(sorted, 0.5),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// Distribution describes the spread of a set of values: quartiles and
// the share of values strictly below the 75th percentile.
type Distribution struct {
	Q1            float64
	Median        float64
	Q3            float64
	ShareBelowP75 float64
}

// DistributionOf computes the quartile distribution of a measure over
// the dataset.
func DistributionOf(ds *dataset.Dataset, m dataset.Measure) Distribution {
	values := Values(ds, m)
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	d := Distribution{
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
	}
	var below int
	for _, v := range sorted {
		if v < d.Q3 {
			below++
		}
	}
	d.ShareBelowP75 = float64(below) / float64(len(sorted))
	return d
}

// quantile interpolates linearly between order statistics at index
// p*(n-1). The input must be sorted and non-empty. This matches the
// default quantile of the dataframe tooling the analyses were
// calibrated against; gonum's cumulant kinds place even-sized medians
// on a sample instead of between them.
func quantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
