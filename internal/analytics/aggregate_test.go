package analytics

import (
	"math"
	"testing"

	"github.com/technova/retail-insights/internal/dataset"
)

func rec(category, country string, quantity, price float64) dataset.Transaction {
	return dataset.Transaction{
		Category:     category,
		Country:      country,
		Quantity:     quantity,
		UnitPriceUSD: price,
		Revenue:      quantity * price,
	}
}

func fixture(records ...dataset.Transaction) *dataset.Dataset {
	return &dataset.Dataset{Records: records}
}

func TestSumBy(t *testing.T) {
	ds := fixture(
		rec("electronica", "Spain", 2, 10),
		rec("ropa", "Spain", 1, 50),
		rec("electronica", "Mexico", 1, 5),
	)

	groups := SumBy(ds, dataset.DimCategory, dataset.MeasureRevenue)

	want := []Group{
		{Key: "ropa", Value: 50},
		{Key: "electronica", Value: 25},
	}
	if len(groups) != len(want) {
		t.Fatalf("SumBy() returned %d groups, want %d", len(groups), len(want))
	}
	for i, g := range want {
		if groups[i] != g {
			t.Errorf("groups[%d] = %+v, want %+v", i, groups[i], g)
		}
	}
}

func TestSumBy_TotalsMatch(t *testing.T) {
	ds := fixture(
		rec("a", "Spain", 2, 10),
		rec("b", "Spain", 3, 7),
		rec("c", "Mexico", 1, 4),
	)

	var sum float64
	for _, g := range SumBy(ds, dataset.DimCategory, dataset.MeasureRevenue) {
		sum += g.Value
	}
	if total := Total(ds, dataset.MeasureRevenue); sum != total {
		t.Errorf("group sums = %v, dataset total = %v", sum, total)
	}
}

func TestSumBy_EmptyDataset(t *testing.T) {
	ds := fixture()
	if groups := SumBy(ds, dataset.DimCategory, dataset.MeasureRevenue); len(groups) != 0 {
		t.Errorf("SumBy() on empty dataset = %v, want empty", groups)
	}
	if total := Total(ds, dataset.MeasureRevenue); total != 0 {
		t.Errorf("Total() on empty dataset = %v, want 0", total)
	}
}

func TestSumBy2_ZeroFillsDomains(t *testing.T) {
	ds := fixture(
		rec("electronica", "Spain", 2, 10),
	)
	countries := []string{"Mexico", "Spain"}
	categories := []string{"electronica", "ropa"}

	cells := SumBy2(ds, dataset.DimCountry, dataset.DimCategory, dataset.MeasureRevenue, countries, categories)

	if len(cells) != 4 {
		t.Fatalf("SumBy2() returned %d cells, want full 2x2 cross", len(cells))
	}
	byKey := make(map[[2]string]float64)
	for _, c := range cells {
		byKey[[2]string{c.Key1, c.Key2}] = c.Value
	}
	if byKey[[2]string{"Spain", "electronica"}] != 20 {
		t.Errorf("Spain/electronica = %v, want 20", byKey[[2]string{"Spain", "electronica"}])
	}
	for _, key := range [][2]string{{"Mexico", "electronica"}, {"Mexico", "ropa"}, {"Spain", "ropa"}} {
		if v, ok := byKey[key]; !ok || v != 0 {
			t.Errorf("cell %v = %v, want zero-filled 0", key, v)
		}
	}
}

func TestDistinctCustomers(t *testing.T) {
	ds := fixture(
		dataset.Transaction{CustomerID: "C1", Revenue: 10},
		dataset.Transaction{CustomerID: "C1", Revenue: 20},
		dataset.Transaction{CustomerID: "C2", Revenue: 5},
		dataset.Transaction{Revenue: 5},
	)
	if got := DistinctCustomers(ds); got != 2 {
		t.Errorf("DistinctCustomers() = %d, want 2", got)
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})

	if s.Count != 4 {
		t.Errorf("Count = %d, want 4", s.Count)
	}
	if s.Mean != 2.5 {
		t.Errorf("Mean = %v, want 2.5", s.Mean)
	}
	if s.Median != 2.5 {
		t.Errorf("Median = %v, want 2.5", s.Median)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Errorf("Min, Max = %v, %v, want 1, 4", s.Min, s.Max)
	}
	if math.Abs(s.Std-1.2909944487358056) > 1e-9 {
		t.Errorf("Std = %v, want sample std ~1.29", s.Std)
	}
}

func TestDescribe_Degenerate(t *testing.T) {
	if s := Describe(nil); s != (Stats{}) {
		t.Errorf("Describe(nil) = %+v, want zero stats", s)
	}
	s := Describe([]float64{7})
	if s.Count != 1 || s.Mean != 7 || s.Std != 0 {
		t.Errorf("Describe single value = %+v", s)
	}
}

func TestDescribeBy_SortedByStd(t *testing.T) {
	ds := fixture(
		rec("stable", "Spain", 1, 10),
		rec("stable", "Spain", 1, 10),
		rec("volatile", "Spain", 1, 1),
		rec("volatile", "Spain", 1, 100),
	)

	groups := DescribeBy(ds, dataset.DimCategory, dataset.MeasureUnitPrice)

	if len(groups) != 2 {
		t.Fatalf("DescribeBy() returned %d groups, want 2", len(groups))
	}
	if groups[0].Key != "volatile" {
		t.Errorf("most dispersed group = %q, want volatile", groups[0].Key)
	}
	if groups[1].Std != 0 {
		t.Errorf("stable group std = %v, want 0", groups[1].Std)
	}
}

func TestDistributionOf(t *testing.T) {
	records := make([]dataset.Transaction, 0, 4)
	for _, r := range []float64{10, 20, 30, 100} {
		records = append(records, dataset.Transaction{Revenue: r})
	}
	ds := fixture(records...)

	d := DistributionOf(ds, dataset.MeasureRevenue)

	if d.Q1 != 17.5 {
		t.Errorf("Q1 = %v, want 17.5", d.Q1)
	}
	if d.Median != 25 {
		t.Errorf("Median = %v, want 25", d.Median)
	}
	if d.Q3 != 47.5 {
		t.Errorf("Q3 = %v, want 47.5", d.Q3)
	}
	if d.ShareBelowP75 != 0.75 {
		t.Errorf("ShareBelowP75 = %v, want 0.75", d.ShareBelowP75)
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{name: "even count median interpolates", sorted: []float64{1, 2, 3, 4}, p: 0.5, want: 2.5},
		{name: "odd count median exact", sorted: []float64{1, 2, 3}, p: 0.5, want: 2},
		{name: "q1 between samples", sorted: []float64{10, 20, 30, 100}, p: 0.25, want: 17.5},
		{name: "q3 between samples", sorted: []float64{10, 20, 30, 100}, p: 0.75, want: 47.5},
		{name: "p0 is min", sorted: []float64{5, 9}, p: 0, want: 5},
		{name: "p1 is max", sorted: []float64{5, 9}, p: 1, want: 9},
		{name: "single value", sorted: []float64{7}, p: 0.5, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("quantile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestDistributionOf_Empty(t *testing.T) {
	if d := DistributionOf(fixture(), dataset.MeasureRevenue); d != (Distribution{}) {
		t.Errorf("DistributionOf empty = %+v, want zero", d)
	}
}
