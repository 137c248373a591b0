package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/technova/retail-insights/internal/dataset"
)

// Agg selects how a time series aggregates each period.
type Agg int

const (
	AggSum Agg = iota
	AggMean
)

// TimePoint is one monthly value of a time series.
type TimePoint struct {
	Period string
	Value  float64
}

// TimeSeries aggregates a measure per month period, ordered by
// period ascending.
func TimeSeries(ds *dataset.Dataset, m dataset.Measure, agg Agg) []TimePoint {
	values := make(map[string][]float64)
	for i := range ds.Records {
		period := ds.Records[i].MonthPeriod
		if period == "" {
			continue
		}
		if v, ok := ds.Records[i].MeasureValue(m); ok {
			values[period] = append(values[period], v)
		}
	}

	periods := make([]string, 0, len(values))
	for p := range values {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	out := make([]TimePoint, 0, len(periods))
	for _, p := range periods {
		var v float64
		switch agg {
		case AggMean:
			v = stat.Mean(values[p], nil)
		default:
			for _, x := range values[p] {
				v += x
			}
		}
		out = append(out, TimePoint{Period: p, Value: v})
	}
	return out
}

// Trend fits a least squares line over the series, with the point
// index as the independent variable. Returns zero slope and intercept
// for fewer than two points.
func Trend(points []TimePoint) (slope, intercept float64) {
	if len(points) < 2 {
		return 0, 0
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Value
	}
	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept
}

// ChangePct is the percent change from the first point to the last.
// A zero or absent first value yields 0, never a division error.
func ChangePct(points []TimePoint) float64 {
	if len(points) < 2 {
		return 0
	}
	first := points[0].Value
	if first == 0 {
		return 0
	}
	return (points[len(points)-1].Value - first) / first * 100
}

// Peak returns the point with the largest value, or false for an
// empty series. Ties keep the earliest period.
func Peak(points []TimePoint) (TimePoint, bool) {
	if len(points) == 0 {
		return TimePoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	return best, true
}
