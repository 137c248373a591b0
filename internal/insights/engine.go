package insights

import (
	"context"
	"errors"
	"math"

	"github.com/technova/retail-insights/internal/analytics"
	"github.com/technova/retail-insights/internal/dataset"
	"github.com/technova/retail-insights/internal/logger"
)

// ErrInsufficientData marks a fact that cannot be derived from the
// current (possibly filtered) dataset. It is a normal outcome, not a
// failure.
var ErrInsufficientData = errors.New("insufficient data")

// Correlation strength cutoffs on |r|.
const (
	veryStrongCutoff = 0.7
	strongCutoff     = 0.5
	moderateCutoff   = 0.3
)

// Top-group revenue share above which a market counts as
// concentrated.
const concentrationCutoff = 0.5

// CorrelationStrength buckets a Pearson coefficient by absolute
// value.
func CorrelationStrength(r float64) Strength {
	switch abs := math.Abs(r); {
	case abs > veryStrongCutoff:
		return StrengthVeryStrong
	case abs > strongCutoff:
		return StrengthStrong
	case abs > moderateCutoff:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// TrendOf labels a percent change. Zero counts as positive.
func TrendOf(changePct float64) Trend {
	if changePct >= 0 {
		return TrendPositive
	}
	return TrendNegative
}

// CategoryLeader finds the category with the most revenue and its
// lead over the runner-up.
func CategoryLeader(ds *dataset.Dataset) (*Fact, error) {
	groups := analytics.SumBy(ds, dataset.DimCategory, dataset.MeasureRevenue)
	if len(groups) == 0 {
		return nil, ErrInsufficientData
	}

	total := analytics.Total(ds, dataset.MeasureRevenue)
	f := newFact(KindCategoryLeader)
	f.Labels["leader"] = groups[0].Key
	f.Values["revenue"] = groups[0].Value
	if total > 0 {
		f.Values["share"] = groups[0].Value / total
	}
	if len(groups) > 1 && groups[1].Value > 0 {
		f.Labels["runner_up"] = groups[1].Key
		f.Values["lead_pct"] = (groups[0].Value - groups[1].Value) / groups[1].Value * 100
	}
	f.Recommendations = append(f.Recommendations, RecReplicateLeader)
	return f, nil
}

// SalesDistribution describes the spread of per-transaction revenue.
func SalesDistribution(ds *dataset.Dataset) (*Fact, error) {
	if ds.Len() == 0 {
		return nil, ErrInsufficientData
	}
	d := analytics.DistributionOf(ds, dataset.MeasureRevenue)

	f := newFact(KindSalesDistribution)
	f.Values["q1"] = d.Q1
	f.Values["median"] = d.Median
	f.Values["q3"] = d.Q3
	f.Values["share_below_p75"] = d.ShareBelowP75
	return f, nil
}

// SalesTrend fits the monthly revenue series and labels its
// direction.
func SalesTrend(ds *dataset.Dataset) (*Fact, error) {
	points := analytics.TimeSeries(ds, dataset.MeasureRevenue, analytics.AggSum)
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	slope, _ := analytics.Trend(points)
	change := analytics.ChangePct(points)

	f := newFact(KindSalesTrend)
	f.Values["slope"] = slope
	f.Values["change_pct"] = change
	f.Labels["first_period"] = points[0].Period
	f.Labels["last_period"] = points[len(points)-1].Period
	f.Bucket = string(TrendOf(change))
	if TrendOf(change) == TrendPositive {
		f.Recommendations = append(f.Recommendations, RecSustainGrowth)
	} else {
		f.Recommendations = append(f.Recommendations, RecInvestigateDecline)
	}
	return f, nil
}

// PriceDispersion names the categories with the widest and tightest
// unit price spread.
func PriceDispersion(ds *dataset.Dataset) (*Fact, error) {
	groups := analytics.DescribeBy(ds, dataset.DimCategory, dataset.MeasureUnitPrice)
	if len(groups) == 0 {
		return nil, ErrInsufficientData
	}

	f := newFact(KindPriceDispersion)
	f.Labels["widest"] = groups[0].Key
	f.Values["widest_std"] = groups[0].Std
	last := groups[len(groups)-1]
	f.Labels["tightest"] = last.Key
	f.Values["tightest_std"] = last.Std
	return f, nil
}

// PaymentPreference finds the leading payment method and the category
// that sells most through it.
func PaymentPreference(ds *dataset.Dataset) (*Fact, error) {
	methods := analytics.SumBy(ds, dataset.DimPaymentMethod, dataset.MeasureRevenue)
	if len(methods) == 0 {
		return nil, ErrInsufficientData
	}

	total := analytics.Total(ds, dataset.MeasureRevenue)
	f := newFact(KindPaymentPreference)
	f.Labels["method"] = methods[0].Key
	if total > 0 {
		f.Values["share"] = methods[0].Value / total
	}

	var topCategory string
	var topValue float64
	for _, cell := range analytics.SumBy2(ds, dataset.DimPaymentMethod, dataset.DimCategory, dataset.MeasureRevenue, nil, nil) {
		if cell.Key1 == methods[0].Key && cell.Value > topValue {
			topCategory, topValue = cell.Key2, cell.Value
		}
	}
	if topCategory != "" {
		f.Labels["top_category"] = topCategory
		f.Values["top_category_revenue"] = topValue
	}
	return f, nil
}

// correlationMeasures is the fixed set scanned for the headline pair.
var correlationMeasures = []dataset.Measure{
	dataset.MeasureQuantity,
	dataset.MeasureUnitPrice,
	dataset.MeasureRevenue,
	dataset.MeasureAge,
	dataset.MeasureSatisfaction,
}

// CorrelationHeadline reports the strongest pairwise correlation and
// its strength bucket.
func CorrelationHeadline(ds *dataset.Dataset) (*Fact, error) {
	if ds.Len() < 2 {
		return nil, ErrInsufficientData
	}
	matrix := analytics.Correlations(ds, correlationMeasures)
	best, ok := matrix.Strongest()
	if !ok {
		return nil, ErrInsufficientData
	}

	f := newFact(KindCorrelation)
	f.Labels["measure_a"] = string(best.A)
	f.Labels["measure_b"] = string(best.B)
	f.Values["r"] = best.R
	f.Bucket = string(CorrelationStrength(best.R))
	return f, nil
}

// SatisfactionTrend tracks mean satisfaction per month, its peak, and
// its direction.
func SatisfactionTrend(ds *dataset.Dataset) (*Fact, error) {
	points := analytics.TimeSeries(ds, dataset.MeasureSatisfaction, analytics.AggMean)
	if len(points) == 0 {
		return nil, ErrInsufficientData
	}

	peak, _ := analytics.Peak(points)
	change := analytics.ChangePct(points)

	f := newFact(KindSatisfactionTrend)
	f.Labels["peak_period"] = peak.Period
	f.Values["peak_mean"] = peak.Value
	f.Values["change_pct"] = change
	f.Bucket = string(TrendOf(change))
	if TrendOf(change) == TrendNegative {
		f.Recommendations = append(f.Recommendations, RecReviewSatisfaction)
	}
	return f, nil
}

// CountryPerformance contrasts the revenue-leading country with the
// country whose customers spend the most per head.
func CountryPerformance(ds *dataset.Dataset) (*Fact, error) {
	byRevenue := analytics.SumBy(ds, dataset.DimCountry, dataset.MeasureRevenue)
	if len(byRevenue) == 0 {
		return nil, ErrInsufficientData
	}

	f := newFact(KindCountryPerformance)
	f.Labels["revenue_leader"] = byRevenue[0].Key
	f.Values["leader_revenue"] = byRevenue[0].Value

	ticketLeader, ticket := avgTicketLeader(ds, byRevenue)
	if ticketLeader != "" {
		f.Labels["ticket_leader"] = ticketLeader
		f.Values["leader_ticket"] = ticket
	}
	return f, nil
}

// avgTicketLeader finds the country with the highest revenue per
// distinct customer.
func avgTicketLeader(ds *dataset.Dataset, byRevenue []analytics.Group) (string, float64) {
	customers := make(map[string]map[string]bool)
	for i := range ds.Records {
		country := ds.Records[i].Country
		id := ds.Records[i].CustomerID
		if country == "" || id == "" {
			continue
		}
		if customers[country] == nil {
			customers[country] = make(map[string]bool)
		}
		customers[country][id] = true
	}

	var leader string
	var best float64
	for _, g := range byRevenue {
		n := len(customers[g.Key])
		if n == 0 {
			continue
		}
		if ticket := g.Value / float64(n); ticket > best {
			leader, best = g.Key, ticket
		}
	}
	return leader, best
}

// CityConcentration measures how much revenue the top three cities
// hold.
func CityConcentration(ds *dataset.Dataset) (*Fact, error) {
	total := analytics.Total(ds, dataset.MeasureRevenue)
	if total == 0 {
		return nil, ErrInsufficientData
	}

	top := analytics.TopN(ds, dataset.DimCity, dataset.MeasureRevenue, 3)
	if len(top) == 0 {
		return nil, ErrInsufficientData
	}
	share := analytics.ConcentrationShare(top, total)

	f := newFact(KindCityConcentration)
	f.Labels["top_city"] = top[0].Key
	f.Values["top3_share"] = share
	if share > concentrationCutoff {
		f.Bucket = string(Concentrated)
		f.Recommendations = append(f.Recommendations, RecDiversifyMarkets)
	} else {
		f.Bucket = string(Balanced)
	}
	return f, nil
}

// SegmentLeader finds the age bracket and gender combination with the
// most revenue, and its gap over the same bracket's other gender.
func SegmentLeader(ds *dataset.Dataset) (*Fact, error) {
	total := analytics.Total(ds, dataset.MeasureRevenue)
	if total == 0 {
		return nil, ErrInsufficientData
	}

	cells := analytics.SumBy2(ds, dataset.DimAgeBracket, dataset.DimGender, dataset.MeasureRevenue, nil, nil)
	var leader analytics.Group2
	for _, c := range cells {
		if c.Value > leader.Value {
			leader = c
		}
	}
	if leader.Key1 == "" {
		return nil, ErrInsufficientData
	}

	f := newFact(KindSegmentLeader)
	f.Labels["age_bracket"] = leader.Key1
	f.Labels["gender"] = leader.Key2
	f.Values["revenue"] = leader.Value
	f.Values["share"] = leader.Value / total

	for _, c := range cells {
		if c.Key1 == leader.Key1 && c.Key2 != leader.Key2 && c.Value > 0 {
			f.Labels["counterpart_gender"] = c.Key2
			f.Values["gap_pct"] = (leader.Value - c.Value) / c.Value * 100
			break
		}
	}
	f.Recommendations = append(f.Recommendations, RecTargetSegment)
	return f, nil
}

// AgeTrend compares the mean customer age of the first and last
// months.
func AgeTrend(ds *dataset.Dataset) (*Fact, error) {
	points := analytics.TimeSeries(ds, dataset.MeasureAge, analytics.AggMean)
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	first, last := points[0], points[len(points)-1]
	f := newFact(KindAgeTrend)
	f.Labels["first_period"] = first.Period
	f.Labels["last_period"] = last.Period
	f.Values["first_mean_age"] = first.Value
	f.Values["last_mean_age"] = last.Value
	f.Values["delta_years"] = last.Value - first.Value
	return f, nil
}

// builders in report order.
var builders = []struct {
	kind  Kind
	build func(*dataset.Dataset) (*Fact, error)
}{
	{KindCategoryLeader, CategoryLeader},
	{KindSalesDistribution, SalesDistribution},
	{KindSalesTrend, SalesTrend},
	{KindPriceDispersion, PriceDispersion},
	{KindPaymentPreference, PaymentPreference},
	{KindCorrelation, CorrelationHeadline},
	{KindSatisfactionTrend, SatisfactionTrend},
	{KindCountryPerformance, CountryPerformance},
	{KindCityConcentration, CityConcentration},
	{KindSegmentLeader, SegmentLeader},
	{KindAgeTrend, AgeTrend},
}

// BuildAll derives every fact the dataset supports. Facts lacking
// data are skipped, never an error.
func BuildAll(ctx context.Context, ds *dataset.Dataset) []Fact {
	log := logger.FromContext(ctx)
	facts := make([]Fact, 0, len(builders))
	for _, b := range builders {
		f, err := b.build(ds)
		if err != nil {
			log.Debug().
				Str("kind", string(b.kind)).
				Err(err).
				Msg("skipping fact")
			continue
		}
		facts = append(facts, *f)
	}
	return facts
}
