// Package insights derives structured facts from dataset aggregates
// using fixed threshold rules. Facts carry values and label keys, not
// prose; rendering them is the caller's concern.
package insights

import "github.com/google/uuid"

// Kind identifies what a fact is about.
type Kind string

const (
	KindCategoryLeader     Kind = "category_leader"
	KindSalesDistribution  Kind = "sales_distribution"
	KindSalesTrend         Kind = "sales_trend"
	KindPriceDispersion    Kind = "price_dispersion"
	KindPaymentPreference  Kind = "payment_preference"
	KindCorrelation        Kind = "correlation"
	KindSatisfactionTrend  Kind = "satisfaction_trend"
	KindCountryPerformance Kind = "country_performance"
	KindCityConcentration  Kind = "city_concentration"
	KindSegmentLeader      Kind = "segment_leader"
	KindAgeTrend           Kind = "age_trend"
)

// Strength buckets a correlation coefficient by absolute value.
type Strength string

const (
	StrengthVeryStrong Strength = "very_strong"
	StrengthStrong     Strength = "strong"
	StrengthModerate   Strength = "moderate"
	StrengthWeak       Strength = "weak"
)

// Trend labels the direction of a time series.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
)

// Concentration labels how dependent a total is on its top groups.
type Concentration string

const (
	Concentrated Concentration = "concentrated"
	Balanced     Concentration = "balanced"
)

// Recommendation is an action key attached to a fact.
type Recommendation string

const (
	RecDiversifyCatalog   Recommendation = "diversify_catalog"
	RecDiversifyMarkets   Recommendation = "diversify_markets"
	RecReplicateLeader    Recommendation = "replicate_leader"
	RecSustainGrowth      Recommendation = "sustain_growth"
	RecInvestigateDecline Recommendation = "investigate_decline"
	RecTargetSegment      Recommendation = "target_segment"
	RecReviewSatisfaction Recommendation = "review_satisfaction"
)

// Fact is one derived finding: numeric values under stable keys,
// dimension labels, and an optional qualitative bucket.
type Fact struct {
	ID              uuid.UUID
	Kind            Kind
	Labels          map[string]string
	Values          map[string]float64
	Bucket          string
	Recommendations []Recommendation
}

func newFact(kind Kind) *Fact {
	return &Fact{
		ID:     uuid.New(),
		Kind:   kind,
		Labels: make(map[string]string),
		Values: make(map[string]float64),
	}
}
