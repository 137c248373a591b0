// Package dataset builds the canonical retail transaction dataset:
// schema reconciliation, text and country normalization, type
// coercion, derived columns, and filtering. The cleaned dataset is
// immutable once built; filtered views are fresh slices over copies
// of the records.
package dataset

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Age bracket labels, from the fixed bin edges [0, 30, 45, 100].
const (
	BracketUnder30 = "<30"
	Bracket30to45  = "30-45"
	BracketOver45  = ">45"
	// BracketUnknown marks records whose customer age is missing or
	// outside the bin range. Age is not a critical column, so such
	// records survive cleaning.
	BracketUnknown = "unknown"
)

// NeutralSatisfaction is substituted for every record when the source
// has no satisfaction column at all (a recoverable condition, not an
// error).
const NeutralSatisfaction = 3.0

// Transaction is one cleaned retail sale line. Optional numeric
// fields are pointers; nil means the source cell was absent or failed
// coercion. Critical fields (Quantity, UnitPriceUSD, Revenue,
// Category, Date) are always present on a record that survived
// cleaning.
type Transaction struct {
	CustomerID    string
	ProductName   string
	Category      string
	Quantity      float64
	UnitPriceUSD  float64
	Date          civil.Date
	Country       string
	City          string
	PaymentMethod string
	Gender        string
	Age           *float64
	Satisfaction  *float64

	// Derived columns, computed once after cleaning.
	Revenue     float64
	MonthPeriod string // "YYYY-MM"
	AgeBracket  string
}

// Dataset is the canonical cleaned dataset, or a filtered view of
// one. Countries and Categories always hold the distinct values of
// the unfiltered dataset so empty groups are not silently dropped
// from aggregations that request the full domain.
type Dataset struct {
	ID          uuid.UUID
	Fingerprint string // sha256 of the raw source bytes
	SourceName  string

	Records []Transaction

	Countries  []string
	Categories []string

	DateMin civil.Date
	DateMax civil.Date
}

// Len returns the number of records.
func (ds *Dataset) Len() int {
	return len(ds.Records)
}

// Dimension is a categorical column usable for grouping.
type Dimension string

const (
	DimProduct       Dimension = "product_name"
	DimCategory      Dimension = "category"
	DimCountry       Dimension = "country"
	DimCity          Dimension = "city"
	DimPaymentMethod Dimension = "payment_method"
	DimGender        Dimension = "customer_gender"
	DimAgeBracket    Dimension = "age_bracket"
	DimMonthPeriod   Dimension = "month_period"
)

// DimValue returns the record's value for a dimension.
func (t *Transaction) DimValue(d Dimension) string {
	switch d {
	case DimProduct:
		return t.ProductName
	case DimCategory:
		return t.Category
	case DimCountry:
		return t.Country
	case DimCity:
		return t.City
	case DimPaymentMethod:
		return t.PaymentMethod
	case DimGender:
		return t.Gender
	case DimAgeBracket:
		return t.AgeBracket
	case DimMonthPeriod:
		return t.MonthPeriod
	default:
		return ""
	}
}

// Measure is a numeric column usable for aggregation.
type Measure string

const (
	MeasureRevenue      Measure = "revenue"
	MeasureQuantity     Measure = "quantity"
	MeasureUnitPrice    Measure = "unit_price_usd"
	MeasureAge          Measure = "customer_age"
	MeasureSatisfaction Measure = "satisfaction"
)

// MeasureValue returns the record's value for a measure. The second
// return is false when the value is missing on this record.
func (t *Transaction) MeasureValue(m Measure) (float64, bool) {
	switch m {
	case MeasureRevenue:
		return t.Revenue, true
	case MeasureQuantity:
		return t.Quantity, true
	case MeasureUnitPrice:
		return t.UnitPriceUSD, true
	case MeasureAge:
		if t.Age == nil {
			return 0, false
		}
		return *t.Age, true
	case MeasureSatisfaction:
		if t.Satisfaction == nil {
			return 0, false
		}
		return *t.Satisfaction, true
	default:
		return 0, false
	}
}
