package dataset

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/technova/retail-insights/internal/logger"
	"github.com/technova/retail-insights/internal/source"
)

// CleanStep is a single step in the cleaning pipeline.
type CleanStep interface {
	Execute(ctx context.Context, state *CleanState) error
}

// CleanState holds the shared state across all cleaning steps.
type CleanState struct {
	SourceName  string
	Fingerprint string
	Table       *source.Table
	Schema      *Schema

	rows []workRow

	Records     []Transaction
	DroppedRows int
}

// workRow is a record mid-cleaning: numeric and date fields are
// pointers so coercion failures can be tracked as missing rather than
// raised.
type workRow struct {
	customerID    string
	productName   string
	category      string
	country       string
	city          string
	paymentMethod string
	gender        string

	rawQuantity     string
	rawUnitPrice    string
	rawAge          string
	rawSatisfaction string
	rawDate         string

	quantity     *float64
	unitPrice    *float64
	age          *float64
	satisfaction *float64
	date         *civil.Date
	revenue      *float64
}

// Step 1: resolve the schema. Never fails; missing satisfaction is a
// recoverable default.
type resolveSchemaStep struct{}

func (resolveSchemaStep) Execute(ctx context.Context, state *CleanState) error {
	state.Schema = ResolveSchema(state.Table)
	if state.Schema.SatisfactionDefaulted {
		log := logger.FromContext(ctx)
		log.Debug().
			Str("source", state.SourceName).
			Msg("no satisfaction column found, substituting neutral default")
	}
	return nil
}

// Step 2: pull raw cells into working rows.
type extractStep struct{}

func (extractStep) Execute(ctx context.Context, state *CleanState) error {
	s, t := state.Schema, state.Table
	state.rows = make([]workRow, t.NumRows())
	for i := range state.rows {
		state.rows[i] = workRow{
			customerID:      strings.TrimSpace(s.cell(t, i, FieldCustomerID)),
			productName:     s.cell(t, i, FieldProductName),
			category:        s.cell(t, i, FieldCategory),
			country:         s.cell(t, i, FieldCountry),
			city:            s.cell(t, i, FieldCity),
			paymentMethod:   s.cell(t, i, FieldPaymentMethod),
			gender:          s.cell(t, i, FieldGender),
			rawQuantity:     s.cell(t, i, FieldQuantity),
			rawUnitPrice:    s.cell(t, i, FieldUnitPrice),
			rawAge:          s.cell(t, i, FieldAge),
			rawSatisfaction: s.cell(t, i, FieldSatisfaction),
			rawDate:         s.cell(t, i, FieldDate),
		}
	}
	return nil
}

// Step 3: normalize free-text fields. Country is excluded here; it
// has its own canonicalization step. Customer IDs are opaque and only
// trimmed.
type normalizeTextStep struct{}

func (normalizeTextStep) Execute(ctx context.Context, state *CleanState) error {
	for i := range state.rows {
		r := &state.rows[i]
		r.productName = NormalizeText(r.productName)
		r.category = NormalizeText(r.category)
		r.city = NormalizeText(r.city)
		r.paymentMethod = NormalizeText(r.paymentMethod)
		r.gender = NormalizeText(r.gender)
	}
	return nil
}

// Step 4: canonicalize country names so raw variants never appear as
// distinct groups.
type canonicalizeCountryStep struct{}

func (canonicalizeCountryStep) Execute(ctx context.Context, state *CleanState) error {
	for i := range state.rows {
		state.rows[i].country = CanonicalCountry(state.rows[i].country)
	}
	return nil
}

// Step 5: coerce numeric fields. Non-parseable or negative values
// become missing, never an error. The satisfaction default applies
// only when the whole column is absent, not to individual bad cells.
type coerceNumericStep struct{}

func (coerceNumericStep) Execute(ctx context.Context, state *CleanState) error {
	neutral := NeutralSatisfaction
	for i := range state.rows {
		r := &state.rows[i]
		r.quantity = parseNumber(r.rawQuantity)
		r.unitPrice = parseNumber(r.rawUnitPrice)
		r.age = parseNumber(r.rawAge)
		if state.Schema.SatisfactionDefaulted {
			v := neutral
			r.satisfaction = &v
		} else {
			r.satisfaction = parseNumber(r.rawSatisfaction)
		}
	}
	return nil
}

// Step 6: coerce dates. Runs before the critical-column drop so rows
// with unparseable dates are removed there.
type coerceDateStep struct{}

func (coerceDateStep) Execute(ctx context.Context, state *CleanState) error {
	for i := range state.rows {
		state.rows[i].date = parseDate(state.rows[i].rawDate)
	}
	return nil
}

// Step 7: compute revenue = quantity * unit price.
type computeRevenueStep struct{}

func (computeRevenueStep) Execute(ctx context.Context, state *CleanState) error {
	for i := range state.rows {
		r := &state.rows[i]
		if r.quantity != nil && r.unitPrice != nil {
			v := *r.quantity * *r.unitPrice
			r.revenue = &v
		}
	}
	return nil
}

// Step 8: drop rows missing any critical field, and rows with
// non-positive revenue.
type dropInvalidStep struct{}

func (dropInvalidStep) Execute(ctx context.Context, state *CleanState) error {
	kept := state.rows[:0]
	for _, r := range state.rows {
		if r.quantity == nil || r.unitPrice == nil || r.revenue == nil ||
			r.category == "" || r.date == nil {
			state.DroppedRows++
			continue
		}
		if *r.revenue <= 0 {
			state.DroppedRows++
			continue
		}
		kept = append(kept, r)
	}
	state.rows = kept

	if state.DroppedRows > 0 {
		log := logger.FromContext(ctx)
		log.Debug().
			Str("source", state.SourceName).
			Int("dropped", state.DroppedRows).
			Int("kept", len(kept)).
			Msg("dropped rows with missing critical fields or non-positive revenue")
	}
	return nil
}

// Step 9: materialize records with derived columns. Derived columns
// are never empty for a surviving record.
type deriveColumnsStep struct{}

func (deriveColumnsStep) Execute(ctx context.Context, state *CleanState) error {
	state.Records = make([]Transaction, 0, len(state.rows))
	for _, r := range state.rows {
		d := *r.date
		state.Records = append(state.Records, Transaction{
			CustomerID:    r.customerID,
			ProductName:   r.productName,
			Category:      r.category,
			Quantity:      *r.quantity,
			UnitPriceUSD:  *r.unitPrice,
			Date:          d,
			Country:       r.country,
			City:          r.city,
			PaymentMethod: r.paymentMethod,
			Gender:        r.gender,
			Age:           r.age,
			Satisfaction:  r.satisfaction,
			Revenue:       *r.revenue,
			MonthPeriod:   monthPeriod(d),
			AgeBracket:    ageBracket(r.age),
		})
	}
	state.rows = nil
	return nil
}

// CleanPipeline executes cleaning steps in order.
type CleanPipeline struct {
	steps []CleanStep
}

// NewCleanPipeline creates the standard 9-step cleaning pipeline.
func NewCleanPipeline() *CleanPipeline {
	return &CleanPipeline{steps: []CleanStep{
		resolveSchemaStep{},
		extractStep{},
		normalizeTextStep{},
		canonicalizeCountryStep{},
		coerceNumericStep{},
		coerceDateStep{},
		computeRevenueStep{},
		dropInvalidStep{},
		deriveColumnsStep{},
	}}
}

// Execute runs all steps sequentially.
func (p *CleanPipeline) Execute(ctx context.Context, state *CleanState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("cleaning step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Build cleans a raw table into a canonical Dataset.
func Build(ctx context.Context, sourceName, fingerprint string, table *source.Table) (*Dataset, error) {
	state := &CleanState{
		SourceName:  sourceName,
		Fingerprint: fingerprint,
		Table:       table,
	}
	if err := NewCleanPipeline().Execute(ctx, state); err != nil {
		return nil, err
	}

	ds := &Dataset{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		SourceName:  sourceName,
		Records:     state.Records,
	}
	ds.Countries = distinctValues(ds.Records, DimCountry)
	ds.Categories = distinctValues(ds.Records, DimCategory)
	ds.DateMin, ds.DateMax = dateRange(ds.Records)

	log := logger.FromContext(ctx)
	log.Info().
		Str("dataset_id", ds.ID.String()).
		Str("source", sourceName).
		Int("records", len(ds.Records)).
		Int("dropped", state.DroppedRows).
		Msg("built canonical dataset")

	return ds, nil
}

func distinctValues(records []Transaction, d Dimension) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range records {
		v := records[i].DimValue(d)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func dateRange(records []Transaction) (civil.Date, civil.Date) {
	var min, max civil.Date
	for i := range records {
		d := records[i].Date
		if !min.IsValid() || d.Before(min) {
			min = d
		}
		if !max.IsValid() || d.After(max) {
			max = d
		}
	}
	return min, max
}

// parseNumber coerces a raw cell to a non-negative number. Returns
// nil for empty, non-parseable, or negative values.
func parseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// dateFormats are tried in order. Ambiguous day/month cells follow
// one policy per separator family: slash dates are day-first (the
// form locale-formatted exports use), dash dates are year-first or,
// for two-digit years, month-first (the default xlsx cell format).
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/06 15:04",
	"01-02-06",
	time.RFC3339,
}

// parseDate coerces a raw cell to a calendar date, or nil.
func parseDate(raw string) *civil.Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			d := civil.DateOf(t)
			return &d
		}
	}
	return nil
}

func monthPeriod(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// ageBracket buckets an age into the fixed (0,30], (30,45], (45,100]
// bins. Missing or out-of-range ages get BracketUnknown.
func ageBracket(age *float64) string {
	if age == nil {
		return BracketUnknown
	}
	a := *age
	switch {
	case a <= 0 || a > 100:
		return BracketUnknown
	case a <= 30:
		return BracketUnder30
	case a <= 45:
		return Bracket30to45
	default:
		return BracketOver45
	}
}
