// Package report renders insight facts and headline aggregates into
// a markdown document.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/technova/retail-insights/internal/analytics"
	"github.com/technova/retail-insights/internal/dataset"
	"github.com/technova/retail-insights/internal/insights"
	"github.com/technova/retail-insights/internal/logger"
)

// Report bundles everything the renderer needs.
type Report struct {
	Dataset *dataset.Dataset
	Facts   []insights.Fact
	Summary string
}

// section titles in render order, one per fact kind.
var sections = []struct {
	kind  insights.Kind
	title string
}{
	{insights.KindCategoryLeader, "Category performance"},
	{insights.KindSalesDistribution, "Sales distribution"},
	{insights.KindSalesTrend, "Sales trend"},
	{insights.KindPriceDispersion, "Price dispersion"},
	{insights.KindPaymentPreference, "Payment preferences"},
	{insights.KindCorrelation, "Correlations"},
	{insights.KindSatisfactionTrend, "Customer satisfaction"},
	{insights.KindCountryPerformance, "Country performance"},
	{insights.KindCityConcentration, "City concentration"},
	{insights.KindSegmentLeader, "Customer segments"},
	{insights.KindAgeTrend, "Customer age"},
}

// Generate renders the report, asking the summarizer (when given) for
// an executive summary first. The head and fact sections are rendered
// once and reassembled around the summary. Summarizer failure
// degrades to a report without one.
func Generate(ctx context.Context, r Report, s Summarizer) string {
	head := renderHead(r)
	body := renderSections(r.Facts)
	out := head + body
	if s == nil {
		return out
	}
	text, err := s.Summarize(ctx, out)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("executive summary unavailable")
		return out
	}
	return head + summarySection(text) + body
}

// Render produces the full markdown report. Sections whose fact could
// not be derived state so instead of disappearing.
func Render(r Report) string {
	return renderHead(r) + summarySection(r.Summary) + renderSections(r.Facts)
}

func renderHead(r Report) string {
	var b strings.Builder
	b.WriteString("# Retail Sales Report\n\n")
	if r.Dataset != nil {
		writeOverview(&b, r.Dataset)
	}
	return b.String()
}

func summarySection(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return "## Executive summary\n\n" + text + "\n\n"
}

func renderSections(facts []insights.Fact) string {
	var b strings.Builder
	byKind := make(map[insights.Kind]*insights.Fact, len(facts))
	for i := range facts {
		byKind[facts[i].Kind] = &facts[i]
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n", s.title)
		f, ok := byKind[s.kind]
		if !ok {
			b.WriteString("Insufficient data for this section.\n\n")
			continue
		}
		writeFact(&b, f)
		b.WriteString("\n")
	}
	return b.String()
}

func writeOverview(b *strings.Builder, ds *dataset.Dataset) {
	total := analytics.Total(ds, dataset.MeasureRevenue)
	customers := analytics.DistinctCustomers(ds)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(b, "- Transactions: %d\n", ds.Len())
	fmt.Fprintf(b, "- Total revenue: %s\n", money(total))
	if customers > 0 {
		fmt.Fprintf(b, "- Customers: %d\n", customers)
		fmt.Fprintf(b, "- Average ticket: %s\n", money(total/float64(customers)))
	}
	if ds.DateMin.IsValid() && ds.DateMax.IsValid() {
		fmt.Fprintf(b, "- Period: %s to %s\n", ds.DateMin, ds.DateMax)
	}
	b.WriteString("\n")
}

func writeFact(b *strings.Builder, f *insights.Fact) {
	switch f.Kind {
	case insights.KindCategoryLeader:
		fmt.Fprintf(b, "- Leading category: **%s** with %s in revenue (%s of total)\n",
			f.Labels["leader"], money(f.Values["revenue"]), percent(f.Values["share"]))
		if runnerUp, ok := f.Labels["runner_up"]; ok {
			fmt.Fprintf(b, "- Lead over %s: %.1f%%\n", runnerUp, f.Values["lead_pct"])
		}
	case insights.KindSalesDistribution:
		fmt.Fprintf(b, "- Revenue quartiles: %s / %s / %s\n",
			money(f.Values["q1"]), money(f.Values["median"]), money(f.Values["q3"]))
		fmt.Fprintf(b, "- Transactions below the 75th percentile: %s\n",
			percent(f.Values["share_below_p75"]))
	case insights.KindSalesTrend:
		fmt.Fprintf(b, "- Monthly revenue change from %s to %s: %.1f%% (%s)\n",
			f.Labels["first_period"], f.Labels["last_period"], f.Values["change_pct"], f.Bucket)
	case insights.KindPriceDispersion:
		fmt.Fprintf(b, "- Widest price spread: **%s** (std %s)\n",
			f.Labels["widest"], money(f.Values["widest_std"]))
		fmt.Fprintf(b, "- Tightest price spread: **%s** (std %s)\n",
			f.Labels["tightest"], money(f.Values["tightest_std"]))
	case insights.KindPaymentPreference:
		fmt.Fprintf(b, "- Preferred payment method: **%s** (%s of revenue)\n",
			f.Labels["method"], percent(f.Values["share"]))
		if cat, ok := f.Labels["top_category"]; ok {
			fmt.Fprintf(b, "- Strongest category through it: %s (%s)\n",
				cat, money(f.Values["top_category_revenue"]))
		}
	case insights.KindCorrelation:
		fmt.Fprintf(b, "- Strongest relation: %s vs %s, r = %.2f (%s)\n",
			f.Labels["measure_a"], f.Labels["measure_b"], f.Values["r"],
			strings.ReplaceAll(f.Bucket, "_", " "))
	case insights.KindSatisfactionTrend:
		fmt.Fprintf(b, "- Peak satisfaction: %.2f in %s\n",
			f.Values["peak_mean"], f.Labels["peak_period"])
		fmt.Fprintf(b, "- Change over the period: %.1f%% (%s)\n",
			f.Values["change_pct"], f.Bucket)
	case insights.KindCountryPerformance:
		fmt.Fprintf(b, "- Revenue leader: **%s** (%s)\n",
			f.Labels["revenue_leader"], money(f.Values["leader_revenue"]))
		if leader, ok := f.Labels["ticket_leader"]; ok {
			fmt.Fprintf(b, "- Highest average ticket: %s (%s per customer)\n",
				leader, money(f.Values["leader_ticket"]))
		}
	case insights.KindCityConcentration:
		fmt.Fprintf(b, "- Top 3 cities hold %s of revenue (%s), led by %s\n",
			percent(f.Values["top3_share"]), f.Bucket, f.Labels["top_city"])
	case insights.KindSegmentLeader:
		fmt.Fprintf(b, "- Leading segment: %s %s (%s of revenue)\n",
			f.Labels["gender"], f.Labels["age_bracket"], percent(f.Values["share"]))
		if counterpart, ok := f.Labels["counterpart_gender"]; ok {
			fmt.Fprintf(b, "- Gap over %s in the same bracket: %.1f%%\n",
				counterpart, f.Values["gap_pct"])
		}
	case insights.KindAgeTrend:
		fmt.Fprintf(b, "- Mean customer age moved from %.1f (%s) to %.1f (%s)\n",
			f.Values["first_mean_age"], f.Labels["first_period"],
			f.Values["last_mean_age"], f.Labels["last_period"])
	default:
		for k, v := range f.Values {
			fmt.Fprintf(b, "- %s: %.2f\n", k, v)
		}
	}

	for _, rec := range f.Recommendations {
		fmt.Fprintf(b, "- Recommended action: %s\n", strings.ReplaceAll(string(rec), "_", " "))
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
