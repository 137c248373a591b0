package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/technova/retail-insights/internal/dataset"
	"github.com/technova/retail-insights/internal/insights"
	"github.com/technova/retail-insights/internal/logger"
	"github.com/technova/retail-insights/internal/report"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	source := flag.String("source", "", "sales file to analyze: local path or gs:// URI (.xlsx or .csv)")
	countries := flag.String("countries", "", "comma-separated country filter (empty = all)")
	categories := flag.String("categories", "", "comma-separated category filter (empty = all)")
	from := flag.String("from", "", "start date filter, inclusive (YYYY-MM-DD)")
	to := flag.String("to", "", "end date filter, inclusive (YYYY-MM-DD)")
	out := flag.String("out", "", "output file for the markdown report (default stdout)")
	summary := flag.Bool("summary", false, "ask Gemini for an executive summary")
	flag.Parse()

	if *source == "" {
		log.Fatal().Msg("Error: --source is required")
	}

	sel := dataset.Selection{
		Countries:  splitList(*countries),
		Categories: splitList(*categories),
	}
	if *from != "" {
		d, err := civil.ParseDate(*from)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --from date")
		}
		sel.From = d
	}
	if *to != "" {
		d, err := civil.ParseDate(*to)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --to date")
		}
		sel.To = d
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("source", *source).Msg("Loading sales data")

	loader := dataset.NewLoader(nil, dataset.NewStore())
	ds, err := loader.Load(ctx, *source)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading sales data failed")
	}

	filtered := dataset.ApplyFilters(ds, sel)
	if filtered.Len() == 0 {
		log.Warn().Msg("No records match the current filters")
	}

	facts := insights.BuildAll(ctx, filtered)

	var summarizer report.Summarizer
	if *summary {
		summarizer = report.NewGeminiSummarizer()
	}
	rendered := report.Generate(ctx, report.Report{Dataset: filtered, Facts: facts}, summarizer)

	if *out == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*out, []byte(rendered), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("Writing report failed")
	}
	log.Info().Str("path", *out).Int("facts", len(facts)).Msg("Report written")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
