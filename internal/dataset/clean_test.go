package dataset

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/technova/retail-insights/internal/logger"
	"github.com/technova/retail-insights/internal/source"
)

func testTable(headers []string, rows [][]string) *source.Table {
	return &source.Table{Headers: headers, Rows: rows}
}

func TestBuild_CleansAndDerives(t *testing.T) {
	table := testTable(
		[]string{"ID_cliente", "Categoría", "Cantidad", "Precio_unitario(USD)", "Fecha", "País", "Edad"},
		[][]string{
			{"C1", "Electrónica", "2", "10", "2024-01-15", "Espana", "25"},
			{"C2", "electronica", "1", "5", "2024-01-20", "spain", "40"},
			{"C3", "Ropa", "0", "99", "2024-02-01", "Mexico", "70"},
			{"C4", "ropa", "3", "8", "2024-02-10", "México", ""},
		},
	)

	ds, err := Build(context.Background(), "test.csv", "fp-1", table)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Row C3 has quantity 0 so revenue is non-positive and the row is
	// dropped.
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}

	var electronicaRevenue float64
	for _, rec := range ds.Records {
		if rec.Category == "electronica" {
			electronicaRevenue += rec.Revenue
		}
	}
	if electronicaRevenue != 25 {
		t.Errorf("electronica revenue = %v, want 25", electronicaRevenue)
	}

	for _, rec := range ds.Records {
		if rec.Country != "Spain" && rec.Country != "Mexico" {
			t.Errorf("country %q not canonicalized", rec.Country)
		}
	}

	if got := ds.Records[0].MonthPeriod; got != "2024-01" {
		t.Errorf("MonthPeriod = %q, want 2024-01", got)
	}

	wantCountries := []string{"Mexico", "Spain"}
	if len(ds.Countries) != len(wantCountries) {
		t.Fatalf("Countries = %v, want %v", ds.Countries, wantCountries)
	}
	for i, c := range wantCountries {
		if ds.Countries[i] != c {
			t.Errorf("Countries[%d] = %q, want %q", i, ds.Countries[i], c)
		}
	}

	if ds.DateMin != (civil.Date{Year: 2024, Month: 1, Day: 15}) {
		t.Errorf("DateMin = %v, want 2024-01-15", ds.DateMin)
	}
	if ds.DateMax != (civil.Date{Year: 2024, Month: 2, Day: 10}) {
		t.Errorf("DateMax = %v, want 2024-02-10", ds.DateMax)
	}
}

func TestBuild_SatisfactionDefault(t *testing.T) {
	table := testTable(
		[]string{"Cantidad", "Precio_unitario(USD)", "Fecha", "Categoría"},
		[][]string{
			{"1", "10", "2024-03-01", "Hogar"},
			{"2", "20", "2024-03-02", "Hogar"},
		},
	)

	ds, err := Build(context.Background(), "test.csv", "fp-2", table)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for i, rec := range ds.Records {
		if rec.Satisfaction == nil || *rec.Satisfaction != NeutralSatisfaction {
			t.Errorf("record %d satisfaction = %v, want neutral %v", i, rec.Satisfaction, NeutralSatisfaction)
		}
	}
}

func TestBuild_DropsInvalidRows(t *testing.T) {
	table := testTable(
		[]string{"Cantidad", "Precio_unitario(USD)", "Fecha", "Categoría"},
		[][]string{
			{"1", "10", "2024-03-01", "Hogar"},
			{"abc", "10", "2024-03-01", "Hogar"},
			{"1", "-5", "2024-03-01", "Hogar"},
			{"1", "10", "not a date", "Hogar"},
			{"1", "10", "2024-03-01", ""},
		},
	)

	ds, err := Build(context.Background(), "test.csv", "fp-3", table)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("Len() = %d, want 1 surviving row", ds.Len())
	}
}

func TestBuild_LogsThroughContextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(buf))

	table := testTable(
		[]string{"Cantidad", "Precio_unitario(USD)", "Fecha", "Categoría"},
		[][]string{
			{"1", "10", "2024-03-01", "Hogar"},
			{"bad", "10", "2024-03-01", "Hogar"},
		},
	)

	if _, err := Build(ctx, "test.csv", "fp-log", table); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "built canonical dataset") {
		t.Errorf("context logger did not receive the build log, got: %s", out)
	}
	if !strings.Contains(out, "dropped rows with missing critical fields") {
		t.Errorf("context logger did not receive the drop log, got: %s", out)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "integer", input: "5", want: ptr(5.0)},
		{name: "decimal", input: "3.50", want: ptr(3.5)},
		{name: "thousands separator", input: "1,200", want: ptr(1200.0)},
		{name: "whitespace", input: " 7 ", want: ptr(7.0)},
		{name: "empty", input: "", want: nil},
		{name: "text", input: "n/a", want: nil},
		{name: "negative", input: "-2", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNumber(tt.input)
			switch {
			case got == nil && tt.want != nil:
				t.Errorf("parseNumber(%q) = nil, want %v", tt.input, *tt.want)
			case got != nil && tt.want == nil:
				t.Errorf("parseNumber(%q) = %v, want nil", tt.input, *got)
			case got != nil && tt.want != nil && *got != *tt.want:
				t.Errorf("parseNumber(%q) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso", input: "2024-01-15", want: "2024-01-15"},
		{name: "iso with time", input: "2024-01-15 13:45:00", want: "2024-01-15"},
		{name: "slash ymd", input: "2024/01/15", want: "2024-01-15"},
		{name: "day first", input: "15/01/2024", want: "2024-01-15"},
		{name: "slash ambiguity is day first", input: "03/04/2024", want: "2024-04-03"},
		{name: "slash with time is day first", input: "3/4/24 13:45", want: "2024-04-03"},
		{name: "short us", input: "01-15-24", want: "2024-01-15"},
		{name: "dash ambiguity is month first", input: "03-04-24", want: "2024-03-04"},
		{name: "garbage", input: "yesterday", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Errorf("parseDate(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("parseDate(%q) = nil, want %s", tt.input, tt.want)
			}
			if got.String() != tt.want {
				t.Errorf("parseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAgeBracket(t *testing.T) {
	tests := []struct {
		name string
		age  *float64
		want string
	}{
		{name: "missing", age: nil, want: BracketUnknown},
		{name: "zero", age: ptr(0.0), want: BracketUnknown},
		{name: "over limit", age: ptr(101.0), want: BracketUnknown},
		{name: "young", age: ptr(25.0), want: BracketUnder30},
		{name: "boundary 30", age: ptr(30.0), want: BracketUnder30},
		{name: "middle", age: ptr(40.0), want: Bracket30to45},
		{name: "boundary 45", age: ptr(45.0), want: Bracket30to45},
		{name: "older", age: ptr(60.0), want: BracketOver45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageBracket(tt.age); got != tt.want {
				t.Errorf("ageBracket(%v) = %q, want %q", tt.age, got, tt.want)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }
