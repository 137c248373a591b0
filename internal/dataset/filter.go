package dataset

import "cloud.google.com/go/civil"

// Selection describes an interactive filter over a dataset. Empty
// slices and zero dates mean "no restriction" on that axis.
type Selection struct {
	Countries  []string
	Categories []string
	From       civil.Date
	To         civil.Date
}

// IsZero reports whether the selection restricts nothing.
func (s Selection) IsZero() bool {
	return len(s.Countries) == 0 && len(s.Categories) == 0 &&
		!s.From.IsValid() && !s.To.IsValid()
}

// Matches reports whether a record passes every active filter axis.
func (s Selection) Matches(t *Transaction) bool {
	if len(s.Countries) > 0 && !contains(s.Countries, t.Country) {
		return false
	}
	if len(s.Categories) > 0 && !contains(s.Categories, t.Category) {
		return false
	}
	if s.From.IsValid() && t.Date.Before(s.From) {
		return false
	}
	if s.To.IsValid() && t.Date.After(s.To) {
		return false
	}
	return true
}

// ApplyFilters returns a view of the dataset containing only records
// matching the selection. The source dataset is never modified, and
// the view keeps the full reference domains so downstream zero-filled
// aggregations still cover unselected groups.
func ApplyFilters(ds *Dataset, sel Selection) *Dataset {
	if sel.IsZero() {
		return ds
	}

	out := &Dataset{
		ID:          ds.ID,
		Fingerprint: ds.Fingerprint,
		SourceName:  ds.SourceName,
		Countries:   ds.Countries,
		Categories:  ds.Categories,
	}
	for i := range ds.Records {
		if sel.Matches(&ds.Records[i]) {
			out.Records = append(out.Records, ds.Records[i])
		}
	}
	out.DateMin, out.DateMax = dateRange(out.Records)
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
