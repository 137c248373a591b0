package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/technova/retail-insights/internal/source"
)

type mockFetcher struct {
	data    []byte
	err     error
	fetches int
}

func (m *mockFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

const cacheTestCSV = "Cantidad,Precio_unitario(USD),Fecha,Categoría\n2,10,2024-01-15,Hogar\n"

func TestLoader_Load(t *testing.T) {
	fetcher := &mockFetcher{data: []byte(cacheTestCSV)}
	loader := NewLoader(fetcher, NewStore())

	ds, err := loader.Load(context.Background(), "sales.csv")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ds.Len())
	}
	if ds.Fingerprint == "" {
		t.Error("dataset has empty fingerprint")
	}
}

func TestLoader_CacheHit(t *testing.T) {
	fetcher := &mockFetcher{data: []byte(cacheTestCSV)}
	store := NewStore()
	loader := NewLoader(fetcher, store)

	first, err := loader.Load(context.Background(), "sales.csv")
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := loader.Load(context.Background(), "sales.csv")
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if first != second {
		t.Error("unchanged source bytes should return the cached dataset")
	}
	if first.ID != second.ID {
		t.Errorf("dataset IDs differ across cache hit: %s vs %s", first.ID, second.ID)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d datasets, want 1", store.Len())
	}
}

func TestLoader_ChangedBytesRebuild(t *testing.T) {
	fetcher := &mockFetcher{data: []byte(cacheTestCSV)}
	store := NewStore()
	loader := NewLoader(fetcher, store)

	first, err := loader.Load(context.Background(), "sales.csv")
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	fetcher.data = []byte(cacheTestCSV + "3,5,2024-01-16,Hogar\n")
	second, err := loader.Load(context.Background(), "sales.csv")
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if first == second {
		t.Error("changed source bytes should rebuild the dataset")
	}
	if store.Len() != 2 {
		t.Errorf("store holds %d datasets, want 2", store.Len())
	}
}

func TestLoader_FetchError(t *testing.T) {
	wantErr := errors.New("bucket unreachable")
	loader := NewLoader(&mockFetcher{err: wantErr}, NewStore())

	_, err := loader.Load(context.Background(), "gs://bucket/sales.csv")
	if err == nil {
		t.Fatal("Load() error = nil, want load error")
	}

	var loadErr *source.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %T, want *source.LoadError", err)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("Load() error does not wrap the fetch error: %v", err)
	}
	if loadErr.Source != "gs://bucket/sales.csv" {
		t.Errorf("LoadError.Source = %q, want the source URI", loadErr.Source)
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint([]byte("same bytes"))
	b := Fingerprint([]byte("same bytes"))
	c := Fingerprint([]byte("other bytes"))
	if a != b {
		t.Error("identical bytes produced different fingerprints")
	}
	if a == c {
		t.Error("different bytes produced the same fingerprint")
	}
}
