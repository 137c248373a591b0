package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

// Fetcher retrieves the raw bytes of a source by URI. It exists as an
// interface so tests can substitute canned bytes for network or disk.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// ForURI picks a fetcher for the given URI: GCS for gs:// URIs, the
// local filesystem otherwise.
func ForURI(uri string) Fetcher {
	if strings.HasPrefix(uri, "gs://") {
		return &GCSFetcher{}
	}
	return &FileFetcher{}
}

// FileFetcher reads a source from the local filesystem.
type FileFetcher struct{}

func (f *FileFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	data, err := os.ReadFile(uri)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// GCSFetcher reads a source object from Google Cloud Storage.
type GCSFetcher struct{}

func (f *GCSFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucketName, objectName, err := parseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return data, nil
}

// parseGCSURI splits "gs://bucket/path/to/object" into bucket and object.
func parseGCSURI(uri string) (string, string, error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	if trimmed == uri {
		return "", "", fmt.Errorf("not a GCS URI: %q", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed GCS URI: %q", uri)
	}
	return parts[0], parts[1], nil
}
