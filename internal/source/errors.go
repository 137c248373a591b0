package source

import "fmt"

// LoadError reports a source that could not be read or parsed at all.
// It is the only failure the loading path surfaces to callers; cell
// level problems are handled downstream as missing values.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
