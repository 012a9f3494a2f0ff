package domain

import "fmt"

// SourceFetchError scopes a network or parse failure to one source.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// EnrichmentError scopes an AI call failure to one article.
type EnrichmentError struct {
	URL   string
	Stage string
	Err   error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich %s (%s): %v", e.URL, e.Stage, e.Err)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// PersistenceError scopes a store write failure to one article.
type PersistenceError struct {
	URL string
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s (%s): %v", e.URL, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
