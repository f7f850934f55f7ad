// Package types defines the shared data structures used across tassdoc:
// the parsed request model, inferred response schemas, and the catalog
// records persisted by the store.
package types

import "time"

// Scan statuses.
const (
	ScanStatusScanning = "scanning"
	ScanStatusComplete = "complete"
	ScanStatusPartial  = "partial"
	ScanStatusFailed   = "failed"
)

// Scan records one pass over a documentation tree.
type Scan struct {
	ID           string    `json:"id" yaml:"id"`
	Root         string    `json:"root" yaml:"root"`
	Status       string    `json:"status" yaml:"status"`
	RequestCount int       `json:"request_count" yaml:"request_count"`
	FailureCount int       `json:"failure_count" yaml:"failure_count"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// CatalogEntry is one parsed endpoint description tied to the scan that
// produced it and the file it came from.
type CatalogEntry struct {
	ID        int64     `json:"id" yaml:"id"`
	ScanID    string    `json:"scan_id" yaml:"scan_id"`
	Path      string    `json:"path" yaml:"path"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Request   Request   `json:"request" yaml:"request"`
}

// Failure records a file a scan could not parse.
type Failure struct {
	ID        int64     `json:"id" yaml:"id"`
	ScanID    string    `json:"scan_id" yaml:"scan_id"`
	Scope     string    `json:"scope" yaml:"scope"`
	Path      string    `json:"path" yaml:"path"`
	Code      string    `json:"code" yaml:"code"`
	Message   string    `json:"message" yaml:"message"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
