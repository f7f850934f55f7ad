package store

import "github.com/yourorg/tassdoc/pkg/types"

type Store interface {
	CreateScan(root string) (*types.Scan, error)
	GetScan(id string) (*types.Scan, error)
	UpdateScanStatus(id, status string) error
	ListScans() ([]types.Scan, error)
	DeleteScan(id string) error

	SaveRequests(scanID string, entries []types.CatalogEntry) error
	// GetRequests returns a scan's entries in insertion order; a non-empty
	// scope restricts the result to one API area.
	GetRequests(scanID, scope string) ([]types.CatalogEntry, error)
	GetRequest(id int64) (*types.CatalogEntry, error)

	SaveFailures(scanID string, failures []types.Failure) error
	GetFailures(scanID string) ([]types.Failure, error)

	Close() error
}
