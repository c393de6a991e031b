// Package archive provides cold storage for generated report snapshots.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfolio/openfolio/internal/portfolio"
)

// Backend stores opaque blobs at slash-separated keys.
type Backend interface {
	// Put stores data at the given key.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves data from the given key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns all keys matching the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given key.
	Delete(ctx context.Context, key string) error
}

// Snapshotter writes performance-report snapshots to a backend, one JSON
// blob per computation, keyed by account and timestamp.
type Snapshotter struct {
	backend Backend
	now     func() time.Time
}

// NewSnapshotter creates a snapshotter over the given backend.
func NewSnapshotter(backend Backend) *Snapshotter {
	return &Snapshotter{backend: backend, now: time.Now}
}

// snapshotDoc widens the report with the open lots behind its unrealized
// figures. The live API omits them; the archive keeps them so a snapshot
// can be audited against later trades.
type snapshotDoc struct {
	*portfolio.PerformanceReport
	OpenLots map[string][]portfolio.Lot `json:"open_lots"`
}

// Snapshot serializes the report and stores it under
// reports/<accountID>/<RFC3339 timestamp>.json.
func (s *Snapshotter) Snapshot(ctx context.Context, accountID string, report *portfolio.PerformanceReport) (string, error) {
	data, err := json.Marshal(snapshotDoc{PerformanceReport: report, OpenLots: report.OpenLots})
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.json", accountID, s.now().UTC().Format("2006-01-02T15-04-05Z"))
	if err := s.backend.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return key, nil
}

// ListSnapshots returns the snapshot keys recorded for an account.
func (s *Snapshotter) ListSnapshots(ctx context.Context, accountID string) ([]string, error) {
	return s.backend.List(ctx, "reports/"+accountID)
}

// Load reads a snapshot back into a report.
func (s *Snapshotter) Load(ctx context.Context, key string) (*portfolio.PerformanceReport, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	doc := snapshotDoc{PerformanceReport: &portfolio.PerformanceReport{}}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", key, err)
	}
	doc.PerformanceReport.OpenLots = doc.OpenLots
	return doc.PerformanceReport, nil
}
