// Package archive stores JSON report snapshots of completed backtests so a
// run's rendered result survives engine-side deletion.
package archive

import (
	"context"
	"fmt"

	"github.com/quantlens/quantlens/internal/config"
)

// Store is a report snapshot backend.
type Store interface {
	// SaveReport stores the report snapshot for a backtest.
	SaveReport(ctx context.Context, id int64, data []byte) error

	// LoadReport retrieves a stored report snapshot.
	LoadReport(ctx context.Context, id int64) ([]byte, error)

	// ListReports returns the identifiers of all stored snapshots.
	ListReports(ctx context.Context) ([]int64, error)

	// DeleteReport removes a stored snapshot.
	DeleteReport(ctx context.Context, id int64) error
}

// New creates the store the configuration asks for.
func New(cfg config.ArchiveConfig) (Store, error) {
	switch cfg.Type {
	case "localfs":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown archive type %q", cfg.Type)
	}
}

func reportKey(id int64) string {
	return fmt.Sprintf("reports/%d.json", id)
}
