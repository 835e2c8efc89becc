package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LocalFS stores report snapshots on the local filesystem.
type LocalFS struct {
	basePath string
}

// NewLocalFS creates a LocalFS store rooted at basePath.
func NewLocalFS(basePath string) (*LocalFS, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "reports"), 0755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &LocalFS{basePath: basePath}, nil
}

func (l *LocalFS) path(id int64) string {
	return filepath.Join(l.basePath, filepath.FromSlash(reportKey(id)))
}

func (l *LocalFS) SaveReport(ctx context.Context, id int64, data []byte) error {
	return os.WriteFile(l.path(id), data, 0644)
}

func (l *LocalFS) LoadReport(ctx context.Context, id int64) ([]byte, error) {
	return os.ReadFile(l.path(id))
}

func (l *LocalFS) ListReports(ctx context.Context) ([]int64, error) {
	entries, err := os.ReadDir(filepath.Join(l.basePath, "reports"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		id, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			continue // not a snapshot file
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (l *LocalFS) DeleteReport(ctx context.Context, id int64) error {
	return os.Remove(l.path(id))
}
