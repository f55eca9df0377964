package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/arrowtools/arrowcat/internal/config"
)

// Store persists run snapshots beyond the import files, so earlier
// extractions of the same vehicle stay queryable.
type Store interface {
	// SaveSnapshot persists one run snapshot.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// Close flushes pending writes and releases resources.
	Close(ctx context.Context) error

	// Name returns the storage backend identifier.
	Name() string
}

// NewStore creates the snapshot store selected by config, or nil when
// snapshots should not be kept.
func NewStore(cfg *config.StorageConfig, outputDir string, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "none":
		return nil, nil
	case "file":
		return &FileStore{dir: outputDir, logger: logger.With("component", "file_store")}, nil
	case "mongodb":
		return NewMongoStore(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// FileStore keeps one JSON file per run under the exports directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) SaveSnapshot(_ context.Context, snap *Snapshot) error {
	path := filepath.Join(s.dir, fmt.Sprintf("arrow_vehicle_%d_%s.json", snap.VehicleID, snap.Timestamp))
	if err := snap.WriteJSONFile(path); err != nil {
		return err
	}
	s.logger.Info("snapshot written", "path", path, "products", snap.Total)
	return nil
}

func (s *FileStore) Close(context.Context) error { return nil }
