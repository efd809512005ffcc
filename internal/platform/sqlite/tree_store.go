package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/simfleet/internal/platform/logger"
	"github.com/phrazzld/simfleet/internal/store"
)

const (
	selectSubtreeQuery = `
		SELECT path, value FROM nodes
		WHERE path = ? OR (path >= ? AND path < ?)
		ORDER BY path`

	deleteSubtreeQuery = `DELETE FROM nodes WHERE path = ? OR (path >= ? AND path < ?)`

	deletePathQuery = `DELETE FROM nodes WHERE path = ?`

	upsertLeafQuery = `
		INSERT INTO nodes (path, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (path) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// TreeStore implements store.Tree on the SQLite nodes table.
type TreeStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Tree = (*TreeStore)(nil)

// NewTreeStore creates a TreeStore on a database returned by Open.
func NewTreeStore(db *sql.DB, logger *slog.Logger) *TreeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TreeStore{db: db, logger: logger.With(slog.String("component", "sqlite_tree"))}
}

// Get implements store.Tree.
func (s *TreeStore) Get(ctx context.Context, path string) (any, error) {
	p, err := store.CleanPath(path)
	if err != nil {
		return nil, err
	}
	lo, hi := store.SubtreeRange(p)
	rows, err := s.db.QueryContext(ctx, selectSubtreeQuery, p, lo, hi)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query subtree",
			slog.String("path", p),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(p, "get", "query failed", err)
	}
	leaves, err := store.ScanLeaves(rows)
	if err != nil {
		return nil, store.NewStoreError(p, "get", "scan failed", err)
	}
	return store.Assemble(p, leaves)
}

// Set implements store.Tree.
func (s *TreeStore) Set(ctx context.Context, path string, value any) error {
	p, err := store.CleanPath(path)
	if err != nil {
		return err
	}
	leaves, err := store.Flatten(p, value)
	if err != nil {
		return err
	}
	err = store.RunInTransaction(ctx, s.db, "set", func(ctx context.Context, tx *sql.Tx) error {
		return replace(ctx, tx, store.Subtree{Path: p, Leaves: leaves})
	})
	if err != nil {
		return store.NewStoreError(p, "set", "write failed", err)
	}
	return nil
}

// Update implements store.Tree.
func (s *TreeStore) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := store.CleanPath(path)
	if err != nil {
		return err
	}
	subtrees, err := store.FlattenFields(p, fields)
	if err != nil {
		return err
	}
	err = store.RunInTransaction(ctx, s.db, "update", func(ctx context.Context, tx *sql.Tx) error {
		for _, sub := range subtrees {
			if err := replace(ctx, tx, sub); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return store.NewStoreError(p, "update", "write failed", err)
	}
	return nil
}

func replace(ctx context.Context, tx store.DBTX, sub store.Subtree) error {
	lo, hi := store.SubtreeRange(sub.Path)
	if _, err := tx.ExecContext(ctx, deleteSubtreeQuery, sub.Path, lo, hi); err != nil {
		return err
	}
	for _, ancestor := range store.Ancestors(sub.Path) {
		if _, err := tx.ExecContext(ctx, deletePathQuery, ancestor); err != nil {
			return err
		}
	}
	for _, leaf := range sub.Leaves {
		if _, err := tx.ExecContext(ctx, upsertLeafQuery, leaf.Path, string(leaf.Value)); err != nil {
			return err
		}
	}
	return nil
}
