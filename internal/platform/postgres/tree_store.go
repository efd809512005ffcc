package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/simfleet/internal/platform/logger"
	"github.com/phrazzld/simfleet/internal/store"
)

const (
	selectSubtreeQuery = `
		SELECT path, value
		FROM nodes
		WHERE path = $1 OR (path >= $2 AND path < $3)
		ORDER BY path
	`

	deleteSubtreeQuery = `
		DELETE FROM nodes
		WHERE path = $1 OR (path >= $2 AND path < $3)
	`

	deletePathQuery = `DELETE FROM nodes WHERE path = $1`

	upsertLeafQuery = `
		INSERT INTO nodes (path, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (path) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
)

// TreeStore implements store.Tree on a PostgreSQL nodes table.
type TreeStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure TreeStore implements store.Tree interface
var _ store.Tree = (*TreeStore)(nil)

// NewTreeStore creates a TreeStore on db. If logger is nil, slog.Default is used.
func NewTreeStore(db *sql.DB, logger *slog.Logger) *TreeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TreeStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_tree")),
	}
}

// Get implements store.Tree.Get.
func (s *TreeStore) Get(ctx context.Context, path string) (any, error) {
	p, err := store.CleanPath(path)
	if err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	lo, hi := store.SubtreeRange(p)
	rows, err := s.db.QueryContext(ctx, selectSubtreeQuery, p, lo, hi)
	if err != nil {
		log.Error("failed to query subtree", slog.String("path", p), slog.String("error", err.Error()))
		return nil, store.NewStoreError(p, "get", "query failed", MapError(err))
	}
	leaves, err := store.ScanLeaves(rows)
	if err != nil {
		return nil, store.NewStoreError(p, "get", "scan failed", MapError(err))
	}
	return store.Assemble(p, leaves)
}

// Set implements store.Tree.Set. The subtree is replaced in one transaction.
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
		return replaceSubtree(ctx, tx, p, leaves)
	})
	if err != nil {
		return store.NewStoreError(p, "set", "write failed", MapError(err))
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("subtree replaced",
		slog.String("path", p),
		slog.Int("leaves", len(leaves)))
	return nil
}

// Update implements store.Tree.Update. All fields are written in one transaction.
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
			if err := replaceSubtree(ctx, tx, sub.Path, sub.Leaves); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return store.NewStoreError(p, "update", "write failed", MapError(err))
	}
	return nil
}

func replaceSubtree(ctx context.Context, tx store.DBTX, p string, leaves []store.Leaf) error {
	lo, hi := store.SubtreeRange(p)
	if _, err := tx.ExecContext(ctx, deleteSubtreeQuery, p, lo, hi); err != nil {
		return err
	}
	for _, ancestor := range store.Ancestors(p) {
		if _, err := tx.ExecContext(ctx, deletePathQuery, ancestor); err != nil {
			return err
		}
	}
	for _, leaf := range leaves {
		if _, err := tx.ExecContext(ctx, upsertLeafQuery, leaf.Path, string(leaf.Value)); err != nil {
			return err
		}
	}
	return nil
}
