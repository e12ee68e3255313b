package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/namespace"
)

// GCOptions filters and bounds a garbage-collection pass.
type GCOptions struct {
	OlderThan  *time.Time
	Namespaces []namespace.ID
	MaxDelete  int
	DryRun     bool
}

// GCResult reports what GC found and, unless DryRun, deleted.
type GCResult struct {
	Candidates []IndexRecord
	Deleted    int
}

// GC selects unpinned rows matching opts, oldest first, bounded by
// MaxDelete. It never touches a pinned root. Deletion removes the payload
// file best-effort (a missing file is not an error) before the DB row; in
// DryRun mode nothing is mutated. File deletions run concurrently, bounded
// via errgroup, matching the bounded-worker pattern used elsewhere in the
// concurrency model.
func (s *Store) GC(opts GCOptions) (GCResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT b.root, b.namespace, b.size, b.mime, b.storage_key, b.path, b.created_at, b.data_shards, b.total_shards, b.share_bytes
		FROM blobs b
		WHERE NOT EXISTS (SELECT 1 FROM pins p WHERE p.root = b.root)`
	args := []any{}

	if opts.OlderThan != nil {
		query += ` AND b.created_at < ?`
		args = append(args, opts.OlderThan.Unix())
	}
	if len(opts.Namespaces) > 0 {
		query += ` AND b.namespace IN (`
		for i, ns := range opts.Namespaces {
			if i > 0 {
				query += `,`
			}
			query += `?`
			args = append(args, uint32(ns))
		}
		query += `)`
	}
	query += ` ORDER BY b.created_at ASC`
	if opts.MaxDelete > 0 {
		query += fmt.Sprintf(` LIMIT %d`, opts.MaxDelete)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return GCResult{}, fmt.Errorf("%w: selecting gc candidates: %v", daerrors.ErrIO, err)
	}
	candidates, err := scanAll(rows)
	rows.Close()
	if err != nil {
		return GCResult{}, err
	}

	if opts.DryRun || len(candidates) == 0 {
		return GCResult{Candidates: candidates}, nil
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for _, rec := range candidates {
		rec := rec
		g.Go(func() error {
			if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("%w: deleting payload %s: %v", daerrors.ErrIO, rec.Path, err)
			}
			_ = os.Remove(s.metaPath(rec.Root))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GCResult{}, err
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return GCResult{}, fmt.Errorf("%w: beginning gc transaction: %v", daerrors.ErrIO, err)
	}
	for _, rec := range candidates {
		if _, err := tx.Exec(`DELETE FROM blobs WHERE root = ?`, rec.Root); err != nil {
			tx.Rollback()
			return GCResult{}, fmt.Errorf("%w: deleting index row %s: %v", daerrors.ErrIO, rec.Root, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return GCResult{}, fmt.Errorf("%w: committing gc transaction: %v", daerrors.ErrIO, err)
	}

	return GCResult{Candidates: candidates, Deleted: len(candidates)}, nil
}
