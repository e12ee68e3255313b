// Package store implements the content-addressed blob store: a sharded
// filesystem object layout mirrored by a SQLite index, with atomic durable
// writes, idempotent inserts, pinning, and garbage collection.
package store

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/animica/da/blob"
	"github.com/animica/da/daerrors"
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// IndexRecord mirrors one row of the blobs table.
type IndexRecord struct {
	Root        string
	Namespace   namespace.ID
	Size        int64
	Mime        string
	StorageKey  string
	Path        string
	CreatedAt   time.Time
	DataShards  int
	TotalShards int
	ShareBytes  int
}

// Store owns a base directory's sharded objects plus a single SQLite
// connection. Construct once per process and share the handle; never via
// a package-level singleton, per the design notes on global state.
type Store struct {
	db      *sql.DB
	baseDir string
	mu      sync.Mutex
}

// Open opens (creating if necessary) the store rooted at baseDir.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "objects"), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating object dir: %v", daerrors.ErrIO, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(baseDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("%w: opening index db: %v", daerrors.ErrIO, err)
	}
	db.SetMaxOpenConns(1) // single-writer per process

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: applying %q: %v", daerrors.ErrIO, pragma, err)
		}
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: applying schema: %v", daerrors.ErrIO, err)
	}

	return &Store{db: db, baseDir: baseDir}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) objectPath(rootHex string) string {
	return filepath.Join(s.baseDir, "objects", rootHex[0:2], rootHex[2:4], rootHex+".blob")
}

func (s *Store) metaPath(rootHex string) string {
	return filepath.Join(s.baseDir, "objects", rootHex[0:2], rootHex[2:4], rootHex+".meta.json")
}

// writeDurable writes data to a temp file beside path, fsyncs it, renames
// it atomically into place, then fsyncs the containing directory. Only
// after this returns are the bytes considered durable.
func writeDurable(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*.blob")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() { os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return err
	}

	dirHandle, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer dirHandle.Close()
	return dirHandle.Sync()
}

// Add persists a blob's payload and indexes it. Storing the same root
// twice is a no-op at both the file and row level; the existing Ref is
// returned without rewriting anything.
func (s *Store) Add(commitment blob.Commitment, meta blob.Meta, data []byte) (blob.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rootHex := commitment.StorageKey()
	path := s.objectPath(rootHex)

	if existing, err := s.getRefLocked(commitment.Root); err == nil {
		return existing, nil
	} else if !errors.Is(err, daerrors.ErrNotFound) {
		return blob.Ref{}, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeDurable(path, data); err != nil {
			return blob.Ref{}, fmt.Errorf("%w: writing blob payload: %v", daerrors.ErrIO, err)
		}
	} else if err != nil {
		return blob.Ref{}, fmt.Errorf("%w: statting blob payload: %v", daerrors.ErrIO, err)
	}

	_, err := s.db.Exec(
		`INSERT INTO blobs(root, namespace, size, mime, storage_key, path, created_at, data_shards, total_shards, share_bytes)
		 VALUES(?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(root) DO NOTHING`,
		rootHex, uint32(commitment.Namespace), commitment.Size, nullableString(meta.Mime), rootHex, path,
		time.Now().Unix(), meta.DataShards, meta.TotalShards, meta.ShareBytes,
	)
	if err != nil {
		return blob.Ref{}, fmt.Errorf("%w: inserting index row: %v", daerrors.ErrIO, err)
	}

	s.writeMetaBestEffort(rootHex, commitment, meta)

	return blob.Ref{Root: commitment.Root, StorageKey: rootHex}, nil
}

// AddBytes is the convenience variant driving blob.CommitBytes first.
func (s *Store) AddBytes(data []byte, ns namespace.ID, opts ...blob.CommitOption) (blob.Ref, error) {
	commitment, meta, _, err := blob.CommitBytes(data, ns, opts...)
	if err != nil {
		return blob.Ref{}, err
	}
	return s.Add(commitment, meta, data)
}

func (s *Store) writeMetaBestEffort(rootHex string, commitment blob.Commitment, meta blob.Meta) {
	type metaJSON struct {
		Root        string `json:"root"`
		Namespace   uint32 `json:"namespace"`
		Size        int64  `json:"size"`
		Mime        string `json:"mime,omitempty"`
		DataShards  int    `json:"data_shards"`
		TotalShards int    `json:"total_shards"`
		ShareBytes  int    `json:"share_bytes"`
	}
	out, err := json.Marshal(metaJSON{
		Root: rootHex, Namespace: uint32(commitment.Namespace), Size: commitment.Size,
		Mime: meta.Mime, DataShards: meta.DataShards, TotalShards: meta.TotalShards, ShareBytes: meta.ShareBytes,
	})
	if err != nil {
		return
	}
	_ = os.WriteFile(s.metaPath(rootHex), out, 0o644)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanRecord(row interface {
	Scan(dest ...any) error
}) (IndexRecord, error) {
	var rec IndexRecord
	var rootHex string
	var ns uint32
	var mime sql.NullString
	var createdAt int64
	var dataShards, totalShards, shareBytes sql.NullInt64

	if err := row.Scan(&rootHex, &ns, &rec.Size, &mime, &rec.StorageKey, &rec.Path, &createdAt, &dataShards, &totalShards, &shareBytes); err != nil {
		return IndexRecord{}, err
	}
	rec.Root = rootHex
	rec.Namespace = namespace.ID(ns)
	rec.Mime = mime.String
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.DataShards = int(dataShards.Int64)
	rec.TotalShards = int(totalShards.Int64)
	rec.ShareBytes = int(shareBytes.Int64)
	return rec, nil
}

// GetRef returns the Ref for root, or daerrors.ErrNotFound.
func (s *Store) GetRef(root [hashutil.Size]byte) (blob.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getRefLocked(root)
}

func (s *Store) getRefLocked(root [hashutil.Size]byte) (blob.Ref, error) {
	rootHex := hex.EncodeToString(root[:])
	var storageKey string
	err := s.db.QueryRow(`SELECT storage_key FROM blobs WHERE root = ?`, rootHex).Scan(&storageKey)
	if errors.Is(err, sql.ErrNoRows) {
		return blob.Ref{}, fmt.Errorf("%w: no blob indexed under root %s", daerrors.ErrNotFound, rootHex)
	}
	if err != nil {
		return blob.Ref{}, fmt.Errorf("%w: querying index: %v", daerrors.ErrIO, err)
	}
	return blob.Ref{Root: root, StorageKey: storageKey}, nil
}

func (s *Store) getRecord(root [hashutil.Size]byte) (IndexRecord, error) {
	rootHex := hex.EncodeToString(root[:])
	row := s.db.QueryRow(`SELECT root, namespace, size, mime, storage_key, path, created_at, data_shards, total_shards, share_bytes FROM blobs WHERE root = ?`, rootHex)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return IndexRecord{}, fmt.Errorf("%w: no blob indexed under root %s", daerrors.ErrNotFound, rootHex)
	}
	if err != nil {
		return IndexRecord{}, fmt.Errorf("%w: querying index: %v", daerrors.ErrIO, err)
	}
	return rec, nil
}

// Stat returns the full index record for root, or daerrors.ErrNotFound.
func (s *Store) Stat(root [hashutil.Size]byte) (IndexRecord, error) {
	return s.getRecord(root)
}

// Read returns the full payload bytes for root. A missing indexed row is
// daerrors.ErrNotFound; a missing payload file for an indexed row is
// store corruption.
func (s *Store) Read(root [hashutil.Size]byte) ([]byte, error) {
	rec, err := s.getRecord(root)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(rec.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: indexed payload missing at %s", daerrors.ErrStoreCorruption, rec.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading payload: %v", daerrors.ErrIO, err)
	}
	return data, nil
}

// Open returns a streaming reader over root's payload.
func (s *Store) Open(root [hashutil.Size]byte) (io.ReadCloser, error) {
	rec, err := s.getRecord(root)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(rec.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: indexed payload missing at %s", daerrors.ErrStoreCorruption, rec.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: opening payload: %v", daerrors.ErrIO, err)
	}
	return f, nil
}

// ListByNamespace returns records for ns, most recent first.
func (s *Store) ListByNamespace(ns namespace.ID) ([]IndexRecord, error) {
	rows, err := s.db.Query(`SELECT root, namespace, size, mime, storage_key, path, created_at, data_shards, total_shards, share_bytes
		FROM blobs WHERE namespace = ? ORDER BY created_at DESC`, uint32(ns))
	if err != nil {
		return nil, fmt.Errorf("%w: listing by namespace: %v", daerrors.ErrIO, err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Recent returns the most recently added records, bounded by limit.
func (s *Store) Recent(limit int) ([]IndexRecord, error) {
	rows, err := s.db.Query(`SELECT root, namespace, size, mime, storage_key, path, created_at, data_shards, total_shards, share_bytes
		FROM blobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing recent: %v", daerrors.ErrIO, err)
	}
	defer rows.Close()
	return scanAll(rows)
}

func scanAll(rows *sql.Rows) ([]IndexRecord, error) {
	var out []IndexRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", daerrors.ErrIO, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats summarizes the store's contents.
type Stats struct {
	TotalBlobs int64
	TotalBytes int64
	PinnedRows int64
}

// Stats returns aggregate counters over the index.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(size),0) FROM blobs`).Scan(&st.TotalBlobs, &st.TotalBytes); err != nil {
		return Stats{}, fmt.Errorf("%w: computing stats: %v", daerrors.ErrIO, err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT root) FROM pins`).Scan(&st.PinnedRows); err != nil {
		return Stats{}, fmt.Errorf("%w: computing pin stats: %v", daerrors.ErrIO, err)
	}
	return st, nil
}

// Pin inserts a pin row for root under tag, preventing GC from deleting it.
// Pinning a root with no stored blob returns daerrors.ErrConflict.
func (s *Store) Pin(root [hashutil.Size]byte, tag string) error {
	rootHex := hex.EncodeToString(root[:])
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM blobs WHERE root = ?`, rootHex).Scan(&exists); err != nil {
		return fmt.Errorf("%w: checking %s before pin: %v", daerrors.ErrIO, rootHex, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: cannot pin unknown root %s", daerrors.ErrConflict, rootHex)
	}
	_, err := s.db.Exec(`INSERT INTO pins(root, tag, created_at) VALUES(?,?,?) ON CONFLICT(root, tag) DO NOTHING`,
		rootHex, tag, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: pinning %s: %v", daerrors.ErrIO, rootHex, err)
	}
	return nil
}

// Unpin removes the pin row for root/tag.
func (s *Store) Unpin(root [hashutil.Size]byte, tag string) error {
	rootHex := hex.EncodeToString(root[:])
	_, err := s.db.Exec(`DELETE FROM pins WHERE root = ? AND tag = ?`, rootHex, tag)
	if err != nil {
		return fmt.Errorf("%w: unpinning %s: %v", daerrors.ErrIO, rootHex, err)
	}
	return nil
}

// IsPinned reports whether at least one pin row exists for root.
func (s *Store) IsPinned(root [hashutil.Size]byte) (bool, error) {
	rootHex := hex.EncodeToString(root[:])
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pins WHERE root = ?`, rootHex).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking pin state: %v", daerrors.ErrIO, err)
	}
	return count > 0, nil
}
