package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"ragkb/internal/mathutil"
)

// Store is a SQLite-backed vector store. One database file can hold
// multiple named collections. Writers must be serialized externally;
// concurrent readers are safe (WAL mode).
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("vectorstore: pragma failed: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			dim  INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS records (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			text       TEXT NOT NULL,
			source     TEXT NOT NULL,
			chunk_id   INTEGER NOT NULL,
			embedding  BLOB NOT NULL,
			UNIQUE(collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("vectorstore: schema creation failed: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// CreateOrReplace drops any existing collection of the given name and
// creates an empty one. Absence of the collection is not an error.
func (s *Store) CreateOrReplace(ctx context.Context, collection string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", collection); err != nil {
		return fmt.Errorf("vectorstore: drop records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", collection); err != nil {
		return fmt.Errorf("vectorstore: drop collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO collections (name, dim) VALUES (?, 0)", collection); err != nil {
		return fmt.Errorf("vectorstore: create collection: %w", err)
	}
	return tx.Commit()
}

// Add appends records to a collection as one atomic batch: either every
// record lands or none does. A duplicate id yields ErrDuplicateID; an
// embedding whose length differs from the collection's dimension yields
// ErrDimensionMismatch. The dimension is fixed by the first record ever
// added to the collection.
func (s *Store) Add(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if err := r.validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dim, err := collectionDim(ctx, tx, collection)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(records[0].Embedding)
		if _, err := tx.ExecContext(ctx,
			"UPDATE collections SET dim = ? WHERE name = ?", dim, collection); err != nil {
			return fmt.Errorf("vectorstore: set dimension: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, text, source, chunk_id, embedding)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if len(r.Embedding) != dim {
			return fmt.Errorf("%w: record %s has %d dimensions, collection has %d",
				ErrDimensionMismatch, r.ID, len(r.Embedding), dim)
		}
		_, err := stmt.ExecContext(ctx, collection, r.ID, r.Text,
			r.Metadata.Source, r.Metadata.ChunkID, encodeEmbedding(r.Embedding))
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
			}
			return fmt.Errorf("vectorstore: insert record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// GetAll returns every record in the collection in insertion order,
// embeddings included.
func (s *Store) GetAll(ctx context.Context, collection string) ([]Record, error) {
	if err := s.mustExist(ctx, collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, source, chunk_id, embedding
		FROM records WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var emb []byte
		if err := rows.Scan(&r.ID, &r.Text, &r.Metadata.Source, &r.Metadata.ChunkID, &emb); err != nil {
			return nil, err
		}
		r.Embedding = decodeEmbedding(emb)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Query returns the topK records closest to the query embedding by
// cosine distance, ascending. Ties keep insertion order: the record
// inserted earlier wins. An empty collection yields an empty result.
//
// The scan is brute force over every stored embedding, which keeps
// distances exact and the ordering contract trivial to honor.
func (s *Store) Query(ctx context.Context, collection string, embedding []float32, topK int) ([]SearchResult, error) {
	dim, err := s.dim(ctx, collection)
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		return nil, nil // empty collection
	}
	if len(embedding) != dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection has %d",
			ErrDimensionMismatch, len(embedding), dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	records, err := s.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(records))
	for i, r := range records {
		results[i] = SearchResult{
			Record:   r,
			Distance: mathutil.CosineDistance(embedding, r.Embedding),
		}
	}
	// Stable sort over an insertion-ordered slice: equal distances keep
	// the earlier-inserted record first.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	if err := s.mustExist(ctx, collection); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE collection = ?", collection).Scan(&n)
	return n, err
}

func (s *Store) mustExist(ctx context.Context, collection string) error {
	_, err := s.dim(ctx, collection)
	return err
}

func (s *Store) dim(ctx context.Context, collection string) (int, error) {
	return collectionDim(ctx, s.db, collection)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func collectionDim(ctx context.Context, q queryer, collection string) (int, error) {
	var dim int
	err := q.QueryRowContext(ctx,
		"SELECT dim FROM collections WHERE name = ?", collection).Scan(&dim)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	return dim, err
}

// encodeEmbedding packs a float32 vector into a little-endian blob.
func encodeEmbedding(f []float32) []byte {
	buf := make([]byte, len(f)*4)
	for i, v := range f {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeEmbedding unpacks a little-endian blob into a float32 vector.
func decodeEmbedding(b []byte) []float32 {
	f := make([]float32, len(b)/4)
	for i := range f {
		f[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return f
}
