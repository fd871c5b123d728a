package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teenjuna/onion/internal/cidutil"
)

var (
	// ErrClosed is returned by Storage methods when the storage has been closed.
	ErrClosed = errors.New("storage is closed")
	// ErrNotFound is returned when the requested document or layer is not stored.
	ErrNotFound = errors.New("not found")
	// ErrCorrupt is returned when stored data no longer matches its CID.
	ErrCorrupt = errors.New("stored data is corrupt")
)

const (
	memory = ":memory:"
)

// Storage keeps fetched documents and peeled layer outputs in SQLite.
type Storage struct {
	cfg *Config
	db  *sql.DB
}

// New creates a new Storage with the provided configuration functions.
//
// Default configuration:
//   - URI: ":memory:" (in-memory database)
//
// Returns an error if the SQLite database cannot be opened or initialized.
func New(configFuncs ...ConfigFunc) (*Storage, error) {
	cfg := &Config{}
	cfg.URI(memory)
	for _, cf := range configFuncs {
		cf(cfg)
	}

	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := setup(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setup: %w", err)
	}

	storage := Storage{
		cfg: cfg,
		db:  db,
	}

	return &storage, nil
}

// PutDocument stores the carrier fetched for a layer, replacing any previous one.
func (s *Storage) PutDocument(layer int, data []byte) error {
	_, err := s.db.Exec(
		`
		insert into document (
			layer,
			data,
			fetched_at
		) values (
			:layer,
			:data,
			:fetched_at
		)
		on conflict (layer) do update set
			data = excluded.data,
			fetched_at = excluded.fetched_at
		`,
		sql.Named("layer", layer),
		sql.Named("data", nonNil(data)),
		sql.Named("fetched_at", toTimestamp(time.Now())),
	)
	return wrap(err)
}

// Document returns the stored carrier of a layer.
//
// Returns [ErrNotFound] if nothing was stored for the layer.
func (s *Storage) Document(layer int) (*Document, error) {
	var (
		doc       Document
		fetchedAt int64
	)
	err := s.db.QueryRow(
		`
		select layer, data, fetched_at
		from document
		where layer = :layer
		`,
		sql.Named("layer", layer),
	).Scan(
		&doc.Layer,
		&doc.Data,
		&fetchedAt,
	)
	if err != nil {
		return nil, wrap(err)
	}

	doc.FetchedAt = fromTimestamp(fetchedAt)

	return &doc, nil
}

// PutLayer stores the output of a layer under the CID of its bytes, replacing any previous
// output of the same layer.
func (s *Storage) PutLayer(layer int, data []byte) (*Layer, error) {
	id, err := cidutil.Sum(data)
	if err != nil {
		return nil, fmt.Errorf("sum: %w", err)
	}

	l := Layer{
		Layer:    layer,
		CID:      id.String(),
		Data:     nonNil(data),
		Size:     len(data),
		PeeledAt: time.Now(),
	}

	_, err = s.db.Exec(
		`
		insert into layer (
			layer,
			cid,
			data,
			size,
			peeled_at
		) values (
			:layer,
			:cid,
			:data,
			:size,
			:peeled_at
		)
		on conflict (layer) do update set
			cid = excluded.cid,
			data = excluded.data,
			size = excluded.size,
			peeled_at = excluded.peeled_at
		`,
		sql.Named("layer", l.Layer),
		sql.Named("cid", l.CID),
		sql.Named("data", l.Data),
		sql.Named("size", l.Size),
		sql.Named("peeled_at", toTimestamp(l.PeeledAt)),
	)
	if err != nil {
		return nil, wrap(err)
	}

	return &l, nil
}

// Layer returns the stored output of a layer after checking it against its CID.
//
// Returns [ErrNotFound] if the layer was never stored and [ErrCorrupt] if the check fails.
func (s *Storage) Layer(layer int) (*Layer, error) {
	row := s.db.QueryRow(
		`
		select layer, cid, data, size, peeled_at
		from layer
		where layer = :layer
		`,
		sql.Named("layer", layer),
	)

	l, err := scanLayer(row)
	if err != nil {
		return nil, wrap(err)
	}

	return l, nil
}

// Layers returns all stored layer outputs ordered by layer.
func (s *Storage) Layers() ([]Layer, error) {
	rows, err := s.db.Query(
		`
		select layer, cid, data, size, peeled_at
		from layer
		order by layer asc
		`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", wrap(err))
	}
	defer rows.Close()

	layers := make([]Layer, 0)
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		layers = append(layers, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return layers, nil
}

// Clear removes every stored document and layer.
func (s *Storage) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("delete from layer"); err != nil {
		return fmt.Errorf("delete layers: %w", err)
	}
	if _, err := tx.Exec("delete from document"); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}

	return tx.Commit()
}

// Stats returns current storage statistics.
func (s *Storage) Stats() (*Stats, error) {
	var stats Stats
	err := s.db.QueryRow(
		`
		select
			(select count(*) from document) as documents,
			(select count(*) from layer) as layers,
			(select coalesce(sum(size), 0) from layer) as bytes
		`,
	).Scan(
		&stats.Documents,
		&stats.Layers,
		&stats.Bytes,
	)
	if err != nil {
		return nil, wrap(err)
	}

	return &stats, nil
}

// Close closes the underlying SQLite database.
//
// After closing, all methods on Storage will return [ErrClosed].
func (s *Storage) Close() error {
	return s.db.Close()
}

// Document is a stored carrier as returned by a source.
type Document struct {
	// Layer is the layer the carrier belongs to.
	Layer int
	// Data is the carrier text.
	Data []byte
	// FetchedAt is the time when the carrier was stored.
	FetchedAt time.Time
}

// Layer is the stored output of a peeled layer.
type Layer struct {
	// Layer is the index of the layer that produced Data.
	Layer int
	// CID is the content identifier of Data.
	CID string
	// Data is the layer output.
	Data []byte
	// Size is the length of Data.
	Size int
	// PeeledAt is the time when the output was stored.
	PeeledAt time.Time
}

// Stats represents statistics about the storage.
type Stats struct {
	// Documents is the number of cached carriers.
	Documents int
	// Layers is the number of stored layer outputs.
	Layers int
	// Bytes is the total size of stored layer outputs.
	Bytes int
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLayer(row scanner) (*Layer, error) {
	var (
		l        Layer
		peeledAt int64
	)
	if err := row.Scan(
		&l.Layer,
		&l.CID,
		&l.Data,
		&l.Size,
		&peeledAt,
	); err != nil {
		return nil, err
	}

	l.PeeledAt = fromTimestamp(peeledAt)
	l.Data = nonNil(l.Data)

	if err := cidutil.Verify(l.CID, l.Data); err != nil {
		return nil, fmt.Errorf("%w: layer %d: %w", ErrCorrupt, l.Layer, err)
	}

	return &l, nil
}

func open(cfg *Config) (*sql.DB, error) {
	uri := *cfg.uri

	params := url.Values{}
	params.Add("_txlock", "immediate")
	params.Add("_timeout", "5000") // 5s
	params.Add("_foreign_keys", "on")
	if uri.Opaque == memory {
		uri.Scheme = "file"
		uri.Opaque = memoryName()
		params.Add("mode", "memory")
		params.Add("cache", "shared")
	} else {
		params.Add("_journal", "wal")
		params.Add("_sync", "normal")
	}
	for k, v := range uri.Query() {
		if len(v) != 0 {
			params.Set(k, v[0])
		}
	}

	uri.RawQuery = params.Encode()

	db, err := sql.Open("sqlite3", uri.String())
	if err != nil {
		return nil, err
	}

	// A Storage is used by one goroutine at a time, and a shared-cache memory database must
	// keep its single connection open to survive.
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

func setup(db *sql.DB) error {
	// Create table for fetched carriers.
	if _, err := db.Exec(
		`
		create table if not exists document (
			layer      int primary key,
			data       blob not null,
			fetched_at int not null
		) strict
		`,
	); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	// Create table for layer outputs.
	if _, err := db.Exec(
		`
		create table if not exists layer (
			layer     int primary key,
			cid       text not null,
			data      blob not null,
			size      int not null,
			peeled_at int not null
		) strict
		`,
	); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	return nil
}

// memoryName returns a random name for a shared-cache in-memory database, so that every
// Storage gets a database of its own.
func memoryName() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	name := make([]byte, 16)
	for i := range name {
		name[i] = charset[rand.IntN(len(charset))]
	}
	return "onion-" + string(name)
}

func wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case err.Error() == "sql: database is closed":
		return ErrClosed
	}
	return err
}

// nonNil keeps empty outputs distinguishable from NULL, which the strict tables reject.
func nonNil(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}

func toTimestamp(time time.Time) int64 {
	return time.UnixNano()
}

func fromTimestamp(timestamp int64) time.Time {
	return time.Unix(0, timestamp)
}
