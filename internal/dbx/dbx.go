// Package dbx presents one execute/fetch contract over two structurally
// different SQL backends: an embedded sqlite file and the remote libsql
// HTTP service. Callers never learn which backend is active; every result
// row is normalized through Row before it leaves this package.
package dbx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the active backend.
type Kind int

const (
	KindSQLite Kind = iota
	KindRemote
)

func (k Kind) String() string {
	if k == KindRemote {
		return "libsql"
	}
	return "sqlite"
}

// Config carries the backend selection inputs. Presence of both remote
// credentials selects the remote backend; otherwise the embedded engine
// at SQLitePath is used.
type Config struct {
	SQLitePath      string
	RemoteURL       string
	RemoteAuthToken string
}

// DB is the process-lifetime backend selection. The choice is made once
// in Open and never changes; per-operation connections are minted from it.
type DB struct {
	kind   Kind
	path   string
	remote *remoteClient
}

// Open decides the backend from cfg. For the embedded engine the parent
// directory of the database file is created if missing.
func Open(cfg Config) (*DB, error) {
	if cfg.RemoteURL != "" && cfg.RemoteAuthToken != "" {
		rc, err := newRemoteClient(cfg.RemoteURL, cfg.RemoteAuthToken)
		if err != nil {
			return nil, err
		}
		return &DB{kind: KindRemote, remote: rc}, nil
	}

	if cfg.SQLitePath == "" {
		return nil, errors.New("dbx: sqlite path required when remote credentials are absent")
	}
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("dbx: create database dir: %w", err)
		}
	}
	return &DB{kind: KindSQLite, path: cfg.SQLitePath}, nil
}

// Kind reports which backend was selected at Open time.
func (d *DB) Kind() Kind { return d.kind }

// Conn opens one logical connection. The caller owns it for the lifetime
// of a single operation and must Close it on every exit path.
func (d *DB) Conn(ctx context.Context) (*Conn, error) {
	switch d.kind {
	case KindRemote:
		return &Conn{backend: &remoteBackend{client: d.remote}}, nil
	default:
		b, err := openSQLite(ctx, d.path)
		if err != nil {
			return nil, err
		}
		return &Conn{backend: b}, nil
	}
}

type backend interface {
	execute(ctx context.Context, query string, args ...any) (*ResultSet, error)
	commit() error
	close() error
}

// Conn is a single-operation connection over the selected backend.
type Conn struct {
	backend backend
}

// Execute runs one statement. Backend errors pass through untranslated;
// interpreting them (e.g. a uniqueness violation) is the caller's job.
func (c *Conn) Execute(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	return c.backend.execute(ctx, query, args...)
}

// Commit makes the writes of this connection durable. On the remote
// backend every statement autocommits and Commit is a no-op.
func (c *Conn) Commit() error { return c.backend.commit() }

// Close releases the connection. Uncommitted embedded-engine writes are
// rolled back.
func (c *Conn) Close() error { return c.backend.close() }

// ResultSet is the uniform fetch surface. The embedded backend streams
// rows lazily from the driver cursor; the remote backend materializes
// every row at execute time and serves fetches from the cached slice.
type ResultSet struct {
	cols     []string
	rows     rowCursor // lazy source, nil once materialized
	cached   []Row
	pos      int
	isRead   bool
	streamed int // rows handed out before materialization
	affected int
	err      error
}

// rowCursor is the lazy streaming source (satisfied by *sql.Rows via
// sqliteCursor). Kept narrow so tests can fake it.
type rowCursor interface {
	Next() (vals []any, ok bool, err error)
	Close() error
}

// FetchOne returns the next row. ok is false once the set is exhausted.
// Cached rows are served before the cursor so a RowCount drain never
// loses rows the caller has not seen yet.
func (rs *ResultSet) FetchOne() (Row, bool, error) {
	if rs.pos < len(rs.cached) {
		row := rs.cached[rs.pos]
		rs.pos++
		return row, true, nil
	}
	if rs.rows == nil {
		return Row{}, false, rs.err
	}
	vals, ok, err := rs.rows.Next()
	if err != nil {
		rs.finish(err)
		return Row{}, false, err
	}
	if !ok {
		rs.finish(nil)
		return Row{}, false, nil
	}
	row, err := NewRow(vals, rs.cols)
	if err != nil {
		rs.finish(err)
		return Row{}, false, err
	}
	rs.streamed++
	return row, true, nil
}

// FetchAll drains the remaining rows.
func (rs *ResultSet) FetchAll() ([]Row, error) {
	var out []Row
	for {
		row, ok, err := rs.FetchOne()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, row)
	}
}

// RowCount reports rows affected for writes and rows returned for reads.
// A lazily streamed read is drained into the cache first so the count is
// the full result size on either backend, at any fetch position.
func (rs *ResultSet) RowCount() int {
	if !rs.isRead {
		return rs.affected
	}
	rs.materialize()
	return rs.streamed + len(rs.cached)
}

// materialize pulls every remaining cursor row into the cache. A cursor
// error is held and surfaced by the FetchOne that reaches it.
func (rs *ResultSet) materialize() {
	for rs.rows != nil {
		vals, ok, err := rs.rows.Next()
		if err != nil {
			rs.finish(err)
			return
		}
		if !ok {
			rs.finish(nil)
			return
		}
		row, err := NewRow(vals, rs.cols)
		if err != nil {
			rs.finish(err)
			return
		}
		rs.cached = append(rs.cached, row)
	}
}

func (rs *ResultSet) finish(err error) {
	if rs.rows != nil {
		rs.rows.Close()
		rs.rows = nil
	}
	if err != nil {
		rs.err = err
	}
}

// Close releases a lazily streamed set early. Safe on materialized sets.
func (rs *ResultSet) Close() error {
	if rs.rows != nil {
		err := rs.rows.Close()
		rs.rows = nil
		return err
	}
	return nil
}

// isQuery decides execute-vs-exec dispatch for the embedded backend.
func isQuery(query string) bool {
	head := strings.ToUpper(firstWord(query))
	switch head {
	case "SELECT", "WITH", "PRAGMA", "EXPLAIN":
		return true
	}
	return false
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
