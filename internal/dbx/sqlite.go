package dbx

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// sqliteBackend wraps one embedded-engine connection inside an explicit
// transaction. Reads stream from the driver cursor; Commit makes writes
// durable and Close without Commit rolls them back.
type sqliteBackend struct {
	db        *sql.DB
	tx        *sql.Tx
	last      *ResultSet
	committed bool
}

func openSQLite(ctx context.Context, path string) (*sqliteBackend, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("dbx: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("dbx: begin: %w", err)
	}
	return &sqliteBackend{db: db, tx: tx}, nil
}

func (b *sqliteBackend) execute(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	// sqlite allows a single in-flight cursor per connection; finish the
	// previous streaming result before starting the next statement.
	if b.last != nil {
		b.last.Close()
		b.last = nil
	}

	if !isQuery(query) {
		res, err := b.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		n, _ := res.RowsAffected()
		return &ResultSet{affected: int(n)}, nil
	}

	rows, err := b.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	if len(cols) == 0 {
		cols = InferColumns(query)
	}
	rs := &ResultSet{cols: cols, rows: &sqliteCursor{rows: rows, width: len(cols)}, isRead: true}
	b.last = rs
	return rs, nil
}

func (b *sqliteBackend) commit() error {
	if b.last != nil {
		b.last.Close()
		b.last = nil
	}
	if b.committed {
		return nil
	}
	b.committed = true
	return b.tx.Commit()
}

func (b *sqliteBackend) close() error {
	if b.last != nil {
		b.last.Close()
		b.last = nil
	}
	if !b.committed {
		b.tx.Rollback()
	}
	return b.db.Close()
}

// sqliteCursor adapts *sql.Rows to the lazy rowCursor contract.
type sqliteCursor struct {
	rows  *sql.Rows
	width int
}

func (c *sqliteCursor) Next() ([]any, bool, error) {
	if !c.rows.Next() {
		return nil, false, c.rows.Err()
	}
	vals := make([]any, c.width)
	ptrs := make([]any, c.width)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, false, err
	}
	return vals, true, nil
}

func (c *sqliteCursor) Close() error { return c.rows.Close() }
